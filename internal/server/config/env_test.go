package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var envKeys = []string{
	"MEALBOT_ADDR", "DATABASE_URL", "MEALBOT_TIME_ZONE", "MEALBOT_LOG_LEVEL",
	"MEALBOT_REQUEST_TIMEOUT", "MEALBOT_PENDING_TTL", "TWILIO_ACCOUNT_SID",
	"TWILIO_AUTH_TOKEN", "MEALBOT_VERIFY_SIGNATURE", "MEALBOT_PUBLIC_BASE_URL",
	"GEMINI_API_KEY", "MEALBOT_GEMINI_MODEL", "MEALBOT_SPEECH_LANGUAGE",
	"GOOGLE_APPLICATION_CREDENTIALS", "MEALBOT_CHART_STORAGE", "MEALBOT_CHART_DIR",
	"MEALBOT_CHART_SECRET_KEY", "MEALBOT_S3_ROOT_USER", "MEALBOT_S3_ROOT_PASSWORD",
	"MEALBOT_S3_BUCKET", "MEALBOT_S3_REGION", "MEALBOT_S3_BASE_ENDPOINT",
	"MEALBOT_CONFIG",
}

// clearEnv blanks every variable parseEnv reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func Test_parseEnv(t *testing.T) {
	origDotenv := loadDotenv
	t.Cleanup(func() { loadDotenv = origDotenv })

	dotenvCalled := false
	loadDotenv = func() error {
		dotenvCalled = true
		return errors.New("open .env: no such file or directory")
	}
	clearEnv(t)

	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("TWILIO_ACCOUNT_SID", "ACenv")
	t.Setenv("TWILIO_AUTH_TOKEN", "tokenv")
	t.Setenv("GEMINI_API_KEY", "genv")
	t.Setenv("MEALBOT_REQUEST_TIMEOUT", "45s")
	t.Setenv("MEALBOT_GEMINI_TIMEOUT", "90s")
	t.Setenv("MEALBOT_PENDING_TTL", "not-a-duration")
	t.Setenv("MEALBOT_VERIFY_SIGNATURE", "true")
	t.Setenv("MEALBOT_CHART_STORAGE", "none")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.True(t, dotenvCalled)
	assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
	assert.Equal(t, "ACenv", cfg.TwilioAccountSID)
	assert.Equal(t, "tokenv", cfg.TwilioAuthToken)
	assert.Equal(t, "genv", cfg.GeminiAPIKey)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 90*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, time.Duration(0), cfg.PendingTTL, "malformed duration is ignored")
	assert.True(t, cfg.VerifySignature)
	assert.Equal(t, ChartStorageNone, cfg.ChartStorage)
	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP, "unset variables keep defaults")
}
