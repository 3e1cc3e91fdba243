package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// loadDotenv is a seam for tests; a missing .env file is not an error.
var loadDotenv = func() error { return godotenv.Load() }

// parseEnv overlays values from the process environment, after loading a
// .env file from the working directory if one exists. Variable names follow
// the providers' conventions where one exists (DATABASE_URL, TWILIO_*,
// GEMINI_API_KEY); everything else uses the MEALBOT_ prefix.
func parseEnv(config *Config) {
	_ = loadDotenv()

	envString(&config.EndpointAddrHTTP, "MEALBOT_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_URL")
	envString(&config.TimeZone, "MEALBOT_TIME_ZONE")
	envString(&config.LogLevel, "MEALBOT_LOG_LEVEL")
	envDuration(&config.RequestTimeout, "MEALBOT_REQUEST_TIMEOUT")
	envDuration(&config.PendingTTL, "MEALBOT_PENDING_TTL")
	envString(&config.TwilioAccountSID, "TWILIO_ACCOUNT_SID")
	envString(&config.TwilioAuthToken, "TWILIO_AUTH_TOKEN")
	envBool(&config.VerifySignature, "MEALBOT_VERIFY_SIGNATURE")
	envString(&config.PublicBaseURL, "MEALBOT_PUBLIC_BASE_URL")
	envString(&config.GeminiAPIKey, "GEMINI_API_KEY")
	envString(&config.GeminiModel, "MEALBOT_GEMINI_MODEL")
	envDuration(&config.GeminiTimeout, "MEALBOT_GEMINI_TIMEOUT")
	envString(&config.SpeechLanguage, "MEALBOT_SPEECH_LANGUAGE")
	envString(&config.SpeechCredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	envString(&config.ChartStorage, "MEALBOT_CHART_STORAGE")
	envString(&config.ChartDir, "MEALBOT_CHART_DIR")
	envString(&config.ChartSecretKey, "MEALBOT_CHART_SECRET_KEY")
	envString(&config.S3RootUser, "MEALBOT_S3_ROOT_USER")
	envString(&config.S3RootPassword, "MEALBOT_S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "MEALBOT_S3_BUCKET")
	envString(&config.S3Region, "MEALBOT_S3_REGION")
	envString(&config.S3BaseEndpoint, "MEALBOT_S3_BASE_ENDPOINT")
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// envDuration accepts Go duration strings; malformed values are ignored.
func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}

func envBool(dst *bool, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if b, err := strconv.ParseBool(v); err == nil {
		*dst = b
	}
}
