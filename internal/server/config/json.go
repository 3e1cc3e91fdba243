package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mealbot/internal/flagx"
	"github.com/dmitrijs2005/mealbot/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept "30s"
// style strings or integer nanoseconds. Zero values leave the current setting
// untouched, so a file only needs the keys it changes.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	TimeZone              string         `json:"time_zone"`
	LogLevel              string         `json:"log_level"`
	RequestTimeout        timex.Duration `json:"request_timeout"`
	PendingTTL            timex.Duration `json:"pending_ttl"`
	TwilioAccountSID      string         `json:"twilio_account_sid"`
	TwilioAuthToken       string         `json:"twilio_auth_token"`
	VerifySignature       *bool          `json:"verify_signature"`
	PublicBaseURL         string         `json:"public_base_url"`
	GeminiAPIKey          string         `json:"gemini_api_key"`
	GeminiModel           string         `json:"gemini_model"`
	GeminiBaseURL         string         `json:"gemini_base_url"`
	GeminiTimeout         timex.Duration `json:"gemini_timeout"`
	SpeechLanguage        string         `json:"speech_language"`
	SpeechSampleRate      int            `json:"speech_sample_rate"`
	SpeechCredentialsFile string         `json:"speech_credentials_file"`
	ChartStorage          string         `json:"chart_storage"`
	ChartDir              string         `json:"chart_dir"`
	ChartSecretKey        string         `json:"chart_secret_key"`
	ChartLinkValidity     timex.Duration `json:"chart_link_validity"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the JSON file named by -c/-config (or
// $MEALBOT_CONFIG). No file means nothing to do; an unreadable or invalid
// file panics, since the server cannot start with a config it did not read.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.TimeZone, c.TimeZone)
	setString(&config.LogLevel, c.LogLevel)
	if c.RequestTimeout.Duration > 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.PendingTTL.Duration > 0 {
		config.PendingTTL = c.PendingTTL.Duration
	}
	setString(&config.TwilioAccountSID, c.TwilioAccountSID)
	setString(&config.TwilioAuthToken, c.TwilioAuthToken)
	if c.VerifySignature != nil {
		config.VerifySignature = *c.VerifySignature
	}
	setString(&config.PublicBaseURL, c.PublicBaseURL)
	setString(&config.GeminiAPIKey, c.GeminiAPIKey)
	setString(&config.GeminiModel, c.GeminiModel)
	setString(&config.GeminiBaseURL, c.GeminiBaseURL)
	if c.GeminiTimeout.Duration > 0 {
		config.GeminiTimeout = c.GeminiTimeout.Duration
	}
	setString(&config.SpeechLanguage, c.SpeechLanguage)
	if c.SpeechSampleRate > 0 {
		config.SpeechSampleRate = c.SpeechSampleRate
	}
	setString(&config.SpeechCredentialsFile, c.SpeechCredentialsFile)
	setString(&config.ChartStorage, c.ChartStorage)
	setString(&config.ChartDir, c.ChartDir)
	setString(&config.ChartSecretKey, c.ChartSecretKey)
	if c.ChartLinkValidity.Duration > 0 {
		config.ChartLinkValidity = c.ChartLinkValidity.Duration
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
