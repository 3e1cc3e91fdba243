package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mealbot/internal/flagx"
	"github.com/dmitrijs2005/mealbot/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	WebhookURL string         `json:"webhook_url"`
	Sender     string         `json:"sender"`
	Timeout    timex.Duration `json:"timeout"`
}

// parseJson overlays Config with values from the file named by -c/-config.
// Missing keys keep their current values. Read or decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.WebhookURL != "" {
		cfg.WebhookURL = jc.WebhookURL
	}
	if jc.Sender != "" {
		cfg.Sender = jc.Sender
	}
	if jc.Timeout.Duration > 0 {
		cfg.Timeout = jc.Timeout.Duration
	}
}
