// Package config holds the chat simulator's settings.
package config

import "time"

// Config holds runtime settings for the mealbot chat simulator.
//
// Fields:
//   - WebhookURL: full URL of the server's /whatsapp route.
//   - Sender: the From address messages are sent as.
//   - Timeout: per-message HTTP timeout; extraction can take a while.
type Config struct {
	WebhookURL string
	Sender     string
	Timeout    time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.WebhookURL = "http://127.0.0.1:8080/whatsapp"
	c.Sender = "whatsapp:+10000000000"
	c.Timeout = 90 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
