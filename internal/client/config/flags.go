package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/mealbot/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-u string   webhook URL
//	-f string   sender address (From)
//	-t int      request timeout in seconds
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-f", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.WebhookURL, "u", cfg.WebhookURL, "webhook URL")
	fs.StringVar(&cfg.Sender, "f", cfg.Sender, "sender address")
	timeout := fs.Int("t", int(cfg.Timeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Timeout = time.Duration(*timeout) * time.Second
}
