package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/mealbot/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-z string   time zone for daily summaries (e.g., "Asia/Kolkata")
//	-l string   log level
//	-t int      request timeout, seconds
//	-p int      pending meal TTL, minutes (0 = until answered)
//	-b string   public base URL
//	-m string   Gemini model
//	-g string   speech locale
//	-s string   chart storage (none, local, s3)
//
// Duration flags are integers and converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-z", "-l", "-t", "-p", "-b", "-m", "-g", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.TimeZone, "z", config.TimeZone, "time zone for daily summaries")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	requestTimeout := fs.Int("t", int(config.RequestTimeout.Seconds()), "request timeout (in seconds)")
	pendingTTL := fs.Int("p", int(config.PendingTTL.Minutes()), "pending meal TTL (in minutes, 0 = until answered)")

	fs.StringVar(&config.PublicBaseURL, "b", config.PublicBaseURL, "public base URL")
	fs.StringVar(&config.GeminiModel, "m", config.GeminiModel, "Gemini model")
	fs.StringVar(&config.SpeechLanguage, "g", config.SpeechLanguage, "speech recognition locale")
	fs.StringVar(&config.ChartStorage, "s", config.ChartStorage, "chart storage: none, local or s3")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	config.PendingTTL = time.Duration(*pendingTTL) * time.Minute
}
