package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/audiopanel/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only -b, -d, -s, -l and -m are looked at; everything else on the command
// line is left to other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-s", "-l", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BrokerURL, "b", cfg.BrokerURL, "MQTT broker URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the SQLite database")
	snooze := fs.Int("s", int(cfg.SnoozeDuration.Minutes()), "snooze delay (in minutes)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "address to serve Prometheus metrics on")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -s only counts in whole minutes, so it must not round an earlier value.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "s" {
			cfg.SnoozeDuration = time.Duration(*snooze) * time.Minute
		}
	})
}
