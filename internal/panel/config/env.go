package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// EnvFile is read from the working directory when present.
const EnvFile = ".env"

const envPrefix = "AUDIOPANEL_"

// parseEnv overlays cfg with AUDIOPANEL_* variables. Process environment
// wins over the .env file, which only fills gaps. A missing .env file is
// fine; a malformed one panics like a malformed JSON config.
func parseEnv(cfg *Config, envFile string) {
	file, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		file = map[string]string{}
	}

	lookup := func(name string) string {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			return v
		}
		return file[envPrefix+name]
	}

	setString(&cfg.BrokerURL, lookup("BROKER_URL"))
	setString(&cfg.ClientIDPrefix, lookup("CLIENT_ID_PREFIX"))
	setString(&cfg.ControlTopic, lookup("CONTROL_TOPIC"))
	setString(&cfg.StatusTopic, lookup("STATUS_TOPIC"))
	setString(&cfg.ScheduleTopic, lookup("SCHEDULE_TOPIC"))
	setString(&cfg.DatabasePath, lookup("DATABASE_PATH"))
	setString(&cfg.LogLevel, lookup("LOG_LEVEL"))
	setString(&cfg.MetricsAddr, lookup("METRICS_ADDR"))

	setDuration(&cfg.TickInterval, lookup("TICK_INTERVAL"))
	setDuration(&cfg.SnoozeDuration, lookup("SNOOZE_DURATION"))
	setDuration(&cfg.ConnectTimeout, lookup("CONNECT_TIMEOUT"))
	setDuration(&cfg.ReconnectPeriod, lookup("RECONNECT_PERIOD"))
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	if d > 0 {
		*dst = d
	}
}
