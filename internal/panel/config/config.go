package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the audio panel.
//
// Durations are time.Duration values; the JSON loader accepts them either as
// strings like "5m" or as integer nanoseconds.
type Config struct {
	BrokerURL      string
	ClientIDPrefix string

	ControlTopic  string
	StatusTopic   string
	ScheduleTopic string

	DatabasePath string

	TickInterval    time.Duration
	SnoozeDuration  time.Duration
	ConnectTimeout  time.Duration
	ReconnectPeriod time.Duration

	LogLevel string

	// MetricsAddr enables the Prometheus endpoint when non-empty, e.g. ":9105".
	MetricsAddr string
}

// LoadDefaults populates c with the public test broker and standard topics.
func (c *Config) LoadDefaults() {
	c.BrokerURL = "wss://broker.hivemq.com:8884/mqtt"
	c.ClientIDPrefix = "panel_"
	c.ControlTopic = "audio/control"
	c.StatusTopic = "audio/status"
	c.ScheduleTopic = "audio/schedule"
	c.DatabasePath = "audiopanel.db"
	c.TickInterval = time.Second
	c.SnoozeDuration = 5 * time.Minute
	c.ConnectTimeout = 4 * time.Second
	c.ReconnectPeriod = 5 * time.Second
	c.LogLevel = "info"
}

// Validate reports settings the scheduler cannot honour. The engine looks at
// each wall-clock minute, so ticks must come more often than once a minute,
// and a snoozed alarm must land in a later minute than the one ringing.
func (c *Config) Validate() error {
	if c.TickInterval <= 0 || c.TickInterval >= time.Minute {
		return fmt.Errorf("tick interval %s must be between 0 and 1m", c.TickInterval)
	}
	if c.SnoozeDuration < time.Minute {
		return fmt.Errorf("snooze duration %s must be at least 1m", c.SnoozeDuration)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones. Like a malformed JSON
// file, a result that fails Validate panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, EnvFile)
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
