package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/audiopanel/internal/flagx"
	"github.com/dmitrijs2005/audiopanel/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	BrokerURL       string         `json:"broker_url"`
	ClientIDPrefix  string         `json:"client_id_prefix"`
	ControlTopic    string         `json:"control_topic"`
	StatusTopic     string         `json:"status_topic"`
	ScheduleTopic   string         `json:"schedule_topic"`
	DatabasePath    string         `json:"database_path"`
	TickInterval    timex.Duration `json:"tick_interval"`
	SnoozeDuration  timex.Duration `json:"snooze_duration"`
	ConnectTimeout  timex.Duration `json:"connect_timeout"`
	ReconnectPeriod timex.Duration `json:"reconnect_period"`
	LogLevel        string         `json:"log_level"`
	MetricsAddr     string         `json:"metrics_addr"`
}

// parseJson overlays cfg with the non-empty values of the JSON file named by
// -c/-config. Nothing happens when no file is given. Read and decode errors
// panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
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

	setString(&cfg.BrokerURL, jc.BrokerURL)
	setString(&cfg.ClientIDPrefix, jc.ClientIDPrefix)
	setString(&cfg.ControlTopic, jc.ControlTopic)
	setString(&cfg.StatusTopic, jc.StatusTopic)
	setString(&cfg.ScheduleTopic, jc.ScheduleTopic)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)

	if jc.TickInterval.Duration > 0 {
		cfg.TickInterval = jc.TickInterval.Duration
	}
	if jc.SnoozeDuration.Duration > 0 {
		cfg.SnoozeDuration = jc.SnoozeDuration.Duration
	}
	if jc.ConnectTimeout.Duration > 0 {
		cfg.ConnectTimeout = jc.ConnectTimeout.Duration
	}
	if jc.ReconnectPeriod.Duration > 0 {
		cfg.ReconnectPeriod = jc.ReconnectPeriod.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
