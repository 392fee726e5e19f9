// Package config loads runtime configuration for the audio panel.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. AUDIOPANEL_* environment variables, falling back to a .env file in
//     the working directory (e.g. AUDIOPANEL_BROKER_URL, AUDIOPANEL_SNOOZE_DURATION=10m).
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// The result must pass (*Config).Validate: a tick interval under one minute
// and a snooze of at least one minute.
//
// Supported flags
//
//	-b string   MQTT broker URL (tcp://, ssl://, ws:// or wss://)
//	-d string   path of the SQLite database file
//	-s int      snooze delay (minutes)
//	-l string   log level: debug, info, warn, error
//	-m string   serve Prometheus metrics on this address (off when empty)
//
// # JSON schema
//
// Every key is optional; absent keys keep their default:
//
//	{
//	  "broker_url": "wss://broker.hivemq.com:8884/mqtt",
//	  "client_id_prefix": "panel_",
//	  "control_topic": "audio/control",
//	  "status_topic": "audio/status",
//	  "schedule_topic": "audio/schedule",
//	  "database_path": "audiopanel.db",
//	  "tick_interval": "1s",
//	  "snooze_duration": "5m",
//	  "connect_timeout": "4s",
//	  "reconnect_period": "5s",
//	  "log_level": "info",
//	  "metrics_addr": ""
//	}
package config
