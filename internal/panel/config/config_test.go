package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "wss://broker.hivemq.com:8884/mqtt", c.BrokerURL)
	assert.Equal(t, "panel_", c.ClientIDPrefix)
	assert.Equal(t, "audio/control", c.ControlTopic)
	assert.Equal(t, "audio/status", c.StatusTopic)
	assert.Equal(t, "audio/schedule", c.ScheduleTopic)
	assert.Equal(t, "audiopanel.db", c.DatabasePath)
	assert.Equal(t, time.Second, c.TickInterval)
	assert.Equal(t, 5*time.Minute, c.SnoozeDuration)
	assert.Equal(t, 4*time.Second, c.ConnectTimeout)
	assert.Equal(t, 5*time.Second, c.ReconnectPeriod)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "audiopanel.db", cfg.DatabasePath)
	assert.Equal(t, 5*time.Minute, cfg.SnoozeDuration)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"database_path":   "from-json.db",
		"snooze_duration": "2m",
		"log_level":       "warn",
	})
	os.Args = []string{"testbin", "-c", path, "-d", "from-flag.db"}

	cfg := LoadConfig()

	assert.Equal(t, "from-flag.db", cfg.DatabasePath)
	assert.Equal(t, 2*time.Minute, cfg.SnoozeDuration)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "audio/control", cfg.ControlTopic)
}

func TestLoadConfig_EnvSnoozeSurvivesFlagParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"panel"}
	t.Setenv("AUDIOPANEL_SNOOZE_DURATION", "90s")

	cfg := LoadConfig()

	assert.Equal(t, 90*time.Second, cfg.SnoozeDuration)
}

func TestLoadConfig_RejectsUnusableTiming(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"panel"}

	t.Run("sub-minute snooze", func(t *testing.T) {
		t.Setenv("AUDIOPANEL_SNOOZE_DURATION", "30s")
		require.Panics(t, func() { LoadConfig() })
	})

	t.Run("zero snooze flag", func(t *testing.T) {
		os.Args = []string{"panel", "-s", "0"}
		t.Cleanup(func() { os.Args = []string{"panel"} })
		require.Panics(t, func() { LoadConfig() })
	})

	t.Run("tick slower than a minute", func(t *testing.T) {
		t.Setenv("AUDIOPANEL_TICK_INTERVAL", "2m")
		require.Panics(t, func() { LoadConfig() })
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		tick    time.Duration
		snooze  time.Duration
		wantErr bool
	}{
		{name: "defaults", tick: time.Second, snooze: 5 * time.Minute},
		{name: "slowest tick", tick: 59 * time.Second, snooze: time.Minute},
		{name: "one minute tick", tick: time.Minute, snooze: time.Minute, wantErr: true},
		{name: "zero tick", tick: 0, snooze: time.Minute, wantErr: true},
		{name: "short snooze", tick: time.Second, snooze: 59 * time.Second, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{TickInterval: tt.tick, SnoozeDuration: tt.snooze}
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}
