package device

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/audiopanel/internal/logging"
)

// Status is the JSON document the device publishes on its status topic.
// Every field is optional.
type Status struct {
	Audio    string `json:"audio,omitempty"`
	Mode     string `json:"mode,omitempty"`
	IP       string `json:"ip,omitempty"`
	Time     string `json:"time,omitempty"`
	Schedule string `json:"schedule,omitempty"`
	Event    string `json:"status,omitempty"`
}

// Snapshot is the latest known device state.
type Snapshot struct {
	PowerOn    bool
	Mode       string
	IP         string
	DeviceTime string
	Schedule   string
	LastUpdate time.Time
}

// ScheduleSummary renders a device schedule "HH:MM-HH:MM" for display.
func (s Snapshot) ScheduleSummary() string {
	on, off, ok := strings.Cut(s.Schedule, "-")
	if !ok {
		return s.Schedule
	}
	return fmt.Sprintf("Auto ON at %s, OFF at %s", on, off)
}

func (s Snapshot) String() string {
	power, audio := "OFF", "Silent"
	if s.PowerOn {
		power, audio = "ON", "Playing 10kHz"
	}
	updated := "never"
	if !s.LastUpdate.IsZero() {
		updated = s.LastUpdate.Format("15:04")
	}
	return fmt.Sprintf("power=%s (%s) mode=%s ip=%s device-time=%s schedule=%q updated=%s",
		power, audio, orDash(s.Mode), orDash(s.IP), orDash(s.DeviceTime), s.ScheduleSummary(), updated)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Monitor folds status payloads into a Snapshot. It is safe for use from
// the transport's callback goroutine.
type Monitor struct {
	mu   sync.RWMutex
	snap Snapshot
	log  logging.Logger
	now  func() time.Time
}

func NewMonitor(log logging.Logger) *Monitor {
	return &Monitor{log: log, now: time.Now}
}

// Handle applies one status payload. Malformed payloads are logged and
// leave the snapshot untouched.
func (m *Monitor) Handle(ctx context.Context, payload []byte) {
	var st Status
	if err := json.Unmarshal(payload, &st); err != nil {
		m.log.Warn(ctx, "Error parsing status", "error", err)
		return
	}

	m.mu.Lock()
	if st.Audio != "" {
		m.snap.PowerOn = st.Audio == string(CommandOn)
	}
	if st.Mode != "" {
		m.snap.Mode = st.Mode
	}
	if st.IP != "" {
		m.snap.IP = st.IP
	}
	if st.Time != "" {
		m.snap.DeviceTime = st.Time
	}
	if st.Schedule != "" {
		m.snap.Schedule = st.Schedule
	}
	m.snap.LastUpdate = m.now()
	m.mu.Unlock()

	switch st.Event {
	case "audio_on":
		logging.Success(ctx, m.log, "Tweeter turned ON")
	case "audio_off":
		m.log.Info(ctx, "Tweeter turned OFF")
	case "online":
		logging.Success(ctx, m.log, "Device online")
	}
}

// Snapshot returns the current state.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}
