// Package device talks to the audio device over the broker: it sends
// control commands, pushes the schedule payload and tracks the status the
// device reports back.
package device

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/audiopanel/internal/common"
	"github.com/dmitrijs2005/audiopanel/internal/logging"
	"github.com/dmitrijs2005/audiopanel/internal/panel/transport"
)

// Command is a literal control payload understood by the device.
type Command string

const (
	CommandOn   Command = "ON"
	CommandOff  Command = "OFF"
	CommandAuto Command = "AUTO"
)

// ParseCommand accepts on, off and auto in any case.
func ParseCommand(s string) (Command, error) {
	switch c := Command(strings.ToUpper(strings.TrimSpace(s))); c {
	case CommandOn, CommandOff, CommandAuto:
		return c, nil
	default:
		return "", fmt.Errorf("unknown command %q", s)
	}
}

// Topics names the broker topics the device uses.
type Topics struct {
	Control  string
	Status   string
	Schedule string
}

// Remote sends to the device through a transport.Publisher. When the
// broker is unreachable the send is skipped and logged; nothing is queued.
type Remote struct {
	pub    transport.Publisher
	topics Topics
	log    logging.Logger
}

func NewRemote(pub transport.Publisher, topics Topics, log logging.Logger) *Remote {
	return &Remote{pub: pub, topics: topics, log: log}
}

// Send publishes cmd on the control topic.
func (r *Remote) Send(ctx context.Context, cmd Command) error {
	if !r.pub.IsConnected() {
		r.log.Error(ctx, "Not connected to broker", "command", string(cmd))
		return common.ErrNotConnected
	}
	if err := r.pub.Publish(r.topics.Control, string(cmd)); err != nil {
		r.log.Error(ctx, "Failed to send command", "command", string(cmd), "error", err)
		return fmt.Errorf("send %s: %w", cmd, err)
	}
	r.log.Info(ctx, "Sent command: "+string(cmd))
	return nil
}

// PushSchedule publishes the encoded schedule on the schedule topic.
func (r *Remote) PushSchedule(ctx context.Context, payload string) error {
	if !r.pub.IsConnected() {
		r.log.Debug(ctx, "schedule sync skipped, not connected", "payload", payload)
		return common.ErrNotConnected
	}
	if err := r.pub.Publish(r.topics.Schedule, payload); err != nil {
		r.log.Warn(ctx, "Schedule sync failed", "error", err)
		return fmt.Errorf("push schedule: %w", err)
	}
	r.log.Debug(ctx, "schedule synced", "payload", payload)
	return nil
}
