package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/audiopanel/internal/panel/device"
)

func (a *App) SendCommand(ctx context.Context, cmd device.Command) error {
	return a.remote.Send(ctx, cmd)
}

func (a *App) ShowStatus(ctx context.Context) error {
	conn := "disconnected"
	if a.conn.IsConnected() {
		conn = "connected to " + a.config.BrokerURL
	}
	fmt.Fprintln(a.out, "Broker:", conn)
	fmt.Fprintln(a.out, "Device:", a.monitor.Snapshot())
	if alarm, ok := a.svc.Active(); ok {
		fmt.Fprintf(a.out, "Ringing: %s (%s)\n", alarm.Label, alarm.Time())
	}
	return nil
}

func (a *App) ShowLog(ctx context.Context) error {
	entries := a.activity.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "Log is empty")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(a.out, e)
	}
	return nil
}

func (a *App) ClearLog(ctx context.Context) error {
	a.activity.Clear(ctx)
	return nil
}
