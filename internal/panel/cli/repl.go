package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/audiopanel/internal/panel/device"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// promptFn prints the REPL prompt. It is silenced when stdin is not a terminal.
var promptFn = func(s string) { fmt.Print(s) }

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a recording stub.
type execIface interface {
	AddAlarm(ctx context.Context, args []string) error
	ListAlarms(ctx context.Context) error
	ToggleAlarm(ctx context.Context, args []string) error
	DeleteAlarm(ctx context.Context, args []string) error
	Dismiss(ctx context.Context) error
	Snooze(ctx context.Context) error
	SendCommand(ctx context.Context, cmd device.Command) error
	ShowStatus(ctx context.Context) error
	ShowLog(ctx context.Context) error
	ClearLog(ctx context.Context) error
	ShowPayload(ctx context.Context) error
}

const helpText = "Available commands: add, (l)ist, toggle <id>, delete <id>, dismiss, snooze, on, off, auto, status, log, clearlog, payload, exit"

// runREPL reads commands from reader until EOF, "exit"/"quit" or ctx is
// done. Errors returned by handlers are ignored here: handlers report their
// own failures, which keeps the loop focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		promptFn(fmt.Sprintf("panel %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			printlnFn(helpText)

		case "add":
			_ = a.AddAlarm(ctx, args)

		case "l", "list":
			_ = a.ListAlarms(ctx)

		case "toggle":
			_ = a.ToggleAlarm(ctx, args)

		case "delete", "rm":
			_ = a.DeleteAlarm(ctx, args)

		case "dismiss", "d":
			_ = a.Dismiss(ctx)

		case "snooze", "z":
			_ = a.Snooze(ctx)

		case "on", "off", "auto":
			c, _ := device.ParseCommand(cmd)
			_ = a.SendCommand(ctx, c)

		case "status":
			_ = a.ShowStatus(ctx)

		case "log":
			_ = a.ShowLog(ctx)

		case "clearlog":
			_ = a.ClearLog(ctx)

		case "payload":
			_ = a.ShowPayload(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
