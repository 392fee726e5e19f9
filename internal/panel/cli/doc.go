// Package cli provides the interactive audio panel.
//
// It wires configuration, local storage, the MQTT transport, the alarm
// controller and its scheduler, then runs a REPL until the user exits or the
// process is signalled. The scheduler and the broker callbacks run in their
// own goroutines; alarm state is owned by services.AlarmService.
//
// Commands:
//   - add [HH:MM [days [label...]]]   add an alarm, prompting for missing parts
//   - (l)ist                          list alarms by time of day
//   - toggle <id>, delete <id>        id or a unique id prefix
//   - dismiss, snooze                 act on the ringing alarm
//   - on, off, auto                   manual device commands
//   - status, log, clearlog, payload  device state and activity
//   - exit | quit
package cli
