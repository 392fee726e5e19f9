package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/audiopanel/internal/common"
	"github.com/dmitrijs2005/audiopanel/internal/panel/models"
)

var errAmbiguousID = errors.New("ambiguous alarm id")

// AddAlarm creates an alarm from "HH:MM [days [label...]]". With no
// arguments every part is prompted for.
func (a *App) AddAlarm(ctx context.Context, args []string) error {
	var timeText, daysText, label string
	var err error

	if len(args) == 0 {
		if timeText, err = GetSimpleText(a.reader, "Alarm time (HH:MM)", a.out); err != nil {
			return err
		}
		if label, err = GetSimpleText(a.reader, "Label (empty for \""+models.DefaultLabel+"\")", a.out); err != nil {
			return err
		}
		if daysText, err = GetSimpleText(a.reader, "Days, 0=Sun..6=Sat comma separated (empty for once)", a.out); err != nil {
			return err
		}
	} else {
		timeText = args[0]
		if len(args) > 1 {
			daysText = args[1]
		}
		if len(args) > 2 {
			label = strings.Join(args[2:], " ")
		}
	}

	hour, minute, err := models.ParseTime(timeText)
	if err != nil {
		fmt.Fprintln(a.out, "Please enter a valid time (HH:MM)")
		return err
	}
	if strings.EqualFold(daysText, "once") {
		daysText = ""
	}
	days, err := models.ParseDays(daysText)
	if err != nil {
		fmt.Fprintln(a.out, "Days must be weekday numbers 0..6, e.g. 1,3,5")
		return err
	}

	alarm, err := a.svc.Add(ctx, hour, minute, label, days)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Added", alarm)
	return nil
}

func (a *App) ListAlarms(ctx context.Context) error {
	alarms := a.svc.List()
	if len(alarms) == 0 {
		fmt.Fprintln(a.out, "No alarms set")
		return nil
	}
	for _, alarm := range alarms {
		fmt.Fprintln(a.out, alarm)
	}
	return nil
}

func (a *App) ToggleAlarm(ctx context.Context, args []string) error {
	id, err := a.resolveID(args)
	if err != nil {
		return err
	}
	alarm, err := a.svc.Toggle(ctx, id)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	fmt.Fprintln(a.out, alarm)
	return nil
}

func (a *App) DeleteAlarm(ctx context.Context, args []string) error {
	id, err := a.resolveID(args)
	if err != nil {
		return err
	}
	if err := a.svc.Delete(ctx, id); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	return nil
}

func (a *App) Dismiss(ctx context.Context) error {
	if _, err := a.svc.Dismiss(ctx); err != nil {
		fmt.Fprintln(a.out, "No alarm is ringing")
		return err
	}
	return nil
}

func (a *App) Snooze(ctx context.Context) error {
	alarm, err := a.svc.Snooze(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "No alarm is ringing")
		return err
	}
	fmt.Fprintf(a.out, "Snoozed until %s\n", alarm.Time())
	return nil
}

func (a *App) ShowPayload(ctx context.Context) error {
	p := a.svc.Payload()
	if p == "" {
		p = "(empty)"
	}
	fmt.Fprintln(a.out, p)
	return nil
}

// resolveID maps the first argument to an alarm id: an exact id, or a prefix
// matching exactly one alarm. Unknown input is passed through so the
// controller reports it.
func (a *App) resolveID(args []string) (string, error) {
	if len(args) == 0 {
		id, err := GetSimpleText(a.reader, "Enter alarm id", a.out)
		if err != nil {
			return "", err
		}
		args = []string{id}
	}
	in := args[0]
	if in == "" {
		fmt.Fprintln(a.out, "Error:", common.ErrNotFound)
		return "", common.ErrNotFound
	}

	var match string
	for _, alarm := range a.svc.List() {
		if alarm.ID == in {
			return in, nil
		}
		if strings.HasPrefix(alarm.ID, in) {
			if match != "" {
				fmt.Fprintf(a.out, "Id prefix %q matches more than one alarm\n", in)
				return "", errAmbiguousID
			}
			match = alarm.ID
		}
	}
	if match == "" {
		return in, nil
	}
	return match, nil
}
