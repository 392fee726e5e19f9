// Package models defines the alarm entity and the pure helpers that
// validate, format, parse and order alarms.
package models

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/audiopanel/internal/common"
)

// DefaultLabel replaces an empty label.
const DefaultLabel = "Alarm"

// Alarm is a scheduled audio trigger. An empty Days set makes it one-shot.
type Alarm struct {
	ID      string `json:"id"`
	Hour    int    `json:"hour"`
	Minute  int    `json:"minute"`
	Label   string `json:"label"`
	Days    []int  `json:"days"`
	Enabled bool   `json:"enabled"`
}

// ValidateTime reports whether hour and minute are a valid 24-hour time.
func ValidateTime(hour, minute int) bool {
	return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
}

// FormatTime renders a zero-padded 24-hour "HH:MM".
func FormatTime(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// Compare orders alarms by hour, then minute. It is meant for display
// sorting only.
func Compare(a, b Alarm) int {
	if a.Hour != b.Hour {
		return a.Hour - b.Hour
	}
	return a.Minute - b.Minute
}

// NormalizeDays returns days sorted ascending without duplicates. It fails
// with common.ErrInvalidDays if any index is outside 0..6.
func NormalizeDays(days []int) ([]int, error) {
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: weekday %d out of range 0..6", common.ErrInvalidDays, d)
		}
		out = append(out, d)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// ParseTime parses "H:MM" or "HH:MM" in 24-hour form.
func ParseTime(s string) (hour, minute int, err error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q is not HH:MM", common.ErrInvalidTime, s)
	}
	hour, errH := strconv.Atoi(hs)
	minute, errM := strconv.Atoi(ms)
	if errH != nil || errM != nil || len(ms) != 2 || !ValidateTime(hour, minute) {
		return 0, 0, fmt.Errorf("%w: %q is not HH:MM", common.ErrInvalidTime, s)
	}
	return hour, minute, nil
}

// ParseDays parses a comma-separated weekday list ("1,3,5"). An empty string
// or "*" yields an empty (one-shot) set.
func ParseDays(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a weekday index", common.ErrInvalidDays, p)
		}
		days = append(days, d)
	}
	return NormalizeDays(days)
}

// Validate checks the alarm's field invariants.
func (a *Alarm) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: empty id", common.ErrInvalidAlarm)
	}
	if !ValidateTime(a.Hour, a.Minute) {
		return fmt.Errorf("%w: %02d:%02d", common.ErrInvalidTime, a.Hour, a.Minute)
	}
	days, err := NormalizeDays(a.Days)
	if err != nil {
		return err
	}
	if len(days) != len(a.Days) {
		return fmt.Errorf("%w: duplicate weekdays", common.ErrInvalidDays)
	}
	return nil
}

// IsOneShot reports whether the alarm has no recurrence days.
func (a *Alarm) IsOneShot() bool {
	return len(a.Days) == 0
}

// Time returns the alarm time as "HH:MM".
func (a *Alarm) Time() string {
	return FormatTime(a.Hour, a.Minute)
}

// Matches reports whether t (local wall clock) falls in the alarm's minute
// on one of its days. The enabled flag is not consulted.
func (a *Alarm) Matches(t time.Time) bool {
	if t.Hour() != a.Hour || t.Minute() != a.Minute {
		return false
	}
	return a.IsOneShot() || slices.Contains(a.Days, int(t.Weekday()))
}

// DaysString renders the day set for display, e.g. "Mon,Wed" or "once".
func (a *Alarm) DaysString() string {
	if a.IsOneShot() {
		return "once"
	}
	names := make([]string, len(a.Days))
	for i, d := range a.Days {
		names[i] = time.Weekday(d).String()[:3]
	}
	return strings.Join(names, ",")
}

func (a Alarm) String() string {
	state := "on"
	if !a.Enabled {
		state = "off"
	}
	return fmt.Sprintf("%s  %s  %-3s  %-15s  %s", a.ID, a.Time(), state, a.DaysString(), a.Label)
}
