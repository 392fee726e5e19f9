// Package common defines sentinel errors shared by the panel layers.
// Callers match them with errors.Is.
package common

import "errors"

var (
	// Validation errors.
	ErrInvalidTime  = errors.New("invalid time")
	ErrInvalidDays  = errors.New("invalid weekday set")
	ErrInvalidAlarm = errors.New("invalid alarm")

	// Lookup errors.
	ErrNotFound      = errors.New("not found")
	ErrNoActiveAlarm = errors.New("no alarm is presenting")

	// Transport errors.
	ErrNotConnected = errors.New("not connected to broker")
)
