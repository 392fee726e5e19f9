// Package services holds the alarm lifecycle controller: the single owner of
// the in-memory alarm collection and of the presenting-alarm slot.
//
// Every operation runs to completion under one lock. A successful mutation
// is persisted through the store and mirrored to the device as a schedule
// payload before the call returns. Storage and transport failures are
// logged, never returned: the in-memory collection stays authoritative.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/audiopanel/internal/common"
	"github.com/dmitrijs2005/audiopanel/internal/logging"
	"github.com/dmitrijs2005/audiopanel/internal/panel/device"
	"github.com/dmitrijs2005/audiopanel/internal/panel/models"
	"github.com/dmitrijs2005/audiopanel/internal/panel/scheduler"
	"github.com/dmitrijs2005/audiopanel/internal/panel/store"
	"github.com/dmitrijs2005/audiopanel/internal/panel/wire"
	"github.com/google/uuid"
)

// DefaultSnooze is how far a snooze pushes the alarm.
const DefaultSnooze = 5 * time.Minute

const snoozedSuffix = " (Snoozed)"

// Device is the remote side the controller drives.
type Device interface {
	Send(ctx context.Context, cmd device.Command) error
	PushSchedule(ctx context.Context, payload string) error
}

// Notifier presents a fired alarm to the user.
type Notifier interface {
	Notify(ctx context.Context, alarm models.Alarm)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, models.Alarm) {}

type Option func(*AlarmService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *AlarmService) { s.now = now }
}

// WithIDGenerator replaces uuid.NewString for new alarm ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *AlarmService) { s.newID = newID }
}

// WithSnooze sets the snooze delay.
func WithSnooze(d time.Duration) Option {
	return func(s *AlarmService) {
		if d > 0 {
			s.snooze = d
		}
	}
}

// WithNotifier sets the fired-alarm presenter.
func WithNotifier(n Notifier) Option {
	return func(s *AlarmService) {
		if n != nil {
			s.notifier = n
		}
	}
}

type AlarmService struct {
	store    store.AlarmStore
	device   Device
	engine   *scheduler.Engine
	notifier Notifier
	log      logging.Logger

	now    func() time.Time
	newID  func() string
	snooze time.Duration

	mu       sync.Mutex
	alarms   []models.Alarm
	activeID string
}

var _ scheduler.Handler = (*AlarmService)(nil)

func NewAlarmService(st store.AlarmStore, dev Device, engine *scheduler.Engine, log logging.Logger, opts ...Option) *AlarmService {
	s := &AlarmService{
		store:    st,
		device:   dev,
		engine:   engine,
		notifier: nopNotifier{},
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
		snooze:   DefaultSnooze,
		alarms:   []models.Alarm{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load restores the collection from the store and pushes it to the device.
func (s *AlarmService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alarms = s.store.Load(ctx)
	s.log.Debug(ctx, "alarms restored", "count", len(s.alarms))
	s.sync(ctx)
}

// Add appends a new enabled alarm. An empty label becomes models.DefaultLabel.
// Out-of-range input is reported and leaves the collection unchanged.
func (s *AlarmService) Add(ctx context.Context, hour, minute int, label string, days []int) (models.Alarm, error) {
	if !models.ValidateTime(hour, minute) {
		s.log.Error(ctx, fmt.Sprintf("Invalid alarm time %02d:%02d", hour, minute))
		return models.Alarm{}, fmt.Errorf("%w: %02d:%02d", common.ErrInvalidTime, hour, minute)
	}
	normalized, err := models.NormalizeDays(days)
	if err != nil {
		s.log.Error(ctx, "Invalid alarm days", "error", err)
		return models.Alarm{}, err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = models.DefaultLabel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := models.Alarm{
		ID:      s.newID(),
		Hour:    hour,
		Minute:  minute,
		Label:   label,
		Days:    normalized,
		Enabled: true,
	}
	s.alarms = append(s.alarms, a)
	s.commit(ctx)
	s.log.Info(ctx, fmt.Sprintf("Alarm %q set for %s (%s)", a.Label, a.Time(), a.DaysString()))
	return cloneAlarm(a), nil
}

// Toggle flips an alarm's enabled flag.
func (s *AlarmService) Toggle(ctx context.Context, id string) (models.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.log.Warn(ctx, "Alarm not found", "id", id)
		return models.Alarm{}, fmt.Errorf("toggle %s: %w", id, common.ErrNotFound)
	}
	s.alarms[i].Enabled = !s.alarms[i].Enabled
	s.commit(ctx)

	a := s.alarms[i]
	state := "disabled"
	if a.Enabled {
		state = "enabled"
	}
	s.log.Info(ctx, fmt.Sprintf("Alarm %q at %s %s", a.Label, a.Time(), state))
	return cloneAlarm(a), nil
}

// Delete removes an alarm. An unknown id changes nothing.
func (s *AlarmService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		s.log.Debug(ctx, "delete of unknown alarm ignored", "id", id)
		return fmt.Errorf("delete %s: %w", id, common.ErrNotFound)
	}
	a := s.alarms[i]
	s.alarms = slices.Delete(s.alarms, i, i+1)
	s.commit(ctx)
	s.log.Info(ctx, fmt.Sprintf("Alarm %q at %s deleted", a.Label, a.Time()))
	return nil
}

// Dismiss ends the presenting alarm, turns the device off and disarms the
// alarm if it was one-shot. It returns the dismissed alarm.
func (s *AlarmService) Dismiss(ctx context.Context) (models.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return models.Alarm{}, common.ErrNoActiveAlarm
	}
	id := s.activeID
	s.activeID = ""
	s.sendOff(ctx)

	i := s.indexOf(id)
	if i < 0 {
		s.log.Info(ctx, "Alarm dismissed")
		return models.Alarm{}, nil
	}
	if s.alarms[i].IsOneShot() && s.alarms[i].Enabled {
		s.alarms[i].Enabled = false
		s.commit(ctx)
	}
	a := s.alarms[i]
	s.log.Info(ctx, fmt.Sprintf("Alarm %q dismissed", a.Label))
	return cloneAlarm(a), nil
}

// Snooze ends the presenting alarm, turns the device off and appends a
// one-shot copy due after the snooze delay. The original alarm is left as
// it is. It returns the new alarm.
func (s *AlarmService) Snooze(ctx context.Context) (models.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return models.Alarm{}, common.ErrNoActiveAlarm
	}
	label := models.DefaultLabel
	if i := s.indexOf(s.activeID); i >= 0 {
		label = s.alarms[i].Label
	}
	s.activeID = ""
	s.sendOff(ctx)

	at := s.now().Add(s.snooze)
	a := models.Alarm{
		ID:      s.newID(),
		Hour:    at.Hour(),
		Minute:  at.Minute(),
		Label:   label + snoozedSuffix,
		Days:    []int{},
		Enabled: true,
	}
	s.alarms = append(s.alarms, a)
	s.commit(ctx)
	s.log.Info(ctx, fmt.Sprintf("Snoozed until %s", a.Time()))
	return cloneAlarm(a), nil
}

// List returns the alarms in display order (by time of day). The stored
// order is not affected.
func (s *AlarmService) List() []models.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Alarm, len(s.alarms))
	for i, a := range s.alarms {
		out[i] = cloneAlarm(a)
	}
	slices.SortStableFunc(out, models.Compare)
	return out
}

// Active returns the presenting alarm, if any.
func (s *AlarmService) Active() (models.Alarm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return models.Alarm{}, false
	}
	if i := s.indexOf(s.activeID); i >= 0 {
		return cloneAlarm(s.alarms[i]), true
	}
	return models.Alarm{ID: s.activeID, Label: models.DefaultLabel}, true
}

// Payload returns the schedule payload for the current collection.
func (s *AlarmService) Payload() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return wire.Encode(s.alarms)
}

// Resync pushes the current schedule to the device again, e.g. after the
// broker connection comes back.
func (s *AlarmService) Resync(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sync(ctx)
}

// Tick is the scheduler entry point: it fires at most one alarm per minute.
func (s *AlarmService) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.engine.Evaluate(now, s.alarms, s.activeID != "")
	if !ok {
		return
	}
	s.activeID = a.ID
	s.log.Info(ctx, fmt.Sprintf("Alarm %q ringing (%s)", a.Label, a.Time()), "id", a.ID)
	if err := s.device.Send(ctx, device.CommandOn); err != nil {
		s.log.Debug(ctx, "alarm ON not delivered", "error", err)
	}
	s.notifier.Notify(ctx, cloneAlarm(a))
}

func (s *AlarmService) indexOf(id string) int {
	return slices.IndexFunc(s.alarms, func(a models.Alarm) bool { return a.ID == id })
}

// commit persists and syncs; s.mu must be held.
func (s *AlarmService) commit(ctx context.Context) {
	if err := s.store.Save(ctx, s.alarms); err != nil {
		s.log.Warn(ctx, "Could not save alarms; changes will be lost on exit", "error", err)
	}
	s.sync(ctx)
}

// sync pushes the schedule payload; s.mu must be held.
func (s *AlarmService) sync(ctx context.Context) {
	err := s.device.PushSchedule(ctx, wire.Encode(s.alarms))
	switch {
	case err == nil:
	case errors.Is(err, common.ErrNotConnected):
		s.log.Debug(ctx, "schedule not synced, broker offline")
	default:
		s.log.Debug(ctx, "schedule not synced", "error", err)
	}
}

func (s *AlarmService) sendOff(ctx context.Context) {
	if err := s.device.Send(ctx, device.CommandOff); err != nil {
		s.log.Debug(ctx, "alarm OFF not delivered", "error", err)
	}
}

func cloneAlarm(a models.Alarm) models.Alarm {
	a.Days = slices.Clone(a.Days)
	if a.Days == nil {
		a.Days = []int{}
	}
	return a
}
