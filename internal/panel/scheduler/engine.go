// Package scheduler decides when alarms fire.
//
// The engine is polled once per tick (one second by default) but evaluates
// each local wall-clock minute only once: on the first tick it observes
// inside that minute. A late or skipped tick therefore cannot lose a
// minute, and further ticks in the same minute cannot fire again. While an
// alarm is presenting, the minute is consumed without firing anything.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/audiopanel/internal/panel/models"
)

// DefaultInterval is the polling period.
const DefaultInterval = time.Second

// Handler receives every tick of a running Engine.
type Handler interface {
	Tick(ctx context.Context, now time.Time)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, now time.Time)

func (f HandlerFunc) Tick(ctx context.Context, now time.Time) { f(ctx, now) }

type Engine struct {
	// Now supplies local wall-clock time. Defaults to time.Now.
	Now func() time.Time

	interval time.Duration

	mu         sync.Mutex
	lastMinute time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func NewEngine(interval time.Duration) *Engine {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Engine{
		Now:      time.Now,
		interval: interval,
		cancel:   func() {},
	}
}

// Evaluate returns the alarm that fires at now, if any. The first enabled
// alarm in collection order whose time and day match wins; other matches in
// the same minute are skipped. Nothing fires while presenting is true.
func (e *Engine) Evaluate(now time.Time, alarms []models.Alarm, presenting bool) (models.Alarm, bool) {
	minute := truncateMinute(now)

	e.mu.Lock()
	if minute.Equal(e.lastMinute) {
		e.mu.Unlock()
		return models.Alarm{}, false
	}
	e.lastMinute = minute
	e.mu.Unlock()

	if presenting {
		return models.Alarm{}, false
	}
	for _, a := range alarms {
		if a.Enabled && a.Matches(now) {
			return a, true
		}
	}
	return models.Alarm{}, false
}

// truncateMinute drops seconds in now's own location, so the minute key
// follows the wall clock even for zones with odd UTC offsets.
func truncateMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

// Run starts ticking h in a new goroutine until ctx is done or Interrupt
// is called.
func (e *Engine) Run(ctx context.Context, h Handler) error {
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.done = make(chan struct{})
	go e.run(ctx, h)
	return nil
}

// Interrupt stops a running engine and waits for its goroutine to exit.
func (e *Engine) Interrupt() error {
	e.cancel()
	if e.done != nil {
		<-e.done
	}
	return nil
}

func (e *Engine) run(ctx context.Context, h Handler) {
	defer close(e.done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Tick(ctx, e.Now())
		}
	}
}
