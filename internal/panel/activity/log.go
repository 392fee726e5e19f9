// Package activity keeps the short, user-visible activity feed of the panel
// (newest first) while forwarding every entry to the diagnostic logger.
package activity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/audiopanel/internal/logging"
)

// DefaultCapacity is the number of entries kept before the oldest drop off.
const DefaultCapacity = 50

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarn    Level = "warn"
	LevelError   Level = "error"
)

type Entry struct {
	At      time.Time
	Level   Level
	Message string
}

func (e Entry) String() string {
	return fmt.Sprintf("%s  %-7s %s", e.At.Format("15:04:05"), e.Level, e.Message)
}

// Feed is the bounded entry buffer shared by a Logger and its children.
type Feed struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	now      func() time.Time
}

func newFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{capacity: capacity, now: time.Now}
}

func (f *Feed) add(level Level, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, Entry{At: f.now(), Level: level, Message: msg})
	if over := len(f.entries) - f.capacity; over > 0 {
		f.entries = f.entries[over:]
	}
}

// Logger implements logging.Logger. Debug entries go to the diagnostic
// logger only; everything else also lands in the feed.
type Logger struct {
	feed  *Feed
	next  logging.Logger
	attrs []any
}

var _ logging.Logger = (*Logger)(nil)

// NewLogger returns a Logger keeping up to capacity entries.
func NewLogger(next logging.Logger, capacity int) *Logger {
	if next == nil {
		next = logging.Nop()
	}
	return &Logger{feed: newFeed(capacity), next: next}
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.next.Debug(ctx, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.feed.add(LevelInfo, l.render(msg, args))
	l.next.Info(ctx, msg, args...)
}

// Success records a positive outcome; the diagnostic logger sees it as info.
func (l *Logger) Success(ctx context.Context, msg string, args ...any) {
	l.feed.add(LevelSuccess, l.render(msg, args))
	l.next.Info(ctx, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.feed.add(LevelWarn, l.render(msg, args))
	l.next.Warn(ctx, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.feed.add(LevelError, l.render(msg, args))
	l.next.Error(ctx, msg, args...)
}

func (l *Logger) With(args ...any) logging.Logger {
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, args...)
	return &Logger{feed: l.feed, next: l.next.With(args...), attrs: attrs}
}

// Entries returns a copy of the feed, newest first.
func (l *Logger) Entries() []Entry {
	l.feed.mu.Lock()
	defer l.feed.mu.Unlock()
	out := make([]Entry, len(l.feed.entries))
	for i, e := range l.feed.entries {
		out[len(out)-1-i] = e
	}
	return out
}

// Clear empties the feed and records that it was cleared.
func (l *Logger) Clear(ctx context.Context) {
	l.feed.mu.Lock()
	l.feed.entries = nil
	l.feed.mu.Unlock()
	l.Info(ctx, "Log cleared")
}

// render appends key=value pairs to msg so the feed line is self-contained.
func (l *Logger) render(msg string, args []any) string {
	all := append(append([]any{}, l.attrs...), args...)
	if len(all) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(all); i += 2 {
		b.WriteByte(' ')
		if i+1 < len(all) {
			fmt.Fprintf(&b, "%v=%v", all[i], all[i+1])
		} else {
			fmt.Fprintf(&b, "%v", all[i])
		}
	}
	return b.String()
}
