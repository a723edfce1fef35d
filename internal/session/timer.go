// Package session tracks elapsed time for the current work session.
package session

import (
	"fmt"
	"time"
)

// DefaultInterval is the tick interval used when none is configured.
const DefaultInterval = time.Second

// Timer counts fixed-size ticks. It is not safe for concurrent use; the UI
// drives it from its single update loop.
type Timer struct {
	interval time.Duration
	elapsed  time.Duration
}

// NewTimer returns a timer at zero that advances by interval on every tick.
// Non-positive intervals fall back to DefaultInterval.
func NewTimer(interval time.Duration) *Timer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Timer{interval: interval}
}

// Interval returns the tick interval.
func (t *Timer) Interval() time.Duration {
	return t.interval
}

// Tick advances the timer by one interval.
func (t *Timer) Tick() {
	t.elapsed += t.interval
}

// Reset sets the elapsed time back to zero.
func (t *Timer) Reset() {
	t.elapsed = 0
}

// Elapsed returns the accumulated time.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// String formats the elapsed time as HH:MM:SS.
func (t *Timer) String() string {
	return Format(t.elapsed)
}

// Format renders d as HH:MM:SS, truncating sub-second precision. Hours are
// not capped at 99.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
