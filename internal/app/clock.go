package app

import (
	"sync"
	"time"

	"geo-quiz-service/internal/domain"
)

// TickSource starts a periodic tick stream and returns it with its stop func.
type TickSource func() (<-chan time.Time, func())

// EveryPeriod is the TickSource backed by a time.Ticker.
func EveryPeriod(period time.Duration) TickSource {
	return func() (<-chan time.Time, func()) {
		ticker := time.NewTicker(period)
		return ticker.C, ticker.Stop
	}
}

// RoundClock is a countdown with one-tick granularity whose remaining time
// can be adjusted while it runs.
type RoundClock struct {
	ticks TickSource

	mu        sync.Mutex
	remaining int
	cancel    chan struct{}
}

// NewRoundClock returns a clock ticking once per period.
func NewRoundClock(period time.Duration) *RoundClock {
	if period <= 0 {
		period = time.Second
	}
	return NewRoundClockWithTicks(EveryPeriod(period))
}

// NewRoundClockWithTicks returns a clock driven by an arbitrary tick source.
func NewRoundClockWithTicks(ticks TickSource) *RoundClock {
	return &RoundClock{ticks: ticks}
}

// Start begins a countdown from initial seconds, superseding any countdown
// already running on this clock. Each tick calls onTick with the remaining
// seconds before decrementing them. Once a tick finds nothing left, the clock
// stops itself and the returned channel receives domain.TimeoutToken.
func (c *RoundClock) Start(initial int, onTick func(remaining int)) <-chan string {
	done := make(chan string, 1)
	cancel := make(chan struct{})

	c.mu.Lock()
	c.stopLocked()
	c.remaining = max(initial, 0)
	c.cancel = cancel
	c.mu.Unlock()

	ticks, stopTicks := c.ticks()
	go c.run(cancel, ticks, stopTicks, onTick, done)
	return done
}

func (c *RoundClock) run(cancel chan struct{}, ticks <-chan time.Time, stopTicks func(), onTick func(int), done chan<- string) {
	defer stopTicks()
	for {
		select {
		case <-cancel:
			return
		case <-ticks:
		}

		c.mu.Lock()
		if c.cancel != cancel {
			c.mu.Unlock()
			return
		}
		if c.remaining <= 0 {
			c.cancel = nil
			c.mu.Unlock()
			done <- domain.TimeoutToken
			return
		}
		remaining := c.remaining
		c.remaining--
		c.mu.Unlock()

		if onTick != nil {
			onTick(remaining)
		}
	}
}

// Adjust adds delta to the remaining seconds, never going below zero. It does
// not start or stop the clock.
func (c *RoundClock) Adjust(delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = max(c.remaining+delta, 0)
	return c.remaining
}

// Reset sets the remaining seconds without touching the running state.
func (c *RoundClock) Reset(seconds int) {
	c.mu.Lock()
	c.remaining = max(seconds, 0)
	c.mu.Unlock()
}

// Stop cancels the running countdown, if any. Remaining time is left as is.
func (c *RoundClock) Stop() {
	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()
}

func (c *RoundClock) stopLocked() {
	if c.cancel != nil {
		close(c.cancel)
		c.cancel = nil
	}
}

// Remaining returns the seconds left.
func (c *RoundClock) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Running reports whether a countdown is active.
func (c *RoundClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}
