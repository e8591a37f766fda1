package app

import (
	"sync"
	"testing"
	"time"

	"geo-quiz-service/internal/domain"
)

// manualTicks is a TickSource whose ticks are sent by the test.
type manualTicks struct {
	mu       sync.Mutex
	starts   int
	channels []chan time.Time
}

func newManualTicks() *manualTicks {
	return &manualTicks{}
}

func (m *manualTicks) source() (<-chan time.Time, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan time.Time)
	m.starts++
	m.channels = append(m.channels, ch)
	return ch, func() {}
}

func (m *manualTicks) startCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

func (m *manualTicks) latest() chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channels[len(m.channels)-1]
}

// tick delivers one tick to the most recent countdown and fails if nobody takes it.
func (m *manualTicks) tick(t *testing.T) {
	t.Helper()
	select {
	case m.latest() <- time.Now():
	case <-time.After(time.Second):
		t.Fatalf("tick was not consumed")
	}
}

// tryTick delivers a tick if a countdown is still listening.
func tryTick(ch chan time.Time) bool {
	select {
	case ch <- time.Now():
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

func TestClockTicksThenTimesOut(t *testing.T) {
	ticks := newManualTicks()
	clock := NewRoundClockWithTicks(ticks.source)
	seen := make(chan int, 8)

	done := clock.Start(2, func(remaining int) { seen <- remaining })
	if !clock.Running() {
		t.Fatalf("expected running clock")
	}

	ticks.tick(t)
	if got := <-seen; got != 2 {
		t.Fatalf("first tick should report 2 before decrementing, got %d", got)
	}
	ticks.tick(t)
	if got := <-seen; got != 1 {
		t.Fatalf("second tick should report 1, got %d", got)
	}
	ticks.tick(t)

	select {
	case token := <-done:
		if token != domain.TimeoutToken {
			t.Fatalf("expected timeout token, got %q", token)
		}
	case <-time.After(time.Second):
		t.Fatalf("clock did not time out")
	}
	if clock.Running() {
		t.Fatalf("clock should stop itself on timeout")
	}
}

func TestClockAdjustClampsAtZero(t *testing.T) {
	clock := NewRoundClockWithTicks(newManualTicks().source)
	clock.Reset(3)

	if got := clock.Adjust(4); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := clock.Adjust(-10); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if clock.Running() {
		t.Fatalf("adjust must not start the clock")
	}
}

func TestClockStartSupersedesPrevious(t *testing.T) {
	ticks := newManualTicks()
	clock := NewRoundClockWithTicks(ticks.source)

	first := make(chan int, 4)
	clock.Start(10, func(remaining int) { first <- remaining })
	oldTicks := ticks.latest()

	second := make(chan int, 4)
	clock.Start(5, func(remaining int) { second <- remaining })

	tryTick(oldTicks)
	ticks.tick(t)

	if got := <-second; got != 5 {
		t.Fatalf("expected new countdown to report 5, got %d", got)
	}
	select {
	case got := <-first:
		t.Fatalf("superseded countdown ticked with %d", got)
	case <-time.After(20 * time.Millisecond):
	}
	if clock.Remaining() != 4 {
		t.Fatalf("expected 4 remaining, got %d", clock.Remaining())
	}
}

func TestClockStopLeavesRemaining(t *testing.T) {
	ticks := newManualTicks()
	clock := NewRoundClockWithTicks(ticks.source)
	seen := make(chan int, 4)

	done := clock.Start(10, func(remaining int) { seen <- remaining })
	ticks.tick(t)
	<-seen

	clock.Stop()
	clock.Stop()
	if clock.Running() {
		t.Fatalf("expected stopped clock")
	}
	if clock.Remaining() != 9 {
		t.Fatalf("stop must keep remaining time, got %d", clock.Remaining())
	}

	tryTick(ticks.latest())
	select {
	case got := <-seen:
		t.Fatalf("tick after stop reported %d", got)
	case token := <-done:
		t.Fatalf("stopped clock resolved with %q", token)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestClockWithRealTicker(t *testing.T) {
	clock := NewRoundClock(5 * time.Millisecond)
	select {
	case token := <-clock.Start(1, nil):
		if token != domain.TimeoutToken {
			t.Fatalf("unexpected token %q", token)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("real ticker clock did not time out")
	}
}
