package app

import (
	"sync"

	"geo-quiz-service/internal/domain"
)

// AnswerGate is a single-slot rendezvous between the quiz loop, which waits
// for an answer, and the click collaborator, which supplies it.
type AnswerGate struct {
	mu   sync.Mutex
	slot chan string
}

func NewAnswerGate() *AnswerGate {
	return &AnswerGate{}
}

// Await registers a single-use waiter and returns the channel its answer is
// delivered on. Only one waiter may be outstanding; registering a second one
// returns domain.ErrGateBusy and leaves the first in place.
func (g *AnswerGate) Await() (<-chan string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.slot != nil {
		return nil, domain.ErrGateBusy
	}
	slot := make(chan string, 1)
	g.slot = slot
	return slot, nil
}

// Resolve hands value to the outstanding waiter and clears the slot. It
// reports false, and does nothing, when no waiter is registered.
func (g *AnswerGate) Resolve(value string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.slot == nil {
		return false
	}
	g.slot <- value
	g.slot = nil
	return true
}

// Pending reports whether a waiter is outstanding.
func (g *AnswerGate) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.slot != nil
}
