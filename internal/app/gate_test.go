package app

import (
	"errors"
	"testing"

	"geo-quiz-service/internal/domain"
)

func TestGateDeliversOnceAndClears(t *testing.T) {
	gate := NewAnswerGate()
	answers, err := gate.Await()
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if !gate.Pending() {
		t.Fatalf("expected pending waiter")
	}

	if !gate.Resolve("France") {
		t.Fatalf("expected first resolve to be delivered")
	}
	if gate.Resolve("Spain") {
		t.Fatalf("second resolve without a new waiter must be a no-op")
	}
	if got := <-answers; got != "France" {
		t.Fatalf("expected France, got %q", got)
	}
	select {
	case extra := <-answers:
		t.Fatalf("unexpected second delivery %q", extra)
	default:
	}
	if gate.Pending() {
		t.Fatalf("gate should be idle after resolve")
	}
}

func TestGateResolveWhenIdle(t *testing.T) {
	if NewAnswerGate().Resolve("x") {
		t.Fatalf("resolve on idle gate must report false")
	}
}

func TestGateRejectsSecondWaiter(t *testing.T) {
	gate := NewAnswerGate()
	first, err := gate.Await()
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if _, err := gate.Await(); !errors.Is(err, domain.ErrGateBusy) {
		t.Fatalf("expected ErrGateBusy, got %v", err)
	}

	gate.Resolve("Peru")
	if got := <-first; got != "Peru" {
		t.Fatalf("first waiter must keep the slot, got %q", got)
	}
	if _, err := gate.Await(); err != nil {
		t.Fatalf("gate should accept a new waiter after resolve: %v", err)
	}
}
