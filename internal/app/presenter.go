package app

import (
	"sync"

	"geo-quiz-service/internal/domain"
)

// Presenter is the display capability a session drives. Calls are
// fire-and-forget; a session never depends on what a presenter does.
type Presenter interface {
	ShowQuestion(text string)
	ShowRemainingTime(seconds int)
	ShowScore(points int)
	ShowRoundEnded(finalScore int)
	ShowOutcomeFeedback(correct bool)
}

// NopPresenter discards every update.
type NopPresenter struct{}

func (NopPresenter) ShowQuestion(string)      {}
func (NopPresenter) ShowRemainingTime(int)    {}
func (NopPresenter) ShowScore(int)            {}
func (NopPresenter) ShowRoundEnded(int)       {}
func (NopPresenter) ShowOutcomeFeedback(bool) {}

// EventFeed is a Presenter that fans session updates out to subscribers as
// domain.Event values.
type EventFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.Event]struct{}
}

func NewEventFeed() *EventFeed {
	return &EventFeed{subscribers: make(map[chan domain.Event]struct{})}
}

// Subscribe returns a channel of updates. The caller must invoke the returned
// cancel function to avoid leaks.
func (f *EventFeed) Subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, 32)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *EventFeed) ShowQuestion(text string) {
	f.publish(domain.Event{Type: domain.EventQuestion, Question: text})
}

func (f *EventFeed) ShowRemainingTime(seconds int) {
	f.publish(domain.Event{Type: domain.EventTime, Seconds: seconds})
}

func (f *EventFeed) ShowScore(points int) {
	f.publish(domain.Event{Type: domain.EventScore, Score: points})
}

func (f *EventFeed) ShowRoundEnded(finalScore int) {
	f.publish(domain.Event{Type: domain.EventRoundEnded, Score: finalScore})
}

func (f *EventFeed) ShowOutcomeFeedback(correct bool) {
	f.publish(domain.Event{Type: domain.EventFeedback, Correct: correct})
}

func (f *EventFeed) publish(ev domain.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		select {
		case ch <- ev:
		default:
			// Slow subscriber: drop the oldest update to make room.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
