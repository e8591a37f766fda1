package app

import (
	"context"
	"strings"
	"time"

	"geo-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionRepository abstracts how live quiz sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// CountryLookup resolves clicked country codes to the names answers are compared against.
type CountryLookup interface {
	CanonicalName(code string) (string, bool)
}

// Locator maps a point on the map to the country code containing it.
type Locator interface {
	Locate(lat, lng float64) (string, bool)
}

// QuizService wires map clicks and round control to per-player sessions.
type QuizService struct {
	sessions  SessionRepository
	questions QuestionSource
	countries CountryLookup
	locator   Locator
	rules     Rules
	newClock  func() *RoundClock
	newID     func() string
	logger    zerolog.Logger
}

// ServiceOption configures a QuizService.
type ServiceOption func(*QuizService)

func WithServiceRules(rules Rules) ServiceOption {
	return func(s *QuizService) { s.rules = rules }
}

// WithTickPeriod sets the countdown granularity of new sessions.
func WithTickPeriod(period time.Duration) ServiceOption {
	return func(s *QuizService) {
		s.newClock = func() *RoundClock { return NewRoundClock(period) }
	}
}

// WithClockFactory overrides how session clocks are built.
func WithClockFactory(newClock func() *RoundClock) ServiceOption {
	return func(s *QuizService) { s.newClock = newClock }
}

func WithLocator(locator Locator) ServiceOption {
	return func(s *QuizService) { s.locator = locator }
}

func WithServiceLogger(logger zerolog.Logger) ServiceOption {
	return func(s *QuizService) { s.logger = logger }
}

func NewQuizService(store SessionRepository, questions QuestionSource, countries CountryLookup, opts ...ServiceOption) *QuizService {
	s := &QuizService{
		sessions:  store,
		questions: questions,
		countries: countries,
		rules:     DefaultRules(),
		newClock:  func() *RoundClock { return NewRoundClock(time.Second) },
		newID:     uuid.NewString,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a session for a new player and subscribes to its updates.
// The caller must invoke the returned cancel function and Close the session.
func (s *QuizService) Open(_ context.Context) (string, <-chan domain.Event, func()) {
	feed := NewEventFeed()
	events, cancel := feed.Subscribe()
	session := NewSession(s.newID(), s.questions, feed,
		WithRules(s.rules),
		WithClock(s.newClock()),
		WithLogger(s.logger),
	)
	s.sessions.Put(session)
	return session.ID(), events, cancel
}

// Start begins a round; starting a running session reports false.
func (s *QuizService) Start(_ context.Context, id string) (bool, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	return session.Start(), nil
}

// Stop ends the running round; stopping an idle session reports false.
func (s *QuizService) Stop(_ context.Context, id string) (bool, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	return session.Stop(), nil
}

// Click answers with a clicked country's canonical name. An empty name is a
// click that hit no country, and so is a name spelling a reserved token: a
// client can never settle a question as a timeout.
func (s *QuizService) Click(_ context.Context, id, name string) (bool, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	return session.Click(clickAnswer(name)), nil
}

func clickAnswer(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, domain.TimeoutToken) || strings.EqualFold(name, domain.MissToken) {
		return domain.MissToken
	}
	return name
}

// ClickCode answers with the country identified by code.
func (s *QuizService) ClickCode(ctx context.Context, id, code string) (bool, error) {
	name, ok := s.countries.CanonicalName(code)
	if !ok {
		name = ""
	}
	return s.Click(ctx, id, name)
}

// ClickAt answers with the country under the given point, if any.
func (s *QuizService) ClickAt(ctx context.Context, id string, lat, lng float64) (bool, error) {
	if s.locator == nil {
		return s.Click(ctx, id, "")
	}
	code, ok := s.locator.Locate(lat, lng)
	if !ok {
		return s.Click(ctx, id, "")
	}
	return s.ClickCode(ctx, id, code)
}

// Status returns the session's score and time.
func (s *QuizService) Status(_ context.Context, id string) (domain.RoundStatus, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return domain.RoundStatus{}, domain.ErrSessionNotFound
	}
	return session.Status(), nil
}

// Close stops any running round and forgets the session.
func (s *QuizService) Close(_ context.Context, id string) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return
	}
	session.Stop()
	s.sessions.Delete(id)
}
