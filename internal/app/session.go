package app

import (
	"sync"
	"time"

	"geo-quiz-service/internal/domain"
	"github.com/rs/zerolog"
)

// Rules are the timing and scoring constants of a quiz round.
type Rules struct {
	RoundSeconds   int
	BonusSeconds   int
	PenaltySeconds int
	Reward         int
}

// DefaultRules is a 60 second round, +4s/+300 for a correct answer and -4s
// for a wrong one.
func DefaultRules() Rules {
	return Rules{RoundSeconds: 60, BonusSeconds: 4, PenaltySeconds: 4, Reward: 300}
}

// QuestionSource produces the next question of a round.
type QuestionSource interface {
	Generate() domain.QAPair
}

// Session runs timed quiz rounds for one player. A round races each question
// against the round clock; answers arrive through the session's AnswerGate.
type Session struct {
	id        string
	rules     Rules
	questions QuestionSource
	presenter Presenter
	clock     *RoundClock
	gate      *AnswerGate
	logger    zerolog.Logger

	// emit orders state transitions with the presenter calls reporting them.
	// It is taken before mu and never from inside a presenter call.
	emit sync.Mutex

	mu       sync.Mutex
	running  bool
	round    uint64
	score    int
	expected string
	question string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

func WithRules(rules Rules) SessionOption {
	return func(s *Session) { s.rules = rules }
}

// WithClock injects the round clock, typically one driven by test ticks.
func WithClock(clock *RoundClock) SessionOption {
	return func(s *Session) { s.clock = clock }
}

func WithLogger(logger zerolog.Logger) SessionOption {
	return func(s *Session) { s.logger = logger }
}

func NewSession(id string, questions QuestionSource, presenter Presenter, opts ...SessionOption) *Session {
	s := &Session{
		id:        id,
		rules:     DefaultRules(),
		questions: questions,
		presenter: presenter,
		gate:      NewAnswerGate(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.presenter == nil {
		s.presenter = NopPresenter{}
	}
	if s.clock == nil {
		s.clock = NewRoundClock(time.Second)
	}
	s.clock.Reset(s.rules.RoundSeconds)
	return s
}

func (s *Session) ID() string { return s.id }

// Start begins a new round and reports whether it did. Starting a running
// session is a no-op: there is never more than one loop or countdown.
func (s *Session) Start() bool {
	s.emit.Lock()
	defer s.emit.Unlock()
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false
	}
	s.running = true
	s.round++
	round := s.round
	s.score = 0
	timeout := s.clock.Start(s.rules.RoundSeconds, func(remaining int) {
		s.onTick(round, remaining)
	})
	s.mu.Unlock()

	s.logger.Info().Str("session", s.id).Uint64("round", round).Msg("quiz round started")
	s.present(func(p Presenter) { p.ShowScore(0) })
	go s.loop(round, timeout)
	return true
}

// Stop ends the running round and reports whether there was one. The
// countdown is cancelled, an outstanding answer wait is released with
// domain.TimeoutToken, the final score is shown, and score and time are reset
// for the next Start. Repeated or concurrent calls are no-ops.
func (s *Session) Stop() bool {
	s.emit.Lock()
	defer s.emit.Unlock()
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return false
	}
	s.endLocked()
	return true
}

// Click delivers an answer from the map collaborator. It is ignored unless a
// round is running and a question is waiting for an answer.
func (s *Session) Click(answer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return false
	}
	return s.gate.Resolve(answer)
}

// Status is a snapshot of score, time and the current question.
func (s *Session) Status() domain.RoundStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.RoundStatus{
		SessionID: s.id,
		Running:   s.running,
		Score:     s.score,
		Remaining: s.clock.Remaining(),
		Question:  s.question,
	}
}

func (s *Session) loop(round uint64, timeout <-chan string) {
	for {
		select {
		case <-timeout:
			s.emit.Lock()
			s.stopRound(round)
			s.emit.Unlock()
			return
		default:
		}

		answers, ok := s.nextQuestion(round)
		if !ok {
			return
		}

		var result string
		select {
		case result = <-answers:
		case result = <-timeout:
		}
		if !s.settle(round, result) {
			return
		}
	}
}

// nextQuestion generates and shows a question and registers the answer wait
// for it.
func (s *Session) nextQuestion(round uint64) (<-chan string, bool) {
	s.emit.Lock()
	defer s.emit.Unlock()
	s.mu.Lock()
	if !s.activeLocked(round) {
		s.mu.Unlock()
		return nil, false
	}
	if s.clock.Remaining() <= 0 {
		s.endLocked()
		return nil, false
	}

	qa := s.generate()
	answers, err := s.gate.Await()
	if err != nil {
		s.logger.Error().Err(err).Str("session", s.id).Msg("answer wait already outstanding, ending round")
		s.endLocked()
		return nil, false
	}
	s.expected = qa.Answer
	s.question = qa.Question
	s.mu.Unlock()

	s.present(func(p Presenter) { p.ShowQuestion(qa.Question) })
	return answers, true
}

// settle applies the outcome of one race against the expected answer of the
// current question and reports whether the loop goes on.
func (s *Session) settle(round uint64, result string) bool {
	s.emit.Lock()
	defer s.emit.Unlock()
	s.mu.Lock()
	if !s.activeLocked(round) {
		s.mu.Unlock()
		return false
	}

	switch {
	case result == s.expected:
		s.score += s.rules.Reward
		s.clock.Adjust(s.rules.BonusSeconds)
		score := s.score
		s.mu.Unlock()
		s.present(func(p Presenter) { p.ShowOutcomeFeedback(true) })
		s.present(func(p Presenter) { p.ShowScore(score) })
		return true

	case result == domain.TimeoutToken:
		s.endLocked()
		return false

	default:
		remaining := s.clock.Adjust(-s.rules.PenaltySeconds)
		s.mu.Unlock()
		s.present(func(p Presenter) { p.ShowOutcomeFeedback(false) })
		if remaining == 0 {
			s.stopRound(round)
			return false
		}
		return true
	}
}

func (s *Session) onTick(round uint64, remaining int) {
	s.emit.Lock()
	defer s.emit.Unlock()
	s.mu.Lock()
	if !s.activeLocked(round) {
		s.mu.Unlock()
		return
	}
	score := s.score
	s.mu.Unlock()

	s.present(func(p Presenter) { p.ShowRemainingTime(remaining) })
	s.present(func(p Presenter) { p.ShowScore(score) })
}

// stopRound ends the round only if it is still the one identified by round,
// so a superseded loop can never end a newer round. s.emit must be held.
func (s *Session) stopRound(round uint64) {
	s.mu.Lock()
	if !s.activeLocked(round) {
		s.mu.Unlock()
		return
	}
	s.endLocked()
}

// endLocked must be called with s.emit and s.mu held; it releases s.mu.
func (s *Session) endLocked() {
	final := s.score
	round := s.round
	s.running = false
	s.clock.Stop()
	s.clock.Reset(s.rules.RoundSeconds)
	s.score = 0
	s.expected = ""
	s.question = ""
	s.gate.Resolve(domain.TimeoutToken)
	s.mu.Unlock()

	s.logger.Info().Str("session", s.id).Uint64("round", round).Int("score", final).Msg("quiz round ended")
	s.present(func(p Presenter) { p.ShowRemainingTime(s.rules.RoundSeconds) })
	s.present(func(p Presenter) { p.ShowRoundEnded(final) })
}

func (s *Session) activeLocked(round uint64) bool {
	return s.running && s.round == round
}

func (s *Session) generate() (qa domain.QAPair) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("session", s.id).Interface("panic", r).Msg("question generation failed")
			qa = domain.QAPair{Answer: domain.Unknown}
		}
	}()
	return s.questions.Generate()
}

// present calls into the presenter, logging instead of propagating panics.
func (s *Session) present(fn func(Presenter)) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("session", s.id).Interface("panic", r).Msg("presenter callback failed")
		}
	}()
	fn(s.presenter)
}
