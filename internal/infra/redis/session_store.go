package redis

import (
	"context"
	"sync"
	"time"

	"geo-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions own goroutines and timers, so they stay in a local map; Redis only
// carries a liveness marker per session so other replicas and operators can
// count players.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	logger   zerolog.Logger
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[string]*app.Session),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	s.sessions[session.ID()] = session
	s.mu.Unlock()

	// best-effort liveness marker
	if err := s.client.Set(context.Background(), s.key(session.ID()), "1", s.ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Str("session_id", session.ID()).Msg("mark session live")
	}
}

func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	if err := s.client.Del(context.Background(), s.key(id)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("session_id", id).Msg("clear session marker")
	}
}

// Touch extends the liveness marker of an active session.
func (s *SessionStore) Touch(ctx context.Context, id string) error {
	return s.client.Expire(ctx, s.key(id), s.ttl).Err()
}

func (s *SessionStore) key(id string) string {
	return "quiz:session:" + id
}
