package interview

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"alfredoptarigan/interview-simulator/internal/cache"
	"alfredoptarigan/interview-simulator/internal/logger"
	"alfredoptarigan/interview-simulator/internal/models"
	"alfredoptarigan/interview-simulator/internal/repositories"
)

// SessionStore reads sessions cache-first and falls back to rebuilding them
// from the database. Cache failures are logged and treated as misses.
type SessionStore struct {
	repo         repositories.SessionRepository
	cache        cache.SessionCache
	ttl          time.Duration
	maxQuestions int
	loads        singleflight.Group
	log          *zap.Logger
}

func NewSessionStore(repo repositories.SessionRepository, c cache.SessionCache, ttl time.Duration, maxQuestions int, log *zap.Logger) *SessionStore {
	if c == nil {
		c = cache.Nop{}
	}
	return &SessionStore{repo: repo, cache: c, ttl: ttl, maxQuestions: maxQuestions, log: log}
}

// Load returns the session with any pending follow-up context. The returned
// entry is owned by the caller.
func (s *SessionStore) Load(ctx context.Context, id string) (*cache.Entry, error) {
	entry, err := s.cache.Get(ctx, id)
	if err == nil && entry.State != nil {
		return entry, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("Session cache read failed", zap.String("session_id", id), logger.ErrorKind(err))
	}

	v, err, _ := s.loads.Do(id, func() (interface{}, error) {
		return s.rebuild(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	// Concurrent callers share the rebuilt entry.
	shared := v.(*cache.Entry)
	return &cache.Entry{State: shared.State.Clone()}, nil
}

func (s *SessionStore) rebuild(ctx context.Context, id string) (*cache.Entry, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	entry := cache.NewEntry(row.State(s.maxQuestions), nil)
	if !entry.State.Status.IsTerminal() {
		s.Save(ctx, entry.State, nil)
	}

	s.log.Debug("Session rebuilt from database", zap.String("session_id", id), zap.Int("turns", len(entry.State.Turns)))
	return entry, nil
}

// Save refreshes the cached copy of an active session and drops it once the
// session is terminal.
func (s *SessionStore) Save(ctx context.Context, st *models.SessionState, pending *models.PendingFollowUp) {
	if st.Status.IsTerminal() {
		s.Invalidate(ctx, st.ID)
		return
	}
	if err := s.cache.Set(ctx, st.ID, cache.NewEntry(st, pending), s.ttl); err != nil {
		s.log.Warn("Session cache write failed", zap.String("session_id", st.ID), logger.ErrorKind(err))
	}
}

func (s *SessionStore) Invalidate(ctx context.Context, ids ...string) {
	for _, id := range ids {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.Warn("Session cache delete failed", zap.String("session_id", id), logger.ErrorKind(err))
		}
	}
}
