// Package cache holds the short-lived working copy of active interview
// sessions, including follow-up context that is never written durably.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alfredoptarigan/interview-simulator/internal/models"
)

var ErrCacheMiss = errors.New("session not in cache")

// Entry is the cached payload for one session.
type Entry struct {
	State               *models.SessionState `json:"state"`
	AwaitingFollowUp    bool                 `json:"awaiting_follow_up"`
	PendingMainQuestion string               `json:"pending_main_question,omitempty"`
	PendingMainAnswer   string               `json:"pending_main_answer,omitempty"`
}

// NewEntry packs state and optional pending follow-up context.
func NewEntry(state *models.SessionState, pending *models.PendingFollowUp) *Entry {
	e := &Entry{State: state}
	if pending != nil {
		e.AwaitingFollowUp = true
		e.PendingMainQuestion = pending.Question
		e.PendingMainAnswer = pending.Answer
	}
	return e
}

// Pending returns the follow-up context, or nil when none is outstanding.
func (e *Entry) Pending() *models.PendingFollowUp {
	if !e.AwaitingFollowUp {
		return nil
	}
	return &models.PendingFollowUp{Question: e.PendingMainQuestion, Answer: e.PendingMainAnswer}
}

type SessionCache interface {
	Get(ctx context.Context, sessionID string) (*Entry, error)
	Set(ctx context.Context, sessionID string, entry *Entry, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

// Key is the storage key of a session.
func Key(sessionID string) string {
	return fmt.Sprintf("interview:%s", sessionID)
}

// Nop never stores anything; every Get is a miss.
type Nop struct{}

func (Nop) Get(context.Context, string) (*Entry, error)              { return nil, ErrCacheMiss }
func (Nop) Set(context.Context, string, *Entry, time.Duration) error { return nil }
func (Nop) Delete(context.Context, string) error                     { return nil }
func (Nop) Close() error                                             { return nil }
