package domain

import (
	"context"
	"time"
)

// HistoryStore persists session records. Implementations wrap store failures
// in *PersistenceError.
type HistoryStore interface {
	// Append stores the record exactly once.
	Append(ctx context.Context, record *SessionRecord) error

	// Read returns the (user, skill) history ascending by timestamp. No
	// records is an empty slice, not an error.
	Read(ctx context.Context, userID, skill string) ([]*SessionRecord, error)

	// ListByUser returns every record of the user across skills, newest
	// first.
	ListByUser(ctx context.Context, userID string) ([]*SessionRecord, error)
}

// ActiveSession is a learner's in-flight assessment: the generated quiz plus
// the answers recorded so far.
type ActiveSession struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Skill      string     `json:"skill"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []Question `json:"questions"`
	Answers    []*Answer  `json:"answers"`
	StartedAt  time.Time  `json:"started_at"`
}

// Quiz returns the session's quiz.
func (s *ActiveSession) Quiz() *Quiz {
	return &Quiz{Skill: s.Skill, Difficulty: s.Difficulty, Questions: s.Questions}
}

// SessionStore keeps at most one active session per user.
type SessionStore interface {
	// Save replaces any session the user already has.
	Save(ctx context.Context, session *ActiveSession) error
	// Load returns a *DomainError with ErrSessionNotFound when there is none.
	Load(ctx context.Context, userID string) (*ActiveSession, error)
	Delete(ctx context.Context, userID string) error
}
