package domain

import (
	"context"
	"time"
)

// Session represents a scheduled sub-item (talk, track slot) belonging to one event.
// swagger:model Session
type Session struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	Title     string     `json:"title"`
	Speaker   *string    `json:"speaker"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Room      *string    `json:"room"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewSession returns a Session with the given fields. ID is set by the
// repository on create.
func NewSession(eventID, title string, start, end time.Time, createdAt time.Time) *Session {
	return &Session{
		EventID:   eventID,
		Title:     title,
		StartTime: start,
		EndTime:   end,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// SessionPatch is a partial update for a session. Nil fields are unchanged.
type SessionPatch struct {
	Title     *string
	Speaker   *string
	StartTime *time.Time
	EndTime   *time.Time
	Room      *string
}

// SessionRepository defines the interface for session storage.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Session, error)
	// Update applies the non-nil fields of patch and refreshes updated_at.
	Update(ctx context.Context, id string, patch SessionPatch) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// CreateSessionInput carries caller-supplied fields for session creation.
type CreateSessionInput struct {
	Title     string
	Speaker   *string
	StartTime time.Time
	EndTime   time.Time
	Room      *string
}

// SessionService defines the business operations on sessions.
type SessionService interface {
	CreateSession(ctx context.Context, eventID string, input CreateSessionInput) (*Session, error)
	GetSessionByID(ctx context.Context, id string) (*Session, error)
	ListSessions(ctx context.Context, eventID string) ([]*Session, error)
	UpdateSession(ctx context.Context, id string, patch SessionPatch) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
}
