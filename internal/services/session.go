package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventdesk/internal/domain"
)

type sessionService struct {
	sessionRepo    domain.SessionRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewSessionService creates a SessionService backed by the given repositories.
func NewSessionService(sessionRepo domain.SessionRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, eventID string, input domain.CreateSessionInput) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.EndTime.After(input.StartTime) {
		return nil, domain.ErrInvalidDates
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	session := domain.NewSession(eventID, input.Title, input.StartTime, input.EndTime, time.Now())
	session.Speaker = input.Speaker
	session.Room = input.Room

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *sessionService) GetSessionByID(ctx context.Context, id string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.sessionRepo.GetByID(ctx, id)
}

func (s *sessionService) ListSessions(ctx context.Context, eventID string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	sessions, err := s.sessionRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return sessions, nil
}

func (s *sessionService) UpdateSession(ctx context.Context, id string, patch domain.SessionPatch) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if patch.StartTime != nil || patch.EndTime != nil {
		start := existing.StartTime
		if patch.StartTime != nil {
			start = *patch.StartTime
		}
		end := existing.EndTime
		if patch.EndTime != nil {
			end = *patch.EndTime
		}
		if !end.After(start) {
			return nil, domain.ErrInvalidDates
		}
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, domain.ErrInvalidInput
	}

	updated, err := s.sessionRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update session: %w", err)
	}
	return updated, nil
}

func (s *sessionService) DeleteSession(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
