package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"eventdesk/internal/domain"
)

const (
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceLength   = 8
)

type attendeeService struct {
	attendeeRepo   domain.AttendeeRepository
	eventRepo      domain.EventRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewAttendeeService creates an AttendeeService. emailService may be a noop
// implementation; registration never fails because of email delivery.
func NewAttendeeService(
	attendeeRepo domain.AttendeeRepository,
	eventRepo domain.EventRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AttendeeService {
	return &attendeeService{
		attendeeRepo:   attendeeRepo,
		eventRepo:      eventRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// generateReferenceNumber returns a short random uppercase code handed to the
// attendee for on-site lookup.
func generateReferenceNumber() (string, error) {
	buf := make([]byte, referenceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reference number: %w", err)
	}
	for i := range buf {
		buf[i] = referenceAlphabet[int(buf[i])%len(referenceAlphabet)]
	}
	return string(buf), nil
}

func (s *attendeeService) Register(ctx context.Context, eventID string, input domain.RegisterAttendeeInput) (*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	ref, err := generateReferenceNumber()
	if err != nil {
		return nil, err
	}

	attendee := domain.NewAttendee(eventID, input.Name, email, ref, time.Now())
	attendee.TicketType = input.TicketType
	attendee.Notes = input.Notes

	if err := s.attendeeRepo.Create(ctx, attendee); err != nil {
		if errors.Is(err, domain.ErrDuplicateAttendee) {
			return nil, domain.ErrDuplicateAttendee
		}
		return nil, fmt.Errorf("create attendee: %w", err)
	}

	// Confirmation email is best effort: the registration is already
	// committed, so a delivery failure is logged and swallowed.
	if err := s.emailService.SendRegistrationConfirmation(ctx, &domain.RegistrationConfirmationEmailData{
		Email:           attendee.Email,
		AttendeeName:    attendee.Name,
		EventName:       event.Name,
		ReferenceNumber: attendee.ReferenceNumber,
	}); err != nil {
		s.logger.Error("failed to send registration confirmation",
			"attendee_id", attendee.ID, "error", err)
	}

	return attendee, nil
}

func (s *attendeeService) GetAttendeeByID(ctx context.Context, id string) (*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.attendeeRepo.GetByID(ctx, id)
}

func (s *attendeeService) ListAttendees(ctx context.Context, eventID string, filters domain.AttendeeFilters, params domain.PaginationParams) (*domain.AttendeePage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	attendees, err := s.attendeeRepo.ListByEventID(ctx, eventID, filters, params.Offset(), params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	total, err := s.attendeeRepo.CountByEventID(ctx, eventID, filters)
	if err != nil {
		return nil, fmt.Errorf("count attendees: %w", err)
	}

	if attendees == nil {
		attendees = []*domain.Attendee{}
	}
	return &domain.AttendeePage{
		Data:       attendees,
		Pagination: domain.NewPaginationMeta(params.Page, params.Limit, total),
	}, nil
}

func (s *attendeeService) CheckIn(ctx context.Context, id string) (*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := time.Now()
	attendee, err := s.attendeeRepo.SetStatus(ctx, id, domain.AttendeeCheckedIn, &now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("check in attendee: %w", err)
	}
	return attendee, nil
}

func (s *attendeeService) Cancel(ctx context.Context, id string) (*domain.Attendee, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	attendee, err := s.attendeeRepo.SetStatus(ctx, id, domain.AttendeeCanceled, nil)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("cancel attendee: %w", err)
	}
	return attendee, nil
}

func (s *attendeeService) DeleteAttendee(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.attendeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete attendee: %w", err)
	}
	return nil
}
