package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"eventdesk/internal/domain"
)

// slugMaxAttempts bounds the insert retry loop when concurrent creations race
// for the same slug.
const slugMaxAttempts = 10

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService backed by the given repository.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) GetEvents(ctx context.Context, filters domain.EventFilters, sort domain.EventSort, params domain.PaginationParams) (*domain.EventPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// The list page and the total count are independent queries; run them
	// concurrently and join before assembling the page.
	var (
		events []*domain.EventWithCounts
		total  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.eventRepo.List(gctx, filters, sort, params.Offset(), params.Limit)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.eventRepo.Count(gctx, filters)
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if events == nil {
		events = []*domain.EventWithCounts{}
	}
	return &domain.EventPage{
		Data:       events,
		Pagination: domain.NewPaginationMeta(params.Page, params.Limit, total),
	}, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.GetBySlug(ctx, slug)
}

// GenerateSlug derives a URL-safe slug from an event name: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens trimmed.
func GenerateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *eventService) CreateEvent(ctx context.Context, input domain.CreateEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, domain.ErrInvalidDates
	}

	event := domain.NewEvent(input.Name, "", input.StartDate, input.EndDate, time.Now())
	event.VenueName = input.VenueName
	event.Address = input.Address
	event.Description = input.Description
	event.Capacity = input.Capacity
	if input.Status.Valid() {
		event.Status = input.Status
	}
	if input.Visibility.Valid() {
		event.Visibility = input.Visibility
	}
	if input.RegistrationStatus.Valid() {
		event.RegistrationStatus = input.RegistrationStatus
	}

	base := GenerateSlug(input.Name)
	if base == "" {
		return nil, domain.ErrInvalidInput
	}

	// Probe for a free slug, then insert. The unique constraint on slug is
	// the arbiter: if a concurrent creation wins the same candidate between
	// the probe and the insert, the insert fails with ErrDuplicateSlug and we
	// retry with the next suffix.
	counter := s.nextSuffix(ctx, base)
	for attempt := 0; attempt < slugMaxAttempts; attempt++ {
		if counter == 0 {
			event.Slug = base
		} else {
			event.Slug = fmt.Sprintf("%s-%d", base, counter)
		}
		err := s.eventRepo.Create(ctx, event)
		if err == nil {
			return event, nil
		}
		if errors.Is(err, domain.ErrDuplicateSlug) {
			counter++
			continue
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return nil, fmt.Errorf("create event: could not find a free slug for %q", base)
}

// nextSuffix walks the existing slugs (base, base-1, base-2, ...) and returns
// the first unused suffix (0 means the bare base slug is free).
func (s *eventService) nextSuffix(ctx context.Context, base string) int {
	counter := 0
	candidate := base
	for {
		if _, err := s.eventRepo.GetBySlug(ctx, candidate); err != nil {
			return counter
		}
		counter++
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// Re-validate date ordering whenever either bound changes, falling back
	// to the stored counterpart for the untouched side.
	if patch.StartDate != nil || patch.EndDate != nil {
		start := existing.StartDate
		if patch.StartDate != nil {
			start = *patch.StartDate
		}
		end := existing.EndDate
		if patch.EndDate != nil {
			end = *patch.EndDate
		}
		if !end.After(start) {
			return nil, domain.ErrInvalidDates
		}
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if patch.Visibility != nil && !patch.Visibility.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if patch.RegistrationStatus != nil && !patch.RegistrationStatus.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if patch.Capacity != nil && *patch.Capacity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	updated, err := s.eventRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// The four lifecycle transitions each set exactly one enum field,
// unconditionally: any transition is callable from any state.

func (s *eventService) PublishEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.setStatus(ctx, id, domain.EventStatusPublished)
}

func (s *eventService) ArchiveEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.setStatus(ctx, id, domain.EventStatusArchived)
}

func (s *eventService) setStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	updated, err := s.eventRepo.Update(ctx, id, domain.EventPatch{Status: &status})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set event status: %w", err)
	}
	return updated, nil
}

func (s *eventService) OpenRegistration(ctx context.Context, id string) (*domain.Event, error) {
	return s.setRegistration(ctx, id, domain.RegistrationOpen)
}

func (s *eventService) CloseRegistration(ctx context.Context, id string) (*domain.Event, error) {
	return s.setRegistration(ctx, id, domain.RegistrationClosed)
}

func (s *eventService) setRegistration(ctx context.Context, id string, status domain.RegistrationStatus) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	updated, err := s.eventRepo.Update(ctx, id, domain.EventPatch{RegistrationStatus: &status})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set registration status: %w", err)
	}
	return updated, nil
}
