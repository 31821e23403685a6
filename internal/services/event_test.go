package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"eventdesk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	counts    map[string][2]int // eventID -> {registered, checked in}
	nextID    int
	createErr error // if set, Create returns this once then clears
	listErr   error
	countErr  error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		counts: make(map[string][2]int),
		nextID: 1,
	}
}

func (f *fakeEventRepo) matches(e *domain.Event, filters domain.EventFilters) bool {
	if filters.Search != "" && !strings.Contains(e.Name, filters.Search) {
		return false
	}
	if filters.Status != "" && e.Status != filters.Status {
		return false
	}
	if filters.StartDate != nil && e.StartDate.Before(*filters.StartDate) {
		return false
	}
	if filters.EndDate != nil && e.EndDate.After(*filters.EndDate) {
		return false
	}
	return true
}

func (f *fakeEventRepo) List(ctx context.Context, filters domain.EventFilters, s domain.EventSort, offset, limit int) ([]*domain.EventWithCounts, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.EventWithCounts
	for _, e := range f.byID {
		if !f.matches(e, filters) {
			continue
		}
		c := f.counts[e.ID]
		out = append(out, &domain.EventWithCounts{Event: *e, RegisteredCount: c[0], CheckedInCount: c[1]})
	}
	sort.Slice(out, func(i, j int) bool {
		var less bool
		switch s.Field {
		case domain.SortByName:
			less = out[i].Name < out[j].Name
		case domain.SortByStatus:
			less = out[i].Status < out[j].Status
		default:
			less = out[i].StartDate.Before(out[j].StartDate)
		}
		if s.Asc {
			return less
		}
		return !less
	})
	if offset > len(out) {
		offset = len(out)
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (f *fakeEventRepo) Count(ctx context.Context, filters domain.EventFilters) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, e := range f.byID {
		if f.matches(e, filters) {
			n++
		}
	}
	return n, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	for _, e := range f.byID {
		if e.Slug == slug {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		err := f.createErr
		f.createErr = nil
		return err
	}
	for _, existing := range f.byID {
		if existing.Slug == e.Slug {
			return domain.ErrDuplicateSlug
		}
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.StartDate != nil {
		e.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		e.EndDate = *patch.EndDate
	}
	if patch.VenueName != nil {
		e.VenueName = patch.VenueName
	}
	if patch.Address != nil {
		e.Address = patch.Address
	}
	if patch.Description != nil {
		e.Description = patch.Description
	}
	if patch.Capacity != nil {
		e.Capacity = patch.Capacity
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
	if patch.Visibility != nil {
		e.Visibility = *patch.Visibility
	}
	if patch.RegistrationStatus != nil {
		e.RegistrationStatus = *patch.RegistrationStatus
	}
	e.UpdatedAt = time.Now()
	return e, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) seed(name, slug string, start, end time.Time) *domain.Event {
	e := domain.NewEvent(name, slug, start, end, time.Now())
	_ = f.Create(context.Background(), e)
	return e
}

func validInput(name string) domain.CreateEventInput {
	return domain.CreateEventInput{
		Name:      name,
		StartDate: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 3, 18, 0, 0, 0, time.UTC),
	}
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "TechConf", "techconf"},
		{"spaces become hyphens", "Launch Day", "launch-day"},
		{"punctuation collapses", "Go, Go & Go!", "go-go-go"},
		{"trims edge hyphens", "  --Hello World--  ", "hello-world"},
		{"digits kept", "PyCon 2026", "pycon-2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.in))
		})
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second

	t.Run("success with defaults", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, timeout)

		event, err := svc.CreateEvent(ctx, validInput("Tech Conference"))
		require.NoError(t, err)
		require.NotEmpty(t, event.ID)
		assert.Equal(t, "tech-conference", event.Slug)
		assert.Equal(t, domain.EventStatusDraft, event.Status)
		assert.Equal(t, domain.VisibilityPublic, event.Visibility)
		assert.Equal(t, domain.RegistrationClosed, event.RegistrationStatus)
		assert.False(t, event.CreatedAt.IsZero())
	})

	t.Run("slug collision appends suffix", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.seed("Tech Conference", "tech-conference",
			time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC))
		svc := NewEventService(repo, timeout)

		event, err := svc.CreateEvent(ctx, validInput("Tech Conference"))
		require.NoError(t, err)
		assert.Equal(t, "tech-conference-1", event.Slug)

		event, err = svc.CreateEvent(ctx, validInput("Tech Conference"))
		require.NoError(t, err)
		assert.Equal(t, "tech-conference-2", event.Slug)
	})

	t.Run("slug collision across differing names", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.seed("Launch Day", "launch-day",
			time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC))
		svc := NewEventService(repo, timeout)

		event, err := svc.CreateEvent(ctx, validInput("Launch Day!"))
		require.NoError(t, err)
		assert.Equal(t, "launch-day-1", event.Slug)
	})

	t.Run("retries when insert loses slug race", func(t *testing.T) {
		repo := newFakeEventRepo()
		// Simulate a concurrent creation winning the probed slug: the first
		// insert fails with a duplicate even though the probe saw it free.
		repo.createErr = domain.ErrDuplicateSlug
		svc := NewEventService(repo, timeout)

		event, err := svc.CreateEvent(ctx, validInput("Tech Conference"))
		require.NoError(t, err)
		assert.Equal(t, "tech-conference-1", event.Slug)
	})

	t.Run("end before start", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, timeout)

		input := validInput("Conf")
		input.EndDate = input.StartDate.Add(-time.Hour)
		_, err := svc.CreateEvent(ctx, input)
		require.ErrorIs(t, err, domain.ErrInvalidDates)
	})

	t.Run("end equal to start", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, timeout)

		input := validInput("Conf")
		input.EndDate = input.StartDate
		_, err := svc.CreateEvent(ctx, input)
		require.ErrorIs(t, err, domain.ErrInvalidDates)
	})

	t.Run("blank name", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, timeout)

		_, err := svc.CreateEvent(ctx, validInput("   "))
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("explicit enums kept", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, timeout)

		input := validInput("Conf")
		input.Status = domain.EventStatusPublished
		input.Visibility = domain.VisibilityPrivate
		input.RegistrationStatus = domain.RegistrationOpen
		event, err := svc.CreateEvent(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatusPublished, event.Status)
		assert.Equal(t, domain.VisibilityPrivate, event.Visibility)
		assert.Equal(t, domain.RegistrationOpen, event.RegistrationStatus)
	})
}

func TestEventService_GetEvents(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second

	seedN := func(repo *fakeEventRepo, n int) {
		for i := 0; i < n; i++ {
			start := time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)
			repo.seed(fmt.Sprintf("Event %02d", i), fmt.Sprintf("event-%02d", i), start, start.Add(24*time.Hour))
		}
	}

	t.Run("pagination math", func(t *testing.T) {
		repo := newFakeEventRepo()
		seedN(repo, 7)
		svc := NewEventService(repo, timeout)

		page, err := svc.GetEvents(ctx, domain.EventFilters{}, domain.EventSort{}, domain.PaginationParams{Page: 1, Limit: 3})
		require.NoError(t, err)
		assert.Len(t, page.Data, 3)
		assert.Equal(t, 7, page.Pagination.TotalItems)
		assert.Equal(t, 3, page.Pagination.TotalPages)
		assert.Equal(t, 1, page.Pagination.Page)

		page, err = svc.GetEvents(ctx, domain.EventFilters{}, domain.EventSort{}, domain.PaginationParams{Page: 3, Limit: 3})
		require.NoError(t, err)
		assert.Len(t, page.Data, 1)
	})

	t.Run("page past the end is empty not an error", func(t *testing.T) {
		repo := newFakeEventRepo()
		seedN(repo, 2)
		svc := NewEventService(repo, timeout)

		page, err := svc.GetEvents(ctx, domain.EventFilters{}, domain.EventSort{}, domain.PaginationParams{Page: 9, Limit: 10})
		require.NoError(t, err)
		require.NotNil(t, page.Data)
		assert.Len(t, page.Data, 0)
		assert.Equal(t, 2, page.Pagination.TotalItems)
	})

	t.Run("count reflects filters not page size", func(t *testing.T) {
		repo := newFakeEventRepo()
		seedN(repo, 5)
		published := repo.seed("Published One", "published-one",
			time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
		published.Status = domain.EventStatusPublished
		svc := NewEventService(repo, timeout)

		page, err := svc.GetEvents(ctx, domain.EventFilters{Status: domain.EventStatusPublished}, domain.EventSort{}, domain.PaginationParams{Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, page.Data, 1)
		assert.Equal(t, 1, page.Pagination.TotalItems)
		assert.Equal(t, 1, page.Pagination.TotalPages)
	})

	t.Run("sort by name ascending", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.seed("Bravo", "bravo", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC))
		repo.seed("Alpha", "alpha", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC))
		svc := NewEventService(repo, timeout)

		page, err := svc.GetEvents(ctx, domain.EventFilters{}, domain.EventSort{Field: domain.SortByName, Asc: true}, domain.PaginationParams{Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, page.Data, 2)
		assert.Equal(t, "Alpha", page.Data[0].Name)
		assert.Equal(t, "Bravo", page.Data[1].Name)
	})

	t.Run("list error propagates", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.listErr = errors.New("db down")
		svc := NewEventService(repo, timeout)

		_, err := svc.GetEvents(ctx, domain.EventFilters{}, domain.EventSort{}, domain.PaginationParams{Page: 1, Limit: 10})
		require.Error(t, err)
	})

	t.Run("count error propagates", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.countErr = errors.New("db down")
		svc := NewEventService(repo, timeout)

		_, err := svc.GetEvents(ctx, domain.EventFilters{}, domain.EventSort{}, domain.PaginationParams{Page: 1, Limit: 10})
		require.Error(t, err)
	})
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 3, 18, 0, 0, 0, time.UTC)

	t.Run("patch applies only supplied fields", func(t *testing.T) {
		repo := newFakeEventRepo()
		seeded := repo.seed("Conf", "conf", start, end)
		svc := NewEventService(repo, timeout)

		name := "Renamed Conf"
		venue := "Expo Hall"
		got, err := svc.UpdateEvent(ctx, seeded.ID, domain.EventPatch{Name: &name, VenueName: &venue})
		require.NoError(t, err)
		assert.Equal(t, "Renamed Conf", got.Name)
		require.NotNil(t, got.VenueName)
		assert.Equal(t, "Expo Hall", *got.VenueName)
		assert.Equal(t, "conf", got.Slug, "slug must not change on rename")
		assert.True(t, got.StartDate.Equal(start))
	})

	t.Run("new end date checked against stored start", func(t *testing.T) {
		repo := newFakeEventRepo()
		seeded := repo.seed("Conf", "conf", start, end)
		svc := NewEventService(repo, timeout)

		badEnd := start.Add(-time.Hour)
		_, err := svc.UpdateEvent(ctx, seeded.ID, domain.EventPatch{EndDate: &badEnd})
		require.ErrorIs(t, err, domain.ErrInvalidDates)
	})

	t.Run("new start date checked against stored end", func(t *testing.T) {
		repo := newFakeEventRepo()
		seeded := repo.seed("Conf", "conf", start, end)
		svc := NewEventService(repo, timeout)

		badStart := end.Add(time.Hour)
		_, err := svc.UpdateEvent(ctx, seeded.ID, domain.EventPatch{StartDate: &badStart})
		require.ErrorIs(t, err, domain.ErrInvalidDates)
	})

	t.Run("both dates supplied and valid", func(t *testing.T) {
		repo := newFakeEventRepo()
		seeded := repo.seed("Conf", "conf", start, end)
		svc := NewEventService(repo, timeout)

		newStart := end.Add(24 * time.Hour)
		newEnd := newStart.Add(48 * time.Hour)
		got, err := svc.UpdateEvent(ctx, seeded.ID, domain.EventPatch{StartDate: &newStart, EndDate: &newEnd})
		require.NoError(t, err)
		assert.True(t, got.StartDate.Equal(newStart))
		assert.True(t, got.EndDate.Equal(newEnd))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		repo := newFakeEventRepo()
		seeded := repo.seed("Conf", "conf", start, end)
		svc := NewEventService(repo, timeout)

		bogus := domain.EventStatus("wat")
		_, err := svc.UpdateEvent(ctx, seeded.ID, domain.EventPatch{Status: &bogus})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, timeout)

		name := "x"
		_, err := svc.UpdateEvent(ctx, "ev-missing", domain.EventPatch{Name: &name})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)

	t.Run("publish then archive", func(t *testing.T) {
		repo := newFakeEventRepo()
		seeded := repo.seed("Conf", "conf", start, end)
		svc := NewEventService(repo, timeout)

		got, err := svc.PublishEvent(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatusPublished, got.Status)

		got, err = svc.ArchiveEvent(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatusArchived, got.Status)
	})

	t.Run("archive from draft is allowed", func(t *testing.T) {
		repo := newFakeEventRepo()
		seeded := repo.seed("Conf", "conf", start, end)
		svc := NewEventService(repo, timeout)

		got, err := svc.ArchiveEvent(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatusArchived, got.Status)
	})

	t.Run("registration toggles independently of status", func(t *testing.T) {
		repo := newFakeEventRepo()
		seeded := repo.seed("Conf", "conf", start, end)
		svc := NewEventService(repo, timeout)

		got, err := svc.OpenRegistration(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RegistrationOpen, got.RegistrationStatus)
		assert.Equal(t, domain.EventStatusDraft, got.Status)

		got, err = svc.CloseRegistration(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RegistrationClosed, got.RegistrationStatus)
	})

	t.Run("not found", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, timeout)

		_, err := svc.PublishEvent(ctx, "ev-missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
		_, err = svc.OpenRegistration(ctx, "ev-missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventService_DeleteEvent(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second

	repo := newFakeEventRepo()
	seeded := repo.seed("Conf", "conf",
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC))
	svc := NewEventService(repo, timeout)

	require.NoError(t, svc.DeleteEvent(ctx, seeded.ID))
	_, err := repo.GetByID(ctx, seeded.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.ErrorIs(t, svc.DeleteEvent(ctx, seeded.ID), domain.ErrNotFound)
}

func TestEventService_GetEventBySlug(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second

	repo := newFakeEventRepo()
	repo.seed("Conf", "conf",
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC))
	svc := NewEventService(repo, timeout)

	got, err := svc.GetEventBySlug(ctx, "conf")
	require.NoError(t, err)
	assert.Equal(t, "Conf", got.Name)

	_, err = svc.GetEventBySlug(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
