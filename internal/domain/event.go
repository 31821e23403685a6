package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle status of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusClosed    EventStatus = "closed"
	EventStatusArchived  EventStatus = "archived"
)

// Valid reports whether s is one of the known lifecycle statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusClosed, EventStatusArchived:
		return true
	}
	return false
}

// EventVisibility controls whether an event is publicly listed.
type EventVisibility string

const (
	VisibilityPublic  EventVisibility = "public"
	VisibilityPrivate EventVisibility = "private"
)

// Valid reports whether v is a known visibility.
func (v EventVisibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// RegistrationStatus controls whether new attendees may register,
// independently of the event's own lifecycle status.
type RegistrationStatus string

const (
	RegistrationOpen   RegistrationStatus = "open"
	RegistrationClosed RegistrationStatus = "closed"
)

// Valid reports whether r is a known registration status.
func (r RegistrationStatus) Valid() bool {
	return r == RegistrationOpen || r == RegistrationClosed
}

// Event represents a schedulable event (conference, meetup) attendees register for.
// swagger:model Event
type Event struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Slug               string             `json:"slug"`
	StartDate          time.Time          `json:"start_date"`
	EndDate            time.Time          `json:"end_date"`
	VenueName          *string            `json:"venue_name"`
	Address            *string            `json:"address"`
	Description        *string            `json:"description"`
	Capacity           *int               `json:"capacity"`
	Status             EventStatus        `json:"status"`
	Visibility         EventVisibility    `json:"visibility"`
	RegistrationStatus RegistrationStatus `json:"registration_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// EventWithCounts is an Event annotated with attendee counts derived at query
// time. The counts are never persisted.
// swagger:model EventWithCounts
type EventWithCounts struct {
	Event
	RegisteredCount int `json:"registered_count"`
	CheckedInCount  int `json:"checked_in_count"`
}

// EventFilters narrows event list and count queries. Zero values mean
// "no filter". Search is a case-sensitive substring match on the name.
type EventFilters struct {
	Search    string
	Status    EventStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// EventSortField selects the column event listings are ordered by.
type EventSortField string

const (
	SortByDate   EventSortField = "date"
	SortByName   EventSortField = "name"
	SortByStatus EventSortField = "status"
)

// EventSort holds ordering options for event listings.
// The default is start date descending.
type EventSort struct {
	Field EventSortField
	Asc   bool
}

// EventPatch is a partial update for an event. Nil fields are unchanged.
// Slug is deliberately absent: it is derived from the name at creation and
// never user-supplied.
type EventPatch struct {
	Name               *string
	StartDate          *time.Time
	EndDate            *time.Time
	VenueName          *string
	Address            *string
	Description        *string
	Capacity           *int
	Status             *EventStatus
	Visibility         *EventVisibility
	RegistrationStatus *RegistrationStatus
}

// NewEvent returns an Event with the given required fields and defaults
// applied (draft, public, registration closed). ID is set by the repository
// on create.
func NewEvent(name, slug string, start, end time.Time, createdAt time.Time) *Event {
	return &Event{
		Name:               name,
		Slug:               slug,
		StartDate:          start,
		EndDate:            end,
		Status:             EventStatusDraft,
		Visibility:         VisibilityPublic,
		RegistrationStatus: RegistrationClosed,
		CreatedAt:          createdAt,
		UpdatedAt:          createdAt,
	}
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	// List returns one page of events matching filters, ordered per sort,
	// each annotated with derived attendee counts.
	List(ctx context.Context, filters EventFilters, sort EventSort, offset, limit int) ([]*EventWithCounts, error)
	// Count returns the total number of events matching filters, unpaginated.
	Count(ctx context.Context, filters EventFilters) (int, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	// Create inserts the event. A slug collision surfaces as ErrDuplicateSlug.
	Create(ctx context.Context, event *Event) error
	// Update applies the non-nil fields of patch and refreshes updated_at.
	Update(ctx context.Context, id string, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventPage is a page of events plus pagination metadata.
type EventPage struct {
	Data       []*EventWithCounts `json:"data"`
	Pagination PaginationMeta     `json:"pagination"`
}

// EventService defines the business operations on events.
type EventService interface {
	GetEvents(ctx context.Context, filters EventFilters, sort EventSort, params PaginationParams) (*EventPage, error)
	GetEventByID(ctx context.Context, id string) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	CreateEvent(ctx context.Context, input CreateEventInput) (*Event, error)
	UpdateEvent(ctx context.Context, id string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
	PublishEvent(ctx context.Context, id string) (*Event, error)
	ArchiveEvent(ctx context.Context, id string) (*Event, error)
	OpenRegistration(ctx context.Context, id string) (*Event, error)
	CloseRegistration(ctx context.Context, id string) (*Event, error)
}

// CreateEventInput carries the caller-supplied fields for event creation.
// Optional enum fields default to draft/public/closed when empty.
type CreateEventInput struct {
	Name               string
	StartDate          time.Time
	EndDate            time.Time
	VenueName          *string
	Address            *string
	Description        *string
	Capacity           *int
	Status             EventStatus
	Visibility         EventVisibility
	RegistrationStatus RegistrationStatus
}
