package domain

import (
	"context"
	"time"
)

// AttendeeStatus is the registration state of an attendee.
type AttendeeStatus string

const (
	AttendeeRegistered AttendeeStatus = "registered"
	AttendeeCheckedIn  AttendeeStatus = "checked_in"
	AttendeeCanceled   AttendeeStatus = "canceled"
)

// Valid reports whether s is a known attendee status.
func (s AttendeeStatus) Valid() bool {
	switch s {
	case AttendeeRegistered, AttendeeCheckedIn, AttendeeCanceled:
		return true
	}
	return false
}

// Attendee represents a registrant for one event, uniquely identified within
// that event by email.
// swagger:model Attendee
type Attendee struct {
	ID              string         `json:"id"`
	EventID         string         `json:"event_id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	TicketType      *string        `json:"ticket_type"`
	Status          AttendeeStatus `json:"status"`
	Notes           *string        `json:"notes"`
	ReferenceNumber string         `json:"reference_number"`
	CheckedInAt     *time.Time     `json:"checked_in_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// NewAttendee returns an Attendee in the registered state. ID is set by the
// repository on create.
func NewAttendee(eventID, name, email, referenceNumber string, createdAt time.Time) *Attendee {
	return &Attendee{
		EventID:         eventID,
		Name:            name,
		Email:           email,
		Status:          AttendeeRegistered,
		ReferenceNumber: referenceNumber,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

// AttendeeFilters narrows attendee listings within one event.
// Search matches name or email substrings.
type AttendeeFilters struct {
	Search string
	Status AttendeeStatus
}

// AttendeeRepository defines the interface for attendee storage.
type AttendeeRepository interface {
	// Create inserts the attendee. A (event, email) collision surfaces as
	// ErrDuplicateAttendee.
	Create(ctx context.Context, attendee *Attendee) error
	GetByID(ctx context.Context, id string) (*Attendee, error)
	ListByEventID(ctx context.Context, eventID string, filters AttendeeFilters, offset, limit int) ([]*Attendee, error)
	CountByEventID(ctx context.Context, eventID string, filters AttendeeFilters) (int, error)
	// SetStatus updates the attendee's status; checkedInAt is written as-is
	// (nil clears it).
	SetStatus(ctx context.Context, id string, status AttendeeStatus, checkedInAt *time.Time) (*Attendee, error)
	Delete(ctx context.Context, id string) error
}

// RegisterAttendeeInput carries caller-supplied fields for registration.
type RegisterAttendeeInput struct {
	Name       string
	Email      string
	TicketType *string
	Notes      *string
}

// AttendeePage is a page of attendees plus pagination metadata.
type AttendeePage struct {
	Data       []*Attendee    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// AttendeeService defines the business operations on attendees.
type AttendeeService interface {
	// Register creates a registration for the event. The same email may
	// register for an event at most once (ErrDuplicateAttendee).
	Register(ctx context.Context, eventID string, input RegisterAttendeeInput) (*Attendee, error)
	GetAttendeeByID(ctx context.Context, id string) (*Attendee, error)
	ListAttendees(ctx context.Context, eventID string, filters AttendeeFilters, params PaginationParams) (*AttendeePage, error)
	CheckIn(ctx context.Context, id string) (*Attendee, error)
	Cancel(ctx context.Context, id string) (*Attendee, error)
	DeleteAttendee(ctx context.Context, id string) error
}
