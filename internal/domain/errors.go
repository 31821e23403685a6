package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers map
// these to HTTP status codes; everything else surfaces as a generic 500.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDates is returned when an event or session would end at or
	// before its start.
	ErrInvalidDates = errors.New("end date must be after start date")

	// ErrDuplicateSlug is returned by the event repository when an insert hits
	// the slug unique constraint. The service retries with the next suffix.
	ErrDuplicateSlug = errors.New("slug already in use")

	// ErrDuplicateAttendee is returned when an email is already registered for
	// the same event.
	ErrDuplicateAttendee = errors.New("attendee already registered for this event")
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)
