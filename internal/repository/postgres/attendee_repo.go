package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"eventdesk/internal/domain"
)

const attendeeColumns = `id, event_id, name, email, ticket_type, status, notes, reference_number,
		checked_in_at, created_at, updated_at`

type attendeeRepository struct {
	DB *sql.DB
}

func NewAttendeeRepository(db *sql.DB) domain.AttendeeRepository {
	return &attendeeRepository{
		DB: db,
	}
}

func (r *attendeeRepository) Create(ctx context.Context, a *domain.Attendee) error {
	query := `
		INSERT INTO attendees (event_id, name, email, ticket_type, status, notes, reference_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.EventID, a.Name, a.Email, a.TicketType, string(a.Status), a.Notes, a.ReferenceNumber, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return domain.ErrDuplicateAttendee
		}
		return err
	}
	return nil
}

func (r *attendeeRepository) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	query := "SELECT " + attendeeColumns + " FROM attendees WHERE id = $1"
	a := &domain.Attendee{}
	err := scanAttendee(r.DB.QueryRowContext(ctx, query, id), a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// buildAttendeeWhere builds the WHERE clause for listings within one event.
// The event predicate is always present; search matches name or email.
func buildAttendeeWhere(eventID string, filters domain.AttendeeFilters) (string, []any) {
	conditions := []string{"event_id = $1"}
	args := []any{eventID}
	n := 2
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name LIKE $%d OR email LIKE $%d)", n, n))
		args = append(args, "%"+filters.Search+"%")
		n++
	}
	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", n))
		args = append(args, string(filters.Status))
		n++
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *attendeeRepository) ListByEventID(ctx context.Context, eventID string, filters domain.AttendeeFilters, offset, limit int) ([]*domain.Attendee, error) {
	where, args := buildAttendeeWhere(eventID, filters)
	query := "SELECT " + attendeeColumns + " FROM attendees" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendees := make([]*domain.Attendee, 0)
	for rows.Next() {
		a := &domain.Attendee{}
		if err := scanAttendee(rows, a); err != nil {
			return nil, err
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}

func (r *attendeeRepository) CountByEventID(ctx context.Context, eventID string, filters domain.AttendeeFilters) (int, error) {
	where, args := buildAttendeeWhere(eventID, filters)
	var count int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendees"+where, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *attendeeRepository) SetStatus(ctx context.Context, id string, status domain.AttendeeStatus, checkedInAt *time.Time) (*domain.Attendee, error) {
	query := `
		UPDATE attendees SET status = $1, checked_in_at = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + attendeeColumns
	a := &domain.Attendee{}
	err := scanAttendee(r.DB.QueryRowContext(ctx, query, string(status), checkedInAt, id), a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *attendeeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM attendees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAttendee(s scanner, a *domain.Attendee) error {
	var ticketType, notes sql.NullString
	var checkedInAt sql.NullTime
	var status string
	err := s.Scan(
		&a.ID, &a.EventID, &a.Name, &a.Email,
		&ticketType, &status, &notes, &a.ReferenceNumber,
		&checkedInAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if ticketType.Valid {
		a.TicketType = &ticketType.String
	}
	if notes.Valid {
		a.Notes = &notes.String
	}
	if checkedInAt.Valid {
		a.CheckedInAt = &checkedInAt.Time
	}
	a.Status = domain.AttendeeStatus(status)
	return nil
}
