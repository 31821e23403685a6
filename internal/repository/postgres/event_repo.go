package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventdesk/internal/domain"
)

const pqUniqueViolation = "23505"

// eventColumns is the column list shared by all event queries, in scan order.
const eventColumns = `id, name, slug, start_date, end_date, venue_name, address, description, capacity,
		status, visibility, registration_status, created_at, updated_at`

// eventCountColumns appends the derived attendee counts. The counts are
// computed per row with correlated subqueries and never persisted.
const eventCountColumns = eventColumns + `,
		(SELECT COUNT(*) FROM attendees a WHERE a.event_id = events.id AND a.status IN ('registered', 'checked_in')) AS registered_count,
		(SELECT COUNT(*) FROM attendees a WHERE a.event_id = events.id AND a.status = 'checked_in') AS checked_in_count`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// buildEventWhere turns filters into a WHERE clause with positional args.
// No filters set means no WHERE clause at all.
func buildEventWhere(filters domain.EventFilters) (string, []any) {
	var conditions []string
	var args []any
	n := 1
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name LIKE $%d", n))
		args = append(args, "%"+filters.Search+"%")
		n++
	}
	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", n))
		args = append(args, string(filters.Status))
		n++
	}
	if filters.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("start_date >= $%d", n))
		args = append(args, *filters.StartDate)
		n++
	}
	if filters.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("end_date <= $%d", n))
		args = append(args, *filters.EndDate)
		n++
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// orderClause maps the sort options onto a whitelisted column and direction.
func orderClause(sort domain.EventSort) string {
	col := "start_date"
	switch sort.Field {
	case domain.SortByName:
		col = "name"
	case domain.SortByStatus:
		col = "status"
	}
	dir := "DESC"
	if sort.Asc {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}

func (r *eventRepository) List(ctx context.Context, filters domain.EventFilters, sort domain.EventSort, offset, limit int) ([]*domain.EventWithCounts, error) {
	where, args := buildEventWhere(filters)
	query := "SELECT " + eventCountColumns + " FROM events" + where + orderClause(sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.EventWithCounts, 0)
	for rows.Next() {
		e := &domain.EventWithCounts{}
		if err := scanEventWithCounts(rows, e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context, filters domain.EventFilters) (int, error) {
	where, args := buildEventWhere(filters)
	query := "SELECT COUNT(*) FROM events" + where
	var count int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE id = $1"
	return r.getOne(ctx, query, id)
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := "SELECT " + eventColumns + " FROM events WHERE slug = $1"
	return r.getOne(ctx, query, slug)
}

func (r *eventRepository) getOne(ctx context.Context, query string, arg any) (*domain.Event, error) {
	e := &domain.Event{}
	err := scanEvent(r.DB.QueryRowContext(ctx, query, arg), e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, slug, start_date, end_date, venue_name, address, description, capacity,
			status, visibility, registration_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.Name, e.Slug, e.StartDate, e.EndDate, e.VenueName, e.Address, e.Description, e.Capacity,
		string(e.Status), string(e.Visibility), string(e.RegistrationStatus), e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *eventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	add := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if patch.VenueName != nil {
		add("venue_name", *patch.VenueName)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Capacity != nil {
		add("capacity", *patch.Capacity)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.Visibility != nil {
		add("visibility", string(*patch.Visibility))
	}
	if patch.RegistrationStatus != nil {
		add("registration_status", string(*patch.RegistrationStatus))
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING `+eventColumns, strings.Join(setClauses, ", "), n)
	e := &domain.Event{}
	err := scanEvent(r.DB.QueryRowContext(ctx, query, args...), e)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner, e *domain.Event) error {
	var venueName, address, description sql.NullString
	var capacity sql.NullInt64
	var status, visibility, registrationStatus string
	err := s.Scan(
		&e.ID, &e.Name, &e.Slug, &e.StartDate, &e.EndDate,
		&venueName, &address, &description, &capacity,
		&status, &visibility, &registrationStatus,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	applyEventNullables(e, venueName, address, description, capacity, status, visibility, registrationStatus)
	return nil
}

func scanEventWithCounts(s scanner, e *domain.EventWithCounts) error {
	var venueName, address, description sql.NullString
	var capacity sql.NullInt64
	var status, visibility, registrationStatus string
	err := s.Scan(
		&e.ID, &e.Name, &e.Slug, &e.StartDate, &e.EndDate,
		&venueName, &address, &description, &capacity,
		&status, &visibility, &registrationStatus,
		&e.CreatedAt, &e.UpdatedAt,
		&e.RegisteredCount, &e.CheckedInCount,
	)
	if err != nil {
		return err
	}
	applyEventNullables(&e.Event, venueName, address, description, capacity, status, visibility, registrationStatus)
	return nil
}

func applyEventNullables(e *domain.Event, venueName, address, description sql.NullString, capacity sql.NullInt64, status, visibility, registrationStatus string) {
	if venueName.Valid {
		e.VenueName = &venueName.String
	}
	if address.Valid {
		e.Address = &address.String
	}
	if description.Valid {
		e.Description = &description.String
	}
	if capacity.Valid {
		c := int(capacity.Int64)
		e.Capacity = &c
	}
	e.Status = domain.EventStatus(status)
	e.Visibility = domain.EventVisibility(visibility)
	e.RegistrationStatus = domain.RegistrationStatus(registrationStatus)
}
