package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventdesk/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var sessionRowColumns = []string{
	"id", "event_id", "title", "speaker", "start_time", "end_time", "room", "created_at", "updated_at",
}

func TestSessionRepository_Create(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	speaker := "Grace Hopper"
	mock.ExpectQuery(`INSERT INTO sessions`).
		WithArgs("ev-1", "Opening Keynote", speaker, start, start.Add(time.Hour), nil, start, start).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("sess-uuid-1"))

	repo := NewSessionRepository(db)
	s := &domain.Session{
		EventID:   "ev-1",
		Title:     "Opening Keynote",
		Speaker:   &speaker,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		CreatedAt: start,
		UpdatedAt: start,
	}
	require.NoError(t, repo.Create(ctx, s))
	require.Equal(t, "sess-uuid-1", s.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM sessions WHERE id = \$1`).
			WithArgs("sess-1").
			WillReturnRows(sqlmock.NewRows(sessionRowColumns).
				AddRow("sess-1", "ev-1", "Opening Keynote", "Grace Hopper", start, start.Add(time.Hour), "Main Hall", start, start))

		repo := NewSessionRepository(db)
		got, err := repo.GetByID(ctx, "sess-1")
		require.NoError(t, err)
		require.Equal(t, "Opening Keynote", got.Title)
		require.NotNil(t, got.Speaker)
		require.Equal(t, "Grace Hopper", *got.Speaker)
		require.NotNil(t, got.Room)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM sessions WHERE id = \$1`).
			WithArgs("sess-missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewSessionRepository(db)
		got, err := repo.GetByID(ctx, "sess-missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.Nil(t, got)
	})
}

func TestSessionRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(sessionRowColumns).
		AddRow("sess-1", "ev-1", "Opening Keynote", nil, start, start.Add(time.Hour), nil, start, start).
		AddRow("sess-2", "ev-1", "Workshop", nil, start.Add(2*time.Hour), start.Add(4*time.Hour), nil, start, start)
	mock.ExpectQuery(`SELECT (.+) FROM sessions WHERE event_id = \$1 ORDER BY start_time ASC`).
		WithArgs("ev-1").
		WillReturnRows(rows)

	repo := NewSessionRepository(db)
	got, err := repo.ListByEventID(ctx, "ev-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Nil(t, got[0].Speaker)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Update(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	t.Run("patched fields only", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		title := "Closing Keynote"
		room := "Hall B"
		mock.ExpectQuery(`UPDATE sessions SET updated_at = NOW\(\), title = \$1, room = \$2\s+WHERE id = \$3`).
			WithArgs("Closing Keynote", "Hall B", "sess-1").
			WillReturnRows(sqlmock.NewRows(sessionRowColumns).
				AddRow("sess-1", "ev-1", "Closing Keynote", nil, start, start.Add(time.Hour), "Hall B", start, start))

		repo := NewSessionRepository(db)
		got, err := repo.Update(ctx, "sess-1", domain.SessionPatch{Title: &title, Room: &room})
		require.NoError(t, err)
		require.Equal(t, "Closing Keynote", got.Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		title := "Closing Keynote"
		mock.ExpectQuery(`UPDATE sessions SET`).
			WillReturnError(sql.ErrNoRows)

		repo := NewSessionRepository(db)
		got, err := repo.Update(ctx, "sess-missing", domain.SessionPatch{Title: &title})
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.Nil(t, got)
	})
}

func TestSessionRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM sessions WHERE id = \$1`).
			WithArgs("sess-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewSessionRepository(db)
		require.NoError(t, repo.Delete(ctx, "sess-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM sessions WHERE id = \$1`).
			WithArgs("sess-missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewSessionRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "sess-missing"), domain.ErrNotFound)
	})
}
