package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventdesk/internal/domain"
)

const testSessionID = "99999999-8888-7777-6666-555555555555"

type mockSessionService struct {
	session  *domain.Session
	sessions []*domain.Session
	err      error
}

func (m *mockSessionService) CreateSession(ctx context.Context, eventID string, input domain.CreateSessionInput) (*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockSessionService) GetSessionByID(ctx context.Context, id string) (*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockSessionService) ListSessions(ctx context.Context, eventID string) ([]*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sessions, nil
}

func (m *mockSessionService) UpdateSession(ctx context.Context, id string, patch domain.SessionPatch) (*domain.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockSessionService) DeleteSession(ctx context.Context, id string) error {
	return m.err
}

func sessionTimes() (string, string) {
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	return start.Format(time.RFC3339), start.Add(time.Hour).Format(time.RFC3339)
}

func TestSessionController_CreateSession(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &mockSessionService{session: &domain.Session{ID: testSessionID, EventID: testEventID, Title: "Opening Keynote"}}
		ctrl := NewSessionController(testControllerLogger(), svc)

		start, end := sessionTimes()
		body := `{"title":"Opening Keynote","start_time":"` + start + `","end_time":"` + end + `"}`
		req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/sessions", strings.NewReader(body))
		req.SetPathValue("eventID", testEventID)
		w := httptest.NewRecorder()
		ctrl.CreateSession(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}
	})

	t.Run("invalid times map to 422", func(t *testing.T) {
		ctrl := NewSessionController(testControllerLogger(), &mockSessionService{err: domain.ErrInvalidDates})

		start, end := sessionTimes()
		body := `{"title":"Opening Keynote","start_time":"` + end + `","end_time":"` + start + `"}`
		req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/sessions", strings.NewReader(body))
		req.SetPathValue("eventID", testEventID)
		w := httptest.NewRecorder()
		ctrl.CreateSession(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, w.Code)
		}
	})

	t.Run("non-RFC3339 time rejected before the service", func(t *testing.T) {
		ctrl := NewSessionController(testControllerLogger(), &mockSessionService{})

		body := `{"title":"Opening Keynote","start_time":"2026-10-01","end_time":"2026-10-01"}`
		req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/sessions", strings.NewReader(body))
		req.SetPathValue("eventID", testEventID)
		w := httptest.NewRecorder()
		ctrl.CreateSession(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		ctrl := NewSessionController(testControllerLogger(), &mockSessionService{err: domain.ErrNotFound})

		start, end := sessionTimes()
		body := `{"title":"Opening Keynote","start_time":"` + start + `","end_time":"` + end + `"}`
		req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/sessions", strings.NewReader(body))
		req.SetPathValue("eventID", testEventID)
		w := httptest.NewRecorder()
		ctrl.CreateSession(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})
}

func TestSessionController_ListSessions(t *testing.T) {
	svc := &mockSessionService{sessions: []*domain.Session{{ID: testSessionID, Title: "Opening Keynote"}}}
	ctrl := NewSessionController(testControllerLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID+"/sessions", nil)
	req.SetPathValue("eventID", testEventID)
	w := httptest.NewRecorder()
	ctrl.ListSessions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestSessionController_UpdateSession(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockSessionService{session: &domain.Session{ID: testSessionID, Title: "Closing Keynote"}}
		ctrl := NewSessionController(testControllerLogger(), svc)

		req := httptest.NewRequest(http.MethodPatch, "/sessions/"+testSessionID, strings.NewReader(`{"title":"Closing Keynote"}`))
		req.SetPathValue("sessionID", testSessionID)
		w := httptest.NewRecorder()
		ctrl.UpdateSession(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := NewSessionController(testControllerLogger(), &mockSessionService{err: domain.ErrNotFound})

		req := httptest.NewRequest(http.MethodPatch, "/sessions/"+testSessionID, strings.NewReader(`{"title":"Closing Keynote"}`))
		req.SetPathValue("sessionID", testSessionID)
		w := httptest.NewRecorder()
		ctrl.UpdateSession(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		ctrl := NewSessionController(testControllerLogger(), &mockSessionService{})

		req := httptest.NewRequest(http.MethodPatch, "/sessions/nope", strings.NewReader(`{}`))
		req.SetPathValue("sessionID", "nope")
		w := httptest.NewRecorder()
		ctrl.UpdateSession(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})
}

func TestSessionController_DeleteSession(t *testing.T) {
	ctrl := NewSessionController(testControllerLogger(), &mockSessionService{})

	req := httptest.NewRequest(http.MethodDelete, "/sessions/"+testSessionID, nil)
	req.SetPathValue("sessionID", testSessionID)
	w := httptest.NewRecorder()
	ctrl.DeleteSession(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
}
