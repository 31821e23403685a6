package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/domain"
	"eventdesk/internal/services"
)

type mockAuthService struct {
	user  *domain.User
	token string
	err   error
}

func (m *mockAuthService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.token, nil
}

func TestAuthController_SignUp(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &mockAuthService{user: &domain.User{ID: "user-1", Email: "organizer@example.com", Name: "Organizer"}}
		ctrl := NewAuthController(testControllerLogger(), svc)

		body := `{"email":"organizer@example.com","password":"s3cretpass","name":"Organizer"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
		w := httptest.NewRecorder()
		ctrl.SignUp(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}
		if strings.Contains(w.Body.String(), "password") {
			t.Fatalf("response must not expose password fields: %s", w.Body.String())
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		ctrl := NewAuthController(testControllerLogger(), &mockAuthService{err: domain.ErrDuplicateEmail})

		body := `{"email":"organizer@example.com","password":"s3cretpass","name":"Organizer"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
		w := httptest.NewRecorder()
		ctrl.SignUp(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
		}
	})

	t.Run("short password rejected before the service", func(t *testing.T) {
		ctrl := NewAuthController(testControllerLogger(), &mockAuthService{})

		body := `{"email":"organizer@example.com","password":"short","name":"Organizer"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
		w := httptest.NewRecorder()
		ctrl.SignUp(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})
}

func TestAuthController_Login(t *testing.T) {
	t.Run("returns token", func(t *testing.T) {
		ctrl := NewAuthController(testControllerLogger(), &mockAuthService{token: "jwt-token"})

		body := `{"email":"organizer@example.com","password":"s3cretpass"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()
		ctrl.Login(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}
		var resp struct {
			Data LoginResponse `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Data.Token != "jwt-token" {
			t.Fatalf("expected token %q, got %q", "jwt-token", resp.Data.Token)
		}
	})

	t.Run("bad credentials are unauthorized", func(t *testing.T) {
		ctrl := NewAuthController(testControllerLogger(), &mockAuthService{err: services.ErrInvalidCredentials})

		body := `{"email":"organizer@example.com","password":"wrong-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()
		ctrl.Login(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
		}
		var resp helpers.APIResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.Error == nil || resp.Error.Code != helpers.ErrCodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", resp.Error)
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		ctrl := NewAuthController(testControllerLogger(), &mockAuthService{})

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":""}`))
		w := httptest.NewRecorder()
		ctrl.Login(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})
}
