package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventdesk/internal/delivery/http/controllers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Reads are public; mutating routes require a bearer token.
func NewRouter(
	eventController *controllers.EventController,
	attendeeController *controllers.AttendeeController,
	sessionController *controllers.SessionController,
	authController *controllers.AuthController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Events
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/slug/{slug}", eventController.GetEventBySlug)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("PATCH /events/{eventID}", auth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.DeleteEvent))
	mux.HandleFunc("POST /events/{eventID}/publish", auth(eventController.PublishEvent))
	mux.HandleFunc("POST /events/{eventID}/archive", auth(eventController.ArchiveEvent))
	mux.HandleFunc("POST /events/{eventID}/registration/open", auth(eventController.OpenRegistration))
	mux.HandleFunc("POST /events/{eventID}/registration/close", auth(eventController.CloseRegistration))

	// Attendees
	mux.HandleFunc("POST /events/{eventID}/attendees", attendeeController.RegisterAttendee)
	mux.HandleFunc("GET /events/{eventID}/attendees", auth(attendeeController.ListAttendees))
	mux.HandleFunc("GET /attendees/{attendeeID}", auth(attendeeController.GetAttendee))
	mux.HandleFunc("POST /attendees/{attendeeID}/checkin", auth(attendeeController.CheckInAttendee))
	mux.HandleFunc("POST /attendees/{attendeeID}/cancel", auth(attendeeController.CancelAttendee))
	mux.HandleFunc("DELETE /attendees/{attendeeID}", auth(attendeeController.DeleteAttendee))

	// Sessions
	mux.HandleFunc("POST /events/{eventID}/sessions", auth(sessionController.CreateSession))
	mux.HandleFunc("GET /events/{eventID}/sessions", sessionController.ListSessions)
	mux.HandleFunc("GET /sessions/{sessionID}", sessionController.GetSession)
	mux.HandleFunc("PATCH /sessions/{sessionID}", auth(sessionController.UpdateSession))
	mux.HandleFunc("DELETE /sessions/{sessionID}", auth(sessionController.DeleteSession))

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
