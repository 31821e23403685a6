package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// parseDateParam accepts RFC3339 timestamps and bare dates (2006-01-02).
func parseDateParam(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *EventController) writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, helpers.InternalErrorMessage)
}

// ListEventsResponse is the data payload for GET /events (200).
type ListEventsResponse struct {
	Items      []*domain.EventWithCounts `json:"items"`
	Pagination domain.PaginationMeta     `json:"pagination"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListEvents godoc
// @Summary List events
// @Description Returns a page of events with derived attendee counts. Supports filtering by name substring, status, and date range; sortable by date, name, or status.
// @Tags events
// @Produce json
// @Param search query string false "Substring match on event name"
// @Param status query string false "Filter by status" Enums(draft, published, closed, archived)
// @Param start_date query string false "Events starting on or after (RFC3339 or YYYY-MM-DD)"
// @Param end_date query string false "Events ending on or before (RFC3339 or YYYY-MM-DD)"
// @Param sort_by query string false "Sort field" Enums(date, name, status) default(date)
// @Param sort_order query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(25)
// @Success 200 {object} controllers.ListEventsSuccessResponse "data plus pagination metadata"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := domain.EventFilters{Search: strings.TrimSpace(q.Get("search"))}
	if s := q.Get("status"); s != "" {
		status := domain.EventStatus(s)
		if !status.Valid() {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status")
			return
		}
		filters.Status = status
	}
	if s := q.Get("start_date"); s != "" {
		t, ok := parseDateParam(s)
		if !ok {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid start_date")
			return
		}
		filters.StartDate = &t
	}
	if s := q.Get("end_date"); s != "" {
		t, ok := parseDateParam(s)
		if !ok {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid end_date")
			return
		}
		filters.EndDate = &t
	}

	sort := domain.EventSort{Field: domain.SortByDate}
	switch q.Get("sort_by") {
	case "", "date":
	case "name":
		sort.Field = domain.SortByName
	case "status":
		sort.Field = domain.SortByStatus
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid sort_by")
		return
	}
	switch q.Get("sort_order") {
	case "", "desc":
	case "asc":
		sort.Asc = true
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid sort_order")
		return
	}

	page, err := c.Service.GetEvents(r.Context(), filters, sort, helpers.ParsePagination(r))
	if err != nil {
		c.writeInternalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{
		Items:      page.Data,
		Pagination: page.Pagination,
	})
}

// GetEventSuccessResponse is the success response envelope for single-event endpoints.
type GetEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	event, err := c.Service.GetEventByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.writeInternalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// GetEventBySlug godoc
// @Summary Get an event by slug
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.GetEventSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/slug/{slug} [get]
func (c *EventController) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}

	event, err := c.Service.GetEventBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.writeInternalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name               string  `json:"name"`
	StartDate          string  `json:"start_date"`
	EndDate            string  `json:"end_date"`
	VenueName          *string `json:"venue_name"`
	Address            *string `json:"address"`
	Description        *string `json:"description"`
	Capacity           *int    `json:"capacity"`
	Status             string  `json:"status"`
	Visibility         string  `json:"visibility"`
	RegistrationStatus string  `json:"registration_status"`

	startDate time.Time
	endDate   time.Time
}

// Validate implements helpers.Validator.
func (req *CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name is required")
	}
	if req.StartDate == "" {
		errs = append(errs, "start_date is required")
	} else if t, ok := parseDateParam(req.StartDate); ok {
		req.startDate = t
	} else {
		errs = append(errs, "start_date must be RFC3339 or YYYY-MM-DD")
	}
	if req.EndDate == "" {
		errs = append(errs, "end_date is required")
	} else if t, ok := parseDateParam(req.EndDate); ok {
		req.endDate = t
	} else {
		errs = append(errs, "end_date must be RFC3339 or YYYY-MM-DD")
	}
	if req.Status != "" && !domain.EventStatus(req.Status).Valid() {
		errs = append(errs, "status must be one of draft, published, closed, archived")
	}
	if req.Visibility != "" && !domain.EventVisibility(req.Visibility).Valid() {
		errs = append(errs, "visibility must be public or private")
	}
	if req.RegistrationStatus != "" && !domain.RegistrationStatus(req.RegistrationStatus).Valid() {
		errs = append(errs, "registration_status must be open or closed")
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		errs = append(errs, "capacity must be positive")
	}
	return errs
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event in draft status. The slug is derived from the name; collisions get a numeric suffix.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CreateEventRequest true "Event fields"
// @Success 201 {object} controllers.GetEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_error (end date not after start date)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, err := c.Service.CreateEvent(r.Context(), domain.CreateEventInput{
		Name:               req.Name,
		StartDate:          req.startDate,
		EndDate:            req.endDate,
		VenueName:          req.VenueName,
		Address:            req.Address,
		Description:        req.Description,
		Capacity:           req.Capacity,
		Status:             domain.EventStatus(req.Status),
		Visibility:         domain.EventVisibility(req.Visibility),
		RegistrationStatus: domain.RegistrationStatus(req.RegistrationStatus),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDates) {
			helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeValidationError, domain.ErrInvalidDates.Error())
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event fields")
			return
		}
		c.writeInternalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// All fields are optional; absent fields are left unchanged.
type UpdateEventRequest struct {
	Name               *string `json:"name"`
	StartDate          *string `json:"start_date"`
	EndDate            *string `json:"end_date"`
	VenueName          *string `json:"venue_name"`
	Address            *string `json:"address"`
	Description        *string `json:"description"`
	Capacity           *int    `json:"capacity"`
	Status             *string `json:"status"`
	Visibility         *string `json:"visibility"`
	RegistrationStatus *string `json:"registration_status"`

	startDate *time.Time
	endDate   *time.Time
}

// Validate implements helpers.Validator.
func (req *UpdateEventRequest) Validate() []string {
	var errs []string
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if req.StartDate != nil {
		if t, ok := parseDateParam(*req.StartDate); ok {
			req.startDate = &t
		} else {
			errs = append(errs, "start_date must be RFC3339 or YYYY-MM-DD")
		}
	}
	if req.EndDate != nil {
		if t, ok := parseDateParam(*req.EndDate); ok {
			req.endDate = &t
		} else {
			errs = append(errs, "end_date must be RFC3339 or YYYY-MM-DD")
		}
	}
	return errs
}

func (req *UpdateEventRequest) toPatch() domain.EventPatch {
	patch := domain.EventPatch{
		Name:        req.Name,
		StartDate:   req.startDate,
		EndDate:     req.endDate,
		VenueName:   req.VenueName,
		Address:     req.Address,
		Description: req.Description,
		Capacity:    req.Capacity,
	}
	if req.Status != nil {
		s := domain.EventStatus(*req.Status)
		patch.Status = &s
	}
	if req.Visibility != nil {
		v := domain.EventVisibility(*req.Visibility)
		patch.Visibility = &v
	}
	if req.RegistrationStatus != nil {
		rs := domain.RegistrationStatus(*req.RegistrationStatus)
		patch.RegistrationStatus = &rs
	}
	return patch
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Applies a partial update. Date changes are validated against the stored counterpart. The slug never changes.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.GetEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: validation_error (end date not after start date)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, err := c.Service.UpdateEvent(r.Context(), eventID, req.toPatch())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidDates) {
			helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeValidationError, domain.ErrInvalidDates.Error())
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid event fields")
			return
		}
		c.writeInternalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and, via cascade, its attendees and sessions.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	if err := c.Service.DeleteEvent(r.Context(), eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.writeInternalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PublishEvent godoc
// @Summary Publish an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/publish [post]
func (c *EventController) PublishEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.PublishEvent)
}

// ArchiveEvent godoc
// @Summary Archive an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/archive [post]
func (c *EventController) ArchiveEvent(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.ArchiveEvent)
}

// OpenRegistration godoc
// @Summary Open registration for an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registration/open [post]
func (c *EventController) OpenRegistration(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.OpenRegistration)
}

// CloseRegistration godoc
// @Summary Close registration for an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GetEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/registration/close [post]
func (c *EventController) CloseRegistration(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.Service.CloseRegistration)
}

func (c *EventController) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (*domain.Event, error)) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	event, err := op(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.writeInternalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
