package handler

import (
	"encoding/json"
	"liveexperience/internal/model"
	"liveexperience/internal/service"
	"liveexperience/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// EventHandler handles event listing, registration and joining
type EventHandler struct {
	eventSvc   *service.EventService
	sessionSvc *service.SessionService
	log        zerolog.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventSvc *service.EventService, sessionSvc *service.SessionService, log zerolog.Logger) *EventHandler {
	return &EventHandler{
		eventSvc:   eventSvc,
		sessionSvc: sessionSvc,
		log:        log,
	}
}

// List handles GET /v1/events
//
//	@Summary	List live events
//	@Tags		events
//	@Produce	json
//	@Success	200	{array}	model.Event
//	@Router		/events [get]
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	if events == nil {
		events = []*model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Get handles GET /v1/events/{eventId}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventSvc.Get(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Register handles POST /v1/events/{eventId}/register
//
//	@Summary	Register interest in an event
//	@Tags		events
//	@Accept		json
//	@Produce	json
//	@Param		eventId	path		string					true	"Event ID"
//	@Param		body	body		model.RegisterRequest	true	"Registrant"
//	@Success	201		{object}	model.Registration
//	@Router		/events/{eventId}/register [post]
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reg, err := h.eventSvc.Register(r.Context(), mux.Vars(r)["eventId"], &req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

// Join handles POST /v1/events/{eventId}/join. A bearer token from an
// earlier visit is optional and only used to recognise the client.
//
//	@Summary	Start a workbook session for a live event
//	@Tags		events
//	@Produce	json
//	@Param		eventId	path		string	true	"Event ID"
//	@Success	201		{object}	model.JoinResponse
//	@Router		/events/{eventId}/join [post]
func (h *EventHandler) Join(w http.ResponseWriter, r *http.Request) {
	resp, err := h.sessionSvc.Join(r.Context(), mux.Vars(r)["eventId"], middleware.ExtractBearerToken(r))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
