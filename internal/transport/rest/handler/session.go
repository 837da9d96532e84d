package handler

import (
	"encoding/json"
	"liveexperience/internal/model"
	"liveexperience/internal/service"
	"liveexperience/internal/wizard"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// SessionHandler handles workbook session endpoints. Every mutation replies
// with the updated session view.
type SessionHandler struct {
	sessionSvc *service.SessionService
	log        zerolog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionSvc: sessionSvc,
		log:        log,
	}
}

// UnlockRequest is the request body for unlocking the experience
type UnlockRequest struct {
	Code string `json:"code"`
}

// TextRequest carries answer or follow-up text
type TextRequest struct {
	Text string `json:"text"`
}

// SaveResponse is returned by the save endpoint
type SaveResponse struct {
	Outcome model.SaveOutcome `json:"outcome"`
	model.SessionView
}

// Get handles GET /v1/sessions/{sessionId}
//
//	@Summary	Current session state with the event banner
//	@Tags		sessions
//	@Produce	json
//	@Security	BearerAuth
//	@Param		sessionId	path		string	true	"Session ID"
//	@Success	200			{object}	model.SessionView
//	@Router		/sessions/{sessionId} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.writeView(w, mux.Vars(r)["sessionId"])
}

// Unlock handles POST /v1/sessions/{sessionId}/unlock
func (h *SessionHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	var req UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := mux.Vars(r)["sessionId"]
	if err := h.sessionSvc.Unlock(r.Context(), id, req.Code); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	h.writeView(w, id)
}

// SubmitBusiness handles POST /v1/sessions/{sessionId}/business
//
//	@Summary	Save business details and start the questions
//	@Tags		sessions
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		sessionId	path		string					true	"Session ID"
//	@Param		body		body		model.BusinessDetails	true	"Business details"
//	@Success	200			{object}	model.SessionView
//	@Failure	400			{object}	map[string]string
//	@Failure	409			{object}	map[string]string
//	@Router		/sessions/{sessionId}/business [post]
func (h *SessionHandler) SubmitBusiness(w http.ResponseWriter, r *http.Request) {
	var req model.BusinessDetails
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.apply(w, r, func(s *wizard.Session) error {
		return s.SubmitBusinessDetails(req)
	})
}

// SetAnswer handles PUT /v1/sessions/{sessionId}/answer
func (h *SessionHandler) SetAnswer(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.apply(w, r, func(s *wizard.Session) error {
		return s.SetAnswer(req.Text)
	})
}

// SetFollowUp handles PUT /v1/sessions/{sessionId}/followup
func (h *SessionHandler) SetFollowUp(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.apply(w, r, func(s *wizard.Session) error {
		return s.SetFollowUpAnswer(req.Text)
	})
}

// ToggleMessage handles POST /v1/sessions/{sessionId}/message/toggle
func (h *SessionHandler) ToggleMessage(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, func(s *wizard.Session) error {
		return s.ToggleMessage()
	})
}

// Save handles POST /v1/sessions/{sessionId}/save
//
//	@Summary	Save the current answer and advance
//	@Description	The first save of a question with a follow-up returns follow_up_pending; the follow-up is revealed over the socket.
//	@Tags		sessions
//	@Produce	json
//	@Security	BearerAuth
//	@Param		sessionId	path		string	true	"Session ID"
//	@Success	200			{object}	SaveResponse
//	@Failure	400			{object}	map[string]string
//	@Failure	409			{object}	map[string]string
//	@Router		/sessions/{sessionId}/save [post]
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	wiz, err := h.sessionSvc.Session(id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	outcome, err := wiz.SaveAndAdvance()
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	view, err := h.sessionSvc.View(id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, SaveResponse{Outcome: outcome, SessionView: *view})
}

// SelectQuestion handles POST /v1/sessions/{sessionId}/questions/{questionId}/select
func (h *SessionHandler) SelectQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, err := strconv.Atoi(mux.Vars(r)["questionId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	h.apply(w, r, func(s *wizard.Session) error {
		return s.SelectQuestion(questionID)
	})
}

// End handles DELETE /v1/sessions/{sessionId}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionSvc.End(mux.Vars(r)["sessionId"]); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) apply(w http.ResponseWriter, r *http.Request, fn func(*wizard.Session) error) {
	id := mux.Vars(r)["sessionId"]
	wiz, err := h.sessionSvc.Session(id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	if err := fn(wiz); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	h.writeView(w, id)
}

func (h *SessionHandler) writeView(w http.ResponseWriter, id string) {
	view, err := h.sessionSvc.View(id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
