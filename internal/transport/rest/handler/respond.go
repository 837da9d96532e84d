package handler

import (
	"encoding/json"
	"errors"
	"liveexperience/internal/service"
	"liveexperience/internal/wizard"
	"net/http"

	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError maps domain errors to status codes. Anything unknown is
// logged and reported as a 500 without leaking the cause.
func writeServiceError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var ve *wizard.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message, "field": ve.Field})
	case errors.Is(err, wizard.ErrAccessDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, wizard.ErrWrongStage), errors.Is(err, wizard.ErrSaveInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, wizard.ErrSessionClosed):
		writeError(w, http.StatusGone, err.Error())
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrEventNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEventNotActive):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidRegistrant):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
