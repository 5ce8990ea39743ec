package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/medpoint/practice-scheduling/internal/localization"
	"github.com/medpoint/practice-scheduling/internal/scheduling"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func kindToStatus(kind scheduling.Kind) int {
	switch kind {
	case scheduling.KindValidation:
		return http.StatusBadRequest
	case scheduling.KindNotFound:
		return http.StatusNotFound
	case scheduling.KindConflict:
		return http.StatusConflict
	case scheduling.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps an expected scheduling failure to its status code
// and localized message. Anything else is an infrastructure fault: logged in
// full, surfaced as a generic server error.
func (h *AppointmentHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if serr, ok := scheduling.AsError(err); ok {
		writeError(w, kindToStatus(serr.Kind), serr.Key, serr.Message)
		return
	}

	h.log.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", GetRequestID(r.Context())),
		zap.Error(err))

	key := localization.KeyCommonServerError
	writeError(w, http.StatusInternalServerError, key, h.messages.Lookup(key))
}
