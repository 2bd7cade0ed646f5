package handlers

import (
	"encoding/json"
	"net/http"

	"writeflow.com/emotion-board/apperrors"
	"writeflow.com/emotion-board/logger"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps the error taxonomy to client-facing status codes.
// Anything outside the taxonomy is logged and surfaced as a bare 500 so
// persistence details never leak.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsNotFound(err):
		writeMessage(w, http.StatusNotFound, err.Error())
	case apperrors.IsInvalidArgument(err):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case apperrors.IsInvalidToken(err):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case apperrors.IsDuplicateAction(err):
		writeMessage(w, http.StatusConflict, err.Error())
	case apperrors.IsHiddenPost(err):
		writeMessage(w, http.StatusConflict, err.Error())
	case apperrors.IsForbidden(err):
		writeMessage(w, http.StatusForbidden, err.Error())
	default:
		logger.Log.WithError(err).Error("internal error")
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
