package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "vectorchat/internal/errors"
)

// APIResponse is the envelope every JSON endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// respondWithData writes a success envelope.
func respondWithData(w http.ResponseWriter, code int, data interface{}) {
	respondWithJSON(w, code, APIResponse{Success: true, Data: data})
}

// respondWithError maps application sentinel errors to HTTP status codes and
// writes a failure envelope. The detailed error is logged; clients get a
// stable message per category.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, apperrors.ErrBusy):
		statusCode = http.StatusConflict
		message = "A turn is already being processed for this session. Retry shortly."
	case errors.Is(err, apperrors.ErrProcessing):
		statusCode = http.StatusInternalServerError
		message = "Failed to process the message."
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, APIResponse{Success: false, Error: message})
}

// respondWithJSON is the low-level helper writing any payload as JSON.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}
