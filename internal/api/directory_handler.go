package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vectorchat/internal/directory"
	apperrors "vectorchat/internal/errors"
)

// DirectoryHandler serves the cross-session directory routes. These sit above
// the actor core: they manage which sessions exist, not what is inside them.
type DirectoryHandler struct {
	directory *directory.Service
}

func NewDirectoryHandler(dir *directory.Service) *DirectoryHandler {
	return &DirectoryHandler{directory: dir}
}

// CreateSessionRequest is the body for registering a session. All fields are
// optional; a missing id is generated and a missing title derived from the
// first message.
type CreateSessionRequest struct {
	SessionID    string `json:"sessionId,omitempty"`
	Title        string `json:"title,omitempty"`
	FirstMessage string `json:"firstMessage,omitempty"`
}

// RenameSessionRequest is the body for the title update route.
type RenameSessionRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100"`
}

// ListSessions godoc
// @Summary      List sessions
// @Tags         Sessions
// @Produce      json
// @Success      200  {object}  APIResponse
// @Router       /sessions [get]
func (h *DirectoryHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.directory.List(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, sessions)
}

// CreateSession godoc
// @Summary      Register a session
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        body  body  CreateSessionRequest  false  "Session"
// @Success      200  {object}  APIResponse
// @Router       /sessions [post]
func (h *DirectoryHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	// An empty body is fine here: everything can be derived.
	_ = json.NewDecoder(r.Body).Decode(&req)

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	title := req.Title
	if title == "" {
		title = directory.DefaultTitle(req.FirstMessage, time.Now())
	}

	if _, err := h.directory.Register(r.Context(), sessionID, title); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, map[string]string{"sessionId": sessionID, "title": title})
}

// DeleteSession godoc
// @Summary      Delete a session
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  APIResponse
// @Failure      404  {object}  APIResponse
// @Router       /sessions/{sessionID} [delete]
func (h *DirectoryHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.directory.Delete(r.Context(), sessionID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, map[string]bool{"deleted": true})
}

// RenameSession godoc
// @Summary      Update a session title
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string                true  "Session ID"
// @Param        body       body  RenameSessionRequest  true  "Title"
// @Success      200  {object}  APIResponse
// @Failure      400  {object}  APIResponse
// @Failure      404  {object}  APIResponse
// @Router       /sessions/{sessionID}/title [put]
func (h *DirectoryHandler) RenameSession(w http.ResponseWriter, r *http.Request) {
	var req RenameSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", apperrors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.directory.Rename(r.Context(), sessionID, req.Title); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, map[string]string{"title": req.Title})
}

// SessionStats godoc
// @Summary      Session statistics
// @Tags         Sessions
// @Produce      json
// @Success      200  {object}  APIResponse
// @Router       /sessions/stats [get]
func (h *DirectoryHandler) SessionStats(w http.ResponseWriter, r *http.Request) {
	count, err := h.directory.Count(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, map[string]int{"totalSessions": count})
}

// ClearSessions godoc
// @Summary      Delete all sessions
// @Tags         Sessions
// @Produce      json
// @Success      200  {object}  APIResponse
// @Router       /sessions [delete]
func (h *DirectoryHandler) ClearSessions(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.directory.ClearAll(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}
