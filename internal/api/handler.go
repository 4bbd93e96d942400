package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vectorchat/internal/directory"
	apperrors "vectorchat/internal/errors"
	"vectorchat/internal/session"
)

// ChatHandler serves the per-session actor routes. Every route resolves the
// actor through the registry, so the first request for a session id
// materializes its actor.
type ChatHandler struct {
	registry  *session.Registry
	directory *directory.Service
}

func NewChatHandler(registry *session.Registry, dir *directory.Service) *ChatHandler {
	return &ChatHandler{registry: registry, directory: dir}
}

// ChatRequest is the body for submitting a message to a session.
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	Model   string `json:"model,omitempty"`
	Stream  bool   `json:"stream,omitempty"`
}

// ModelRequest is the body for switching a session's model.
type ModelRequest struct {
	Model string `json:"model" validate:"required"`
}

// GetMessages godoc
// @Summary      Get session state
// @Description  Returns the session's full chat state, including any in-flight streaming text.
// @Tags         Chat
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  APIResponse
// @Router       /chat/{sessionID}/messages [get]
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	actor := h.registry.Get(chi.URLParam(r, "sessionID"))
	respondWithData(w, http.StatusOK, actor.Snapshot())
}

// HandleChat godoc
// @Summary      Submit a message
// @Description  Runs one conversational turn. With stream=true the reply is delivered as raw text chunks.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string       true  "Session ID"
// @Param        body       body  ChatRequest  true  "Message"
// @Success      200  {object}  APIResponse
// @Failure      400  {object}  APIResponse
// @Failure      409  {object}  APIResponse
// @Failure      500  {object}  APIResponse
// @Router       /chat/{sessionID}/chat [post]
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", apperrors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	actor := h.registry.Get(sessionID)

	if !req.Stream {
		state, err := actor.Submit(r.Context(), req.Message, req.Model, nil)
		if err != nil {
			respondWithError(w, err)
			return
		}
		h.touchDirectory(r, sessionID)
		respondWithData(w, http.StatusOK, state)
		return
	}

	transport := newStreamTransport(w)
	_, err := actor.Submit(r.Context(), req.Message, req.Model, transport.WriteChunk)
	switch {
	case err == nil:
		h.touchDirectory(r, sessionID)
	case errors.Is(err, apperrors.ErrProcessing):
		// The failure notice has already been flushed to the stream; the
		// turn is recorded with the fallback assistant message.
	case !transport.Started():
		// Rejected before any chunk went out, so a JSON error still fits.
		respondWithError(w, err)
	}
}

// HandleClear godoc
// @Summary      Clear session history
// @Tags         Chat
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  APIResponse
// @Router       /chat/{sessionID}/clear [delete]
func (h *ChatHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	actor := h.registry.Get(chi.URLParam(r, "sessionID"))
	respondWithData(w, http.StatusOK, actor.Clear())
}

// HandleModel godoc
// @Summary      Switch session model
// @Description  Changes the model used by future turns. Existing messages are untouched.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string        true  "Session ID"
// @Param        body       body  ModelRequest  true  "Model"
// @Success      200  {object}  APIResponse
// @Failure      400  {object}  APIResponse
// @Router       /chat/{sessionID}/model [post]
func (h *ChatHandler) HandleModel(w http.ResponseWriter, r *http.Request) {
	var req ModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", apperrors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	actor := h.registry.Get(chi.URLParam(r, "sessionID"))
	respondWithData(w, http.StatusOK, actor.UpdateModel(req.Model))
}

// touchDirectory reports turn activity (one user plus one assistant message)
// to the session directory. Best-effort: directory failures never affect the
// completed turn.
func (h *ChatHandler) touchDirectory(r *http.Request, sessionID string) {
	if h.directory == nil {
		return
	}
	if err := h.directory.Touch(r.Context(), sessionID, 2); err != nil {
		slog.Warn("Failed to update session activity", "session_id", sessionID, "error", err)
	}
}
