package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	apperrors "vectorchat/internal/errors"
	"vectorchat/internal/llm"
	"vectorchat/internal/model"
)

// FailureNotice is the fixed assistant message recorded whenever the
// completion engine fails or times out. A turn is never silently dropped.
const FailureNotice = "Sorry, I encountered an error."

// TurnRecorder schedules the best-effort persistence fan-out for a completed
// turn. Implementations must not block the caller.
type TurnRecorder interface {
	Record(sessionID string, userMessage, assistantMessage model.Message)
}

// Actor owns the in-memory state of exactly one chat session. All writes go
// through the actor's mutex; reads load the latest immutable snapshot without
// locking, so a mid-stream Snapshot always observes a fully-formed state.
type Actor struct {
	mu      sync.Mutex
	state   atomic.Pointer[model.ChatState]
	engine  llm.Engine
	fanout  TurnRecorder
	timeout time.Duration
}

// NewActor creates an actor for sessionID with the given engine binding.
func NewActor(sessionID, modelName string, engine llm.Engine, fanout TurnRecorder, timeout time.Duration) *Actor {
	a := &Actor{
		engine:  engine,
		fanout:  fanout,
		timeout: timeout,
	}
	initial := model.NewChatState(sessionID, modelName)
	a.state.Store(&initial)
	return a
}

// Snapshot returns the current state. Safe to call at any time, including
// while a streaming turn is in flight.
func (a *Actor) Snapshot() model.ChatState {
	return *a.state.Load()
}

// Submit runs one conversational turn. When onChunk is nil the engine is
// awaited single-shot; otherwise each produced fragment is mirrored into the
// state's streamingMessage and forwarded to onChunk in production order.
//
// A submission while a turn is already in flight is rejected with ErrBusy:
// the actor never interleaves turns, and callers retry once the current turn
// completes.
func (a *Actor) Submit(ctx context.Context, text, modelOverride string, onChunk llm.ChunkFunc) (model.ChatState, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return a.Snapshot(), fmt.Errorf("%w: message cannot be blank", apperrors.ErrValidation)
	}

	a.mu.Lock()
	current := *a.state.Load()
	if current.IsProcessing {
		a.mu.Unlock()
		return current, fmt.Errorf("%w: a turn is already in flight for session %s", apperrors.ErrBusy, current.SessionID)
	}

	if modelOverride != "" && modelOverride != current.Model {
		current.Model = modelOverride
		a.engine.UpdateModel(modelOverride)
	}

	userMessage := model.NewMessage(model.RoleUser, trimmed, nil)
	next := current.WithMessage(userMessage)
	next.IsProcessing = true
	next.StreamingMessage = ""
	a.state.Store(&next)
	history := next.Messages
	a.mu.Unlock()

	// Watchdog: a hung engine call must not leave isProcessing stuck true.
	engineCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		engineCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	var chunkFn llm.ChunkFunc
	if onChunk != nil {
		chunkFn = func(chunk string) {
			a.appendStreaming(chunk)
			onChunk(chunk)
		}
	}

	result, err := a.engine.Process(engineCtx, trimmed, history, chunkFn)
	if err != nil {
		slog.Error("Completion engine failed", "session_id", next.SessionID, "error", err)
		if onChunk != nil {
			onChunk(FailureNotice)
		}
		final := a.finishTurn(model.NewMessage(model.RoleAssistant, FailureNotice, nil))
		return final, fmt.Errorf("%w: %v", apperrors.ErrProcessing, err)
	}

	assistantMessage := model.NewMessage(model.RoleAssistant, result.Content, result.ToolCalls)
	final := a.finishTurn(assistantMessage)

	if a.fanout != nil {
		a.fanout.Record(final.SessionID, userMessage, assistantMessage)
	}
	return final, nil
}

// Clear empties the message history. Session id and model are preserved.
func (a *Actor) Clear() model.ChatState {
	a.mu.Lock()
	defer a.mu.Unlock()
	next := *a.state.Load()
	next.Messages = []model.Message{}
	a.state.Store(&next)
	return next
}

// UpdateModel sets the model used by future turns and propagates it to the
// engine binding. Existing messages are untouched.
func (a *Actor) UpdateModel(modelName string) model.ChatState {
	a.mu.Lock()
	defer a.mu.Unlock()
	next := *a.state.Load()
	next.Model = modelName
	a.engine.UpdateModel(modelName)
	a.state.Store(&next)
	return next
}

// appendStreaming publishes a new snapshot with chunk appended to the
// transient streaming buffer.
func (a *Actor) appendStreaming(chunk string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	next := *a.state.Load()
	next.StreamingMessage += chunk
	a.state.Store(&next)
}

// finishTurn appends the assistant message and clears the in-flight flags.
// Every turn, successful or not, terminates through here.
func (a *Actor) finishTurn(assistantMessage model.Message) model.ChatState {
	a.mu.Lock()
	defer a.mu.Unlock()
	next := (*a.state.Load()).WithMessage(assistantMessage)
	next.IsProcessing = false
	next.StreamingMessage = ""
	a.state.Store(&next)
	return next
}
