package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role values for a Message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolCall records a single tool invocation made by the assistant while
// producing a reply.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
}

// Message is one entry in a session's conversation history. Messages are
// immutable once created.
type Message struct {
	ID        string     `json:"id"`
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

// NewMessage builds a Message with a fresh id and a UTC timestamp.
func NewMessage(role, content string, toolCalls []ToolCall) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
		ToolCalls: toolCalls,
	}
}

// ChatState is the complete state of one chat session. The owning actor
// treats values of this type as immutable snapshots: every mutation produces
// a new value, so a snapshot handed to a reader is never modified afterwards.
type ChatState struct {
	SessionID        string    `json:"sessionId"`
	Messages         []Message `json:"messages"`
	IsProcessing     bool      `json:"isProcessing"`
	Model            string    `json:"model"`
	StreamingMessage string    `json:"streamingMessage,omitempty"`
}

// NewChatState returns the initial state for a session.
func NewChatState(sessionID, model string) ChatState {
	return ChatState{
		SessionID: sessionID,
		Messages:  []Message{},
		Model:     model,
	}
}

// WithMessage returns a copy of the state with msg appended. The messages
// slice is copied so earlier snapshots keep their own backing array.
func (s ChatState) WithMessage(msg Message) ChatState {
	messages := make([]Message, len(s.Messages), len(s.Messages)+1)
	copy(messages, s.Messages)
	s.Messages = append(messages, msg)
	return s
}

// Session is a directory record describing one chat session. The directory
// owns these; the actor core only reports activity.
type Session struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	MessageCount int       `json:"message_count"`
}

// Turn pairs a user message with the assistant message it produced. This is
// the unit persisted by the fan-out record write.
type Turn struct {
	UserMessage      Message `json:"userMessage"`
	AssistantMessage Message `json:"assistantMessage"`
}
