package llm

import (
	"context"
	"encoding/json"

	"vectorchat/internal/model"
)

// Result is the final outcome of one completion-engine invocation.
type Result struct {
	Content   string
	ToolCalls []model.ToolCall
}

// ChunkFunc receives text fragments in production order during a streaming
// completion.
type ChunkFunc func(chunk string)

// Engine defines the interface for the text-completion collaborator. Process
// must support both single-shot use (onChunk == nil) and progressive delivery
// through the callback; in both modes it returns the complete result.
type Engine interface {
	Process(ctx context.Context, text string, history []model.Message, onChunk ChunkFunc) (*Result, error)
	UpdateModel(model string)
}

// Factory builds an Engine bound to a model. Each session actor holds its own
// binding so model overrides never leak across sessions.
type Factory func(model string) Engine

// chatMessage is the wire shape for one history entry sent to the engine.
type chatMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []wireToolCall `json:"tool_calls,omitempty"`
}

type wireToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function wireToolFunction `json:"function"`
}

type wireToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

func toWireToolCalls(calls []model.ToolCall) []wireToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]wireToolCall, len(calls))
	for i, c := range calls {
		out[i] = wireToolCall{
			ID:   c.ID,
			Type: "function",
			Function: wireToolFunction{
				Name:      c.Name,
				Arguments: string(c.Arguments),
			},
		}
	}
	return out
}

func fromWireToolCalls(calls []wireToolCall) []model.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]model.ToolCall, len(calls))
	for i, c := range calls {
		out[i] = model.ToolCall{
			ID:        c.ID,
			Name:      c.Function.Name,
			Arguments: json.RawMessage(c.Function.Arguments),
		}
	}
	return out
}
