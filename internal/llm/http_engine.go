package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"vectorchat/internal/model"
)

// httpEngine talks to an OpenAI-compatible chat-completions gateway.
type httpEngine struct {
	client *http.Client
	url    string
	apiKey string

	mu        sync.RWMutex
	modelName string
}

// NewHTTPEngine creates an Engine bound to the given model.
func NewHTTPEngine(url, apiKey, modelName string) Engine {
	return &httpEngine{
		client:    &http.Client{},
		url:       strings.TrimRight(url, "/"),
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// NewHTTPFactory returns a Factory producing engines against the same gateway.
func NewHTTPFactory(url, apiKey string) Factory {
	return func(modelName string) Engine {
		return NewHTTPEngine(url, apiKey, modelName)
	}
}

func (e *httpEngine) UpdateModel(modelName string) {
	e.mu.Lock()
	e.modelName = modelName
	e.mu.Unlock()
}

func (e *httpEngine) model() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.modelName
}

type completionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type completionChunk struct {
	Choices []struct {
		Delta struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Index    int    `json:"index"`
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"delta"`
	} `json:"choices"`
}

func (e *httpEngine) Process(ctx context.Context, text string, history []model.Message, onChunk ChunkFunc) (*Result, error) {
	messages := make([]chatMessage, 0, len(history))
	for _, msg := range history {
		messages = append(messages, chatMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			ToolCalls: toWireToolCalls(msg.ToolCalls),
		})
	}

	req := &completionRequest{
		Model:    e.model(),
		Messages: messages,
		Stream:   onChunk != nil,
	}

	resp, err := e.post(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("engine returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if onChunk == nil {
		return e.readSingle(resp.Body)
	}
	return e.readStream(ctx, resp.Body, onChunk)
}

func (e *httpEngine) post(ctx context.Context, req *completionRequest) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url+"/v1/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	return resp, nil
}

func (e *httpEngine) readSingle(body io.Reader) (*Result, error) {
	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	var completion completionResponse
	if err := json.Unmarshal(bodyBytes, &completion); err != nil {
		return nil, fmt.Errorf("could not decode response: %s", string(bodyBytes))
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("engine returned no choices")
	}

	msg := completion.Choices[0].Message
	return &Result{
		Content:   msg.Content,
		ToolCalls: fromWireToolCalls(msg.ToolCalls),
	}, nil
}

// readStream consumes SSE-framed chunks, forwarding content fragments as they
// arrive and accumulating the full result.
func (e *httpEngine) readStream(ctx context.Context, body io.Reader, onChunk ChunkFunc) (*Result, error) {
	var content strings.Builder
	toolCalls := map[int]*model.ToolCall{}
	toolArgs := map[int]*strings.Builder{}
	maxIndex := -1

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			break
		}

		var chunk completionChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return nil, fmt.Errorf("could not decode stream chunk: %w", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		if delta.Content != "" {
			content.WriteString(delta.Content)
			onChunk(delta.Content)
		}
		for _, tc := range delta.ToolCalls {
			if tc.Index > maxIndex {
				maxIndex = tc.Index
			}
			call, ok := toolCalls[tc.Index]
			if !ok {
				call = &model.ToolCall{}
				toolCalls[tc.Index] = call
				toolArgs[tc.Index] = &strings.Builder{}
			}
			if tc.ID != "" {
				call.ID = tc.ID
			}
			if tc.Function.Name != "" {
				call.Name = tc.Function.Name
			}
			toolArgs[tc.Index].WriteString(tc.Function.Arguments)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("stream read failed: %w", err)
	}

	result := &Result{Content: content.String()}
	for i := 0; i <= maxIndex; i++ {
		call, ok := toolCalls[i]
		if !ok {
			continue
		}
		if args := toolArgs[i].String(); args != "" {
			call.Arguments = json.RawMessage(args)
		}
		result.ToolCalls = append(result.ToolCalls, *call)
	}
	return result, nil
}
