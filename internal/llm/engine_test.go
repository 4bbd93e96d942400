package llm_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vectorchat/internal/llm"
	"vectorchat/internal/model"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role      string `json:"role"`
		Content   string `json:"content"`
		ToolCalls []struct {
			ID       string `json:"id"`
			Type     string `json:"type"`
			Function struct {
				Name      string `json:"name"`
				Arguments string `json:"arguments"`
			} `json:"function"`
		} `json:"tool_calls"`
	} `json:"messages"`
	Stream bool `json:"stream"`
}

func decodeRequest(t *testing.T, r *http.Request) capturedRequest {
	t.Helper()
	var req capturedRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func TestHTTPEngine_Process_NonStreaming(t *testing.T) {
	var captured capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		captured = decodeRequest(t, r)

		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Hi there"}}]}`)
	}))
	defer server.Close()

	engine := llm.NewHTTPEngine(server.URL, "test-key", "gemini-test")
	history := []model.Message{
		model.NewMessage(model.RoleUser, "Hello", nil),
	}

	result, err := engine.Process(context.Background(), "Hello", history, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", result.Content)
	assert.Empty(t, result.ToolCalls)

	assert.Equal(t, "gemini-test", captured.Model)
	assert.False(t, captured.Stream)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, "Hello", captured.Messages[0].Content)
}

func TestHTTPEngine_Process_ToolCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{
			"role":"assistant",
			"content":"",
			"tool_calls":[{"id":"call-1","type":"function","function":{"name":"lookup","arguments":"{\"q\":\"go\"}"}}]
		}}]}`)
	}))
	defer server.Close()

	engine := llm.NewHTTPEngine(server.URL, "", "gemini-test")

	result, err := engine.Process(context.Background(), "Hello", nil, nil)
	require.NoError(t, err)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "call-1", result.ToolCalls[0].ID)
	assert.Equal(t, "lookup", result.ToolCalls[0].Name)
	assert.JSONEq(t, `{"q":"go"}`, string(result.ToolCalls[0].Arguments))
}

func TestHTTPEngine_Process_ForwardsHistoryToolCalls(t *testing.T) {
	var captured capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = decodeRequest(t, r)
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer server.Close()

	engine := llm.NewHTTPEngine(server.URL, "", "gemini-test")
	history := []model.Message{
		model.NewMessage(model.RoleAssistant, "", []model.ToolCall{
			{ID: "call-1", Name: "lookup", Arguments: json.RawMessage(`{"q":"go"}`)},
		}),
	}

	_, err := engine.Process(context.Background(), "Hello", history, nil)
	require.NoError(t, err)

	require.Len(t, captured.Messages, 1)
	require.Len(t, captured.Messages[0].ToolCalls, 1)
	assert.Equal(t, "function", captured.Messages[0].ToolCalls[0].Type)
	assert.Equal(t, "lookup", captured.Messages[0].ToolCalls[0].Function.Name)
}

func TestHTTPEngine_Process_Streaming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo \"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"world\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	engine := llm.NewHTTPEngine(server.URL, "", "gemini-test")

	var chunks []string
	result, err := engine.Process(context.Background(), "Hello", nil, func(chunk string) {
		chunks = append(chunks, chunk)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hel", "lo ", "world"}, chunks)
	assert.Equal(t, "Hello world", result.Content)
}

func TestHTTPEngine_Process_StreamingToolCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"tool_calls\":[{\"index\":0,\"id\":\"call-1\",\"function\":{\"name\":\"lookup\",\"arguments\":\"{\\\"q\\\":\"}}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"tool_calls\":[{\"index\":0,\"function\":{\"arguments\":\"\\\"go\\\"}\"}}]}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	engine := llm.NewHTTPEngine(server.URL, "", "gemini-test")

	result, err := engine.Process(context.Background(), "Hello", nil, func(string) {})
	require.NoError(t, err)

	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "call-1", result.ToolCalls[0].ID)
	assert.Equal(t, "lookup", result.ToolCalls[0].Name)
	assert.JSONEq(t, `{"q":"go"}`, string(result.ToolCalls[0].Arguments))
}

func TestHTTPEngine_UpdateModel(t *testing.T) {
	var captured capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = decodeRequest(t, r)
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer server.Close()

	engine := llm.NewHTTPEngine(server.URL, "", "old-model")
	engine.UpdateModel("new-model")

	_, err := engine.Process(context.Background(), "Hello", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "new-model", captured.Model)
}

func TestHTTPEngine_Process_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	engine := llm.NewHTTPEngine(server.URL, "", "gemini-test")

	_, err := engine.Process(context.Background(), "Hello", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestHTTPEngine_Process_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	engine := llm.NewHTTPEngine(server.URL, "", "gemini-test")

	_, err := engine.Process(context.Background(), "Hello", nil, nil)
	assert.Error(t, err)
}

func TestNewHTTPFactory(t *testing.T) {
	var captured capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = decodeRequest(t, r)
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	}))
	defer server.Close()

	factory := llm.NewHTTPFactory(server.URL, "")
	engine := factory("factory-model")

	_, err := engine.Process(context.Background(), "Hello", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "factory-model", captured.Model)
}
