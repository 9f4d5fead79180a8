package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Tools []struct {
		Type     string `json:"type"`
		Function struct {
			Name string `json:"name"`
		} `json:"function"`
	} `json:"tools"`
}

func fakeCompletions(t *testing.T, status int, message string, seen *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if seen != nil {
			_ = json.Unmarshal(body, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
			return
		}
		_, _ = w.Write([]byte(`{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-test",
  "choices": [{"index": 0, "finish_reason": "stop", "logprobs": null, "message": ` + message + `}]
}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	opts = append(opts, WithRequestOptions(option.WithMaxRetries(0)))
	return New("test-key", "gpt-test", srv.URL+"/v1/", opts...)
}

func TestClient_Complete(t *testing.T) {
	var seen capturedRequest
	srv := fakeCompletions(t, http.StatusOK, `{"role": "assistant", "content": "Thinking...\nANSWER: crane", "refusal": null}`, &seen)

	out, err := newTestClient(srv).Complete(context.Background(), WordleInstructions, "Previous guesses:\n")
	require.NoError(t, err)
	assert.Equal(t, "Thinking...\nANSWER: crane", out)

	assert.Equal(t, "gpt-test", seen.Model)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "user", seen.Messages[1].Role)
	assert.Empty(t, seen.Tools, "tools are only sent in agent mode")
}

func TestClient_Complete_ToolCall(t *testing.T) {
	var seen capturedRequest
	srv := fakeCompletions(t, http.StatusOK, `{
    "role": "assistant",
    "content": "First guess.",
    "refusal": null,
    "tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "submit_word", "arguments": "{\"word\": \"crane\"}"}}]
  }`, &seen)

	out, err := newTestClient(srv, WithTools()).Complete(context.Background(), "rules", "log")
	require.NoError(t, err)

	require.Len(t, seen.Tools, len(Tools))
	assert.Equal(t, "submit_word", seen.Tools[0].Function.Name)

	action, err := ParseAction(out)
	require.NoError(t, err)
	assert.Equal(t, "crane", action.Word)
	assert.Equal(t, "First guess.", action.Reasoning)
}

func TestClient_Complete_Empty(t *testing.T) {
	srv := fakeCompletions(t, http.StatusOK, `{"role": "assistant", "content": "   ", "refusal": null}`, nil)

	_, err := newTestClient(srv).Complete(context.Background(), "", "hi")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClient_Complete_ServerError(t *testing.T) {
	srv := fakeCompletions(t, http.StatusInternalServerError, "", nil)

	out, err := newTestClient(srv).Complete(context.Background(), "", "hi")
	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestRenderToolCall_BrokenArguments(t *testing.T) {
	out, err := renderToolCall("", "submit_word", `{"word": `)
	require.NoError(t, err)

	_, err = ParseToolCall(out)
	assert.ErrorIs(t, err, ErrMalformedAction)
}
