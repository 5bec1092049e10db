package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(Config{Provider: "openai"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	p, err := NewProvider(Config{Provider: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "openai:gemini-2.0-flash", p.Name())

	p, err = NewProvider(Config{Provider: "Anthropic", APIKey: "k"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.Name(), "anthropic:"))

	_, err = NewProvider(Config{Provider: "smoke-signal", APIKey: "k"})
	assert.Error(t, err)
}

func TestOpenAIProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body["model"])
		messages := body["messages"].([]interface{})
		require.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"test-model",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"ROAST: mid\nSTATS: {}"}}]}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL + "/v1", Model: "test-model"})
	text, err := p.Generate(context.Background(), Prompt{System: "sys", User: "roast naruto", MaxTokens: 100})
	require.NoError(t, err)
	assert.Equal(t, "ROAST: mid\nSTATS: {}", text)
}

func TestOpenAIProvider_Generate_QuotaExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Resource has been exhausted","type":"rate_limit","code":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL})
	_, err := p.Generate(context.Background(), Prompt{User: "x"})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestOpenAIProvider_Generate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"internal secret detail","type":"server_error"}}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL})
	_, err := p.Generate(context.Background(), Prompt{User: "x"})
	assert.ErrorIs(t, err, ErrProvider)
	assert.NotContains(t, err.Error(), "secret")
}

func TestOpenAIProvider_Generate_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	p := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Prompt{User: "x"})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestAnthropicProvider_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"))
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-test", body["model"])
		assert.Equal(t, float64(200), body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",
			"content":[{"type":"text","text":"ROAST: "},{"type":"text","text":"carried by vibes"}],
			"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}}`))
	}))
	defer server.Close()

	p := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Model: "claude-test"})
	text, err := p.Generate(context.Background(), Prompt{System: "sys", User: "roast bleach", MaxTokens: 200})
	require.NoError(t, err)
	assert.Equal(t, "ROAST: carried by vibes", text)
}

func TestAnthropicProvider_Generate_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	p := NewAnthropicProvider(Config{APIKey: "k", BaseURL: server.URL})
	_, err := p.Generate(context.Background(), Prompt{User: "x"})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}
