package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeProvider(t *testing.T, handler func(w http.ResponseWriter, req chatRequest)) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		handler(w, req)
	}))
	t.Cleanup(srv.Close)

	return NewClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/"}), srv
}

func writeChoice(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":` + mustJSON(content) + `}}]}`))
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerate_Success(t *testing.T) {
	c, _ := newFakeProvider(t, func(w http.ResponseWriter, req chatRequest) {
		assert.Equal(t, DefaultModel, req.Model)
		assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Equal(t, Prompt("gardening"), req.Messages[0].Content)
		}
		writeChoice(w, "Plants need water.")
	})

	text, err := c.Generate(context.Background(), "gardening")
	require.NoError(t, err)
	assert.Equal(t, "Plants need water.", text)
}

func TestPrompt_ContainsTopicAndPlainTextInstruction(t *testing.T) {
	p := Prompt("100% rye bread")
	assert.Contains(t, p, "Write a blog about: 100% rye bread.")
	assert.Contains(t, p, "without any markdown formatting")
}

func TestGenerate_EmptyContent(t *testing.T) {
	c, _ := newFakeProvider(t, func(w http.ResponseWriter, _ chatRequest) {
		writeChoice(w, "   ")
	})

	_, err := c.Generate(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrNoContent))
}

func TestGenerate_NoChoices(t *testing.T) {
	c, _ := newFakeProvider(t, func(w http.ResponseWriter, _ chatRequest) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := c.Generate(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrNoContent))
}

func TestGenerate_ProviderError(t *testing.T) {
	c, _ := newFakeProvider(t, func(w http.ResponseWriter, _ chatRequest) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"tokens"}}`))
	})

	_, err := c.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestGenerate_MissingAPIKey(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://127.0.0.1:1"})

	_, err := c.Generate(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestGenerate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Generate(context.Background(), "x")
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	c, _ := newFakeProvider(t, func(w http.ResponseWriter, req chatRequest) {
		assert.Equal(t, 10, req.MaxTokens)
		writeChoice(w, "Hi")
	})

	assert.NoError(t, c.Ping(context.Background()))
}
