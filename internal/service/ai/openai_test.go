package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientMissingKey(t *testing.T) {
	client := NewOpenAIClient("", "http://127.0.0.1:1", nil)
	_, err := client.Complete(context.Background(), Request{Model: "gpt-4o-mini"})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestOpenAIClientCompletes(t *testing.T) {
	var gotModel string
	var gotContent json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		raw, _ := io.ReadAll(r.Body)
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string          `json:"role"`
				Content json.RawMessage `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.Unmarshal(raw, &body))
		gotModel = body.Model
		if len(body.Messages) == 2 {
			gotContent = body.Messages[1].Content
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Rilancia 3x."}}]
		}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("sk-test", srv.URL+"/v1", srv.Client())
	completion, err := client.Complete(context.Background(), Request{
		Model:    "gpt-4o",
		Messages: []Message{SystemMessage("s"), UserVisionMessage("u", "data:image/jpeg;base64,AA==")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Rilancia 3x.", completion.Text)
	assert.Equal(t, "gpt-4o", gotModel)
	assert.Contains(t, string(gotContent), "image_url")
}

func TestOpenAIClientUpstreamErrorNoRetry(t *testing.T) {
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("sk-wrong", srv.URL+"/v1", srv.Client())
	_, err := client.Complete(context.Background(), Request{Model: "gpt-4o-mini", Messages: []Message{UserMessage("u")}})

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
	assert.Contains(t, upErr.Body, "bad key")
	assert.Equal(t, int32(1), calls.Load())
}
