package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dobryakk5/counter/internal/config"
	"github.com/dobryakk5/counter/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T, handler http.HandlerFunc) *OpenRouterParser {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOpenRouterParser(config.Parser{
		BaseURL:        srv.URL,
		APIKey:         "test-key",
		Model:          "test-model",
		RequestTimeout: 5 * time.Second,
	}, logger.Nop())
}

func completionAnswer(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func TestParse_Success(t *testing.T) {
	parser := newTestParser(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "bought bread for 50")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionAnswer("Food|Bread|50")))
	})

	parsed, ok, err := parser.Parse(context.Background(), "bought bread for 50")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "food", parsed.Category)
	assert.Equal(t, "bread", parsed.Subcategory)
	assert.Equal(t, "50", parsed.Price)
}

func TestParse_CommaDecimalNormalized(t *testing.T) {
	parser := newTestParser(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionAnswer("food|milk|49,90 rub")))
	})

	parsed, ok, err := parser.Parse(context.Background(), "milk for 49,90")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "49.90", parsed.Price)
}

func TestParse_MalformedAnswer(t *testing.T) {
	parser := newTestParser(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionAnswer("I could not understand the report, sorry.")))
	})

	parsed, ok, err := parser.Parse(context.Background(), "mumble mumble")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, parsed)
}

func TestParse_AnswerWithoutPriceDigits(t *testing.T) {
	parser := newTestParser(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionAnswer("food|bread|unknown")))
	})

	_, ok, err := parser.Parse(context.Background(), "bought bread")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParse_EmptyChoices(t *testing.T) {
	parser := newTestParser(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, ok, err := parser.Parse(context.Background(), "bought bread for 50")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParse_UpstreamError(t *testing.T) {
	parser := newTestParser(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, ok, err := parser.Parse(context.Background(), "bought bread for 50")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "unexpected status 429")
}
