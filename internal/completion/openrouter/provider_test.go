package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healprint/chat-service/internal/completion"
	"github.com/healprint/chat-service/internal/config"
)

func testProvider(serverURL string) *Provider {
	p := NewProvider(config.OpenRouterConfig{
		APIKey:   "test-key",
		Model:    "openai/gpt-4o-mini",
		SiteURL:  "https://healprint.xyz",
		SiteName: "HealPrint AI",
	}, 5*time.Second)
	p.baseURL = serverURL
	return p
}

func TestProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "https://healprint.xyz", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "HealPrint AI", r.Header.Get("X-Title"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "openai/gpt-4o-mini", req.Model)
		require.NotEmpty(t, req.Messages)
		assert.Equal(t, "system", req.Messages[0].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "How long have you had acne?"}},
			},
		})
	}))
	defer server.Close()

	p := testProvider(server.URL)
	out, err := p.Complete(context.Background(), "instructions",
		[]completion.Message{{Role: "user", Content: "I have acne"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "How long have you had acne?", out)
}

func TestProvider_Complete_QuotaExhausted(t *testing.T) {
	for _, status := range []int{http.StatusPaymentRequired, http.StatusTooManyRequests} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", status)
		}))

		p := testProvider(server.URL)
		_, err := p.Complete(context.Background(), "i", nil, "")
		assert.ErrorIs(t, err, completion.ErrQuotaExhausted, "status %d", status)

		server.Close()
	}
}

func TestProvider_Complete_Unauthorized(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad key", status)
		}))

		p := testProvider(server.URL)
		_, err := p.Complete(context.Background(), "i", nil, "")
		assert.ErrorIs(t, err, completion.ErrUnauthorized, "status %d", status)

		server.Close()
	}
}

func TestProvider_Complete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	p := testProvider(server.URL)
	_, err := p.Complete(context.Background(), "i", nil, "")
	assert.Error(t, err)
}

func TestProvider_IsConfigured(t *testing.T) {
	assert.True(t, testProvider("http://unused").IsConfigured())
	assert.False(t, NewProvider(config.OpenRouterConfig{}, 0).IsConfigured())
}
