package handler

import (
	"net/http"

	"github.com/healprint/chat-service/internal/api/response"
	"github.com/healprint/chat-service/internal/completion"
	"github.com/healprint/chat-service/internal/repository/mongo"
	"github.com/healprint/chat-service/internal/repository/redis"
)

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including store and cache connectivity.
// A disabled or unreachable cache does not fail readiness; the service runs
// degraded without it.
func ReadyCheck(client *mongo.Client, cache *redis.ConversationCache, providers *completion.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := client.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "document store not ready")
			return
		}

		response.OK(w, map[string]any{
			"status":        "ready",
			"cache_enabled": cache.Enabled(),
			"providers":     providers.ListProviders(),
		})
	}
}
