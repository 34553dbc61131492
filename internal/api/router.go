package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/healprint/chat-service/internal/api/handler"
	customMiddleware "github.com/healprint/chat-service/internal/api/middleware"
	"github.com/healprint/chat-service/internal/completion"
	"github.com/healprint/chat-service/internal/completion/gemini"
	"github.com/healprint/chat-service/internal/completion/openrouter"
	"github.com/healprint/chat-service/internal/config"
	"github.com/healprint/chat-service/internal/repository/mongo"
	"github.com/healprint/chat-service/internal/repository/redis"
	"github.com/healprint/chat-service/internal/security"
	"github.com/healprint/chat-service/internal/service"
)

// NewRouter creates and configures the HTTP router. redisClient may be nil,
// in which case the session cache is disabled and rate limiting is skipped.
func NewRouter(cfg *config.Config, mongoClient *mongo.Client, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.WriteTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Security
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Stores and cache
	conversationStore := mongo.NewConversationStore(mongoClient)
	userStore := mongo.NewUserStore(mongoClient)
	sessionCache := redis.NewConversationCache(redisClient, cfg.Chat.CacheTTL, cfg.Chat.CacheOpTimeout)

	// Completion providers
	providers := completion.NewRouter(cfg.Completion.DefaultProvider)

	log.Info().Msgf("Initializing completion providers. Default: %s", cfg.Completion.DefaultProvider)

	if cfg.Completion.OpenRouter.APIKey != "" {
		providers.RegisterProvider(openrouter.NewProvider(cfg.Completion.OpenRouter, cfg.Completion.Timeout))
	} else {
		log.Warn().Msg("OpenRouter API key is empty, skipping registration")
	}
	if cfg.Completion.Gemini.APIKey != "" {
		providers.RegisterProvider(gemini.NewProvider(cfg.Completion.Gemini))
	} else {
		log.Warn().Msg("Gemini API key is empty, skipping registration")
	}
	if len(providers.ListProviders()) == 0 {
		log.Warn().Msg("No completion providers configured, chat runs on keyword fallback")
	}

	// Services
	conversationService := service.NewConversationService(conversationStore, sessionCache, cfg.Chat.ListLimit)
	chatService := service.NewChatService(conversationService, providers, cfg.Chat.HistoryWindow)
	authService := service.NewAuthService(userStore, jwtManager)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	conversationHandler := handler.NewConversationHandler(conversationService)

	// Middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(mongoClient, sessionCache, providers))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			if redisClient != nil {
				rateLimiter := redis.NewRateLimiter(redisClient, cfg.Chat.RateLimitPerMin, cfg.Chat.RateLimitBurst)
				r.Use(customMiddleware.NewRateLimitMiddleware(rateLimiter).Limit)
			}

			r.Post("/chat", chatHandler.Chat)

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", conversationHandler.List)
				r.Post("/", conversationHandler.Create)

				r.Route("/{conversationID}", func(r chi.Router) {
					r.Get("/", conversationHandler.Get)
					r.Delete("/", conversationHandler.Delete)
					r.Post("/complete", conversationHandler.Complete)
					r.Post("/analysis", chatHandler.Analyze)
				})
			})
		})
	})

	return r
}
