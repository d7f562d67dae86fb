package api

import (
	"net/http"

	"github.com/alexgrant/todo-api/internal/api/handlers"
	"github.com/alexgrant/todo-api/internal/api/middleware"
	"github.com/alexgrant/todo-api/internal/cache"
	"github.com/alexgrant/todo-api/internal/config"
	"github.com/alexgrant/todo-api/internal/service"
	"github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func NewRouter(services *service.Services, db *gorm.DB, cacheClient *cache.Cache, cfg *config.Config, log *logrus.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(logger.Logger("router", log))
	r.Use(middleware.SecureHeaders(!cfg.IsProduction()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	apiLimiter, err := middleware.RateLimit(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	authLimiter, err := middleware.RateLimit(cfg.AuthRateLimit)
	if err != nil {
		return nil, err
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cacheClient, cfg)
	authHandler := handlers.NewAuthHandler(services.Auth, cfg)
	todoHandler := handlers.NewTodoHandler(services.Todo)

	// Health endpoints stay outside rate limiting
	r.Get("/", healthHandler.Check)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Check)
		r.Get("/ready", healthHandler.Ready)
		r.Get("/live", healthHandler.Live)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiLimiter)

		r.Route("/auth", func(r chi.Router) {
			// Stricter limiter on credential endpoints
			r.With(authLimiter).Post("/signup", authHandler.Signup)
			r.With(authLimiter).Post("/login", authHandler.Login)
			r.With(authLimiter).Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/profile", authHandler.Profile)
			})
		})

		r.Route("/todo", func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Post("/", todoHandler.Create)
			r.Get("/", todoHandler.List)
			r.Get("/stats", todoHandler.Stats)
			r.Get("/{todoID}", todoHandler.Get)
			r.Put("/{todoID}", todoHandler.Update)
			r.Delete("/{todoID}", todoHandler.Delete)
			r.Patch("/{todoID}/archive", todoHandler.ToggleArchive)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.NotFound(w)
	})

	return r, nil
}
