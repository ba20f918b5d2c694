package api

import (
	"net/http"

	"github.com/dom/catalog-facade/internal/api/handlers"
	"github.com/dom/catalog-facade/internal/api/middleware"
	"github.com/dom/catalog-facade/internal/config"
	"github.com/dom/catalog-facade/internal/domain"
	"github.com/dom/catalog-facade/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "https://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	commentHandler := handlers.NewCommentHandler(services.Catalog, services.Comment, logger.Named("handlers"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/kinds", handlers.Kinds(services.Catalog))

		// One route group per served kind
		for _, policy := range services.Catalog.Policies() {
			h := handlers.NewCatalogHandler(services.Catalog, policy.Kind, logger.Named("handlers"))
			r.Route("/"+policy.Kind.Plural(), func(r chi.Router) {
				r.Get("/", h.List)
				r.Get("/search", h.Search)
				r.Get("/{id}", h.Get)
				if policy.Kind == domain.KindNews {
					r.Get("/{id}/comments", commentHandler.ForNews)
				}
				if policy.Kind == domain.KindComment && cfg.JWTSecret != "" {
					r.With(middleware.Auth(cfg.JWTSecret, logger.Named("auth"))).Post("/", commentHandler.Create)
				}
			})
		}
	})

	return r
}
