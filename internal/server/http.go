package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/inkhouse/backend/internal/adapters/rest"
	"github.com/inkhouse/backend/internal/adapters/rest/middleware"
	"github.com/inkhouse/backend/internal/platform/logger"
)

// NewHTTPServer creates and configures the HTTP server with all routes
func NewHTTPServer(
	config Config,
	contentHandler *rest.ContentHandler,
	feedsHandler *rest.FeedsHandler,
	healthHandler *rest.HealthHandler,
	log logger.Logger,
) *http.Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(log))

	// Health probes stay outside the API prefix for orchestrators.
	r.Get("/healthz", healthHandler.GetLiveness)
	r.Get("/readyz", healthHandler.GetReadiness)

	// Syndication endpoints live at the root, where crawlers expect them.
	r.Get("/feed.xml", feedsHandler.GetRss)
	r.Get("/sitemap.xml", feedsHandler.GetSitemap)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/posts", contentHandler.ListPosts)
		r.Get("/posts/search", contentHandler.SearchPosts)
		r.Get("/posts/slug/{slug}", contentHandler.GetPostBySlug)
		r.Get("/posts/{id}", contentHandler.GetPost)
		r.Post("/posts", contentHandler.CreatePost)
		r.Put("/posts/{id}", contentHandler.UpdatePost)
		r.Delete("/posts/{id}", contentHandler.DeletePost)

		r.Get("/categories", contentHandler.ListCategories)
		r.Get("/tags", contentHandler.ListTags)
	})

	return &http.Server{
		Addr:         config.ServerAddress,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
