// Package handler maps the REST surface onto the store and the feed
// ingestion service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/pressroom/internal/feed"
	"github.com/dmitrymomot/pressroom/internal/httpx"
	"github.com/dmitrymomot/pressroom/internal/middleware"
	"github.com/dmitrymomot/pressroom/internal/store"
	"github.com/dmitrymomot/pressroom/pkg/health"
)

// Storage is the store surface the handlers consume. *store.Store
// implements it; tests substitute an in-memory fake.
type Storage interface {
	List(ctx context.Context, f store.ListFilter) ([]store.Post, int, error)
	ListAll(ctx context.Context) ([]store.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (store.Post, error)
	Create(ctx context.Context, params store.CreatePostParams) (store.Post, error)
	Update(ctx context.Context, id string, params store.UpdatePostParams) (store.Post, error)
	Delete(ctx context.Context, id string) error
	Upsert(ctx context.Context, params store.UpsertPostParams) (store.Post, error)
	ListCategories(ctx context.Context) ([]store.CategoryWithCount, error)
	GetCategoryBySlug(ctx context.Context, slug string) (store.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListAuthors(ctx context.Context) ([]store.AuthorWithCount, error)
	GetAuthor(ctx context.Context, id string) (store.Author, error)
	DeleteAuthor(ctx context.Context, id string) error
}

// Ingestor runs the feed ingestion batch.
type Ingestor interface {
	Ingest(ctx context.Context, feedURLs []string, authorID, categoryID string) (feed.Result, error)
}

// Handler bundles the dependencies shared by all routes.
type Handler struct {
	store Storage
	feeds Ingestor
	log   *slog.Logger
}

// Config tunes the middleware stack.
type Config struct {
	CORSAllowOrigins []string
	RequestTimeout   time.Duration
}

// New creates the handler set.
func New(st Storage, feeds Ingestor, log *slog.Logger) *Handler {
	return &Handler{store: st, feeds: feeds, log: log}
}

// Router builds the full route tree with the middleware stack applied.
func (h *Handler) Router(cfg Config, checks health.Checks) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(h.log))
	r.Use(middleware.CORS(cfg.CORSAllowOrigins))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.ReadinessHandler(checks, health.WithLogger(h.log)))

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", h.wrap(h.listPosts))
			r.Post("/", h.wrap(h.createPost))
			// Fixed segments stay ahead of the slug wildcard, matching
			// the route precedence the client depends on.
			r.Get("/export", h.wrap(h.exportPosts))
			r.Post("/import", h.wrap(h.importPosts))
			r.Post("/fetch-feeds", h.wrap(h.fetchFeeds))
			r.Get("/{slug}", h.wrap(h.getPost))
			r.Put("/{id}", h.wrap(h.updatePost))
			r.Delete("/{id}", h.wrap(h.deletePost))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.wrap(h.listCategories))
			r.Get("/{slug}/posts", h.wrap(h.listCategoryPosts))
			r.Delete("/{id}", h.wrap(h.deleteCategory))
		})

		r.Route("/authors", func(r chi.Router) {
			r.Get("/", h.wrap(h.listAuthors))
			r.Get("/{id}/posts", h.wrap(h.listAuthorPosts))
			r.Delete("/{id}", h.wrap(h.deleteAuthor))
		})
	})

	return r
}

func (h *Handler) wrap(fn httpx.HandlerFunc) http.HandlerFunc {
	return httpx.Wrap(h.log, fn)
}

// pagination reads and clamps the page/limit query parameters.
func pagination(r *http.Request) (page, limit int) {
	page = max(1, httpx.QueryInt(r, "page", 1))
	limit = min(20, max(1, httpx.QueryInt(r, "limit", 10)))
	return page, limit
}
