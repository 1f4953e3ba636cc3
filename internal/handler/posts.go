package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/pressroom/internal/feed"
	"github.com/dmitrymomot/pressroom/internal/httpx"
	"github.com/dmitrymomot/pressroom/internal/render"
	"github.com/dmitrymomot/pressroom/internal/store"
)

// listResponse is the paginated envelope shared by every listing route.
type listResponse struct {
	Data []store.Post `json:"data"`
	Meta httpx.Meta   `json:"meta"`
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) error {
	page, limit := pagination(r)
	filter := store.ListFilter{
		Page:         page,
		Limit:        limit,
		CategorySlug: r.URL.Query().Get("category"),
		AuthorID:     r.URL.Query().Get("author"),
		All:          r.URL.Query().Get("all") == "true",
	}

	posts, total, err := h.store.List(r.Context(), filter)
	if err != nil {
		return err
	}

	httpx.JSON(w, http.StatusOK, listResponse{
		Data: posts,
		Meta: httpx.NewMeta(page, limit, total),
	})
	return nil
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) error {
	post, err := h.store.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, store.ErrNotFound) {
		return httpx.ErrNotFound("Post not found")
	}
	if err != nil {
		return err
	}

	if r.URL.Query().Get("render") == "true" {
		contentHTML, err := render.Markdown(post.Content)
		if err != nil {
			return err
		}
		httpx.JSON(w, http.StatusOK, struct {
			store.Post
			ContentHTML string `json:"contentHtml"`
		}{Post: post, ContentHTML: contentHTML})
		return nil
	}

	httpx.JSON(w, http.StatusOK, post)
	return nil
}

type createPostRequest struct {
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	Excerpt    *string `json:"excerpt"`
	Content    string  `json:"content"`
	CoverImage *string `json:"coverImage"`
	Published  *bool   `json:"published"`
	AuthorID   string  `json:"authorId"`
	CategoryID string  `json:"categoryId"`
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) error {
	var req createPostRequest
	if err := httpx.Decode(r, &req); err != nil {
		return err
	}
	if req.Title == "" || req.Slug == "" || req.Content == "" || req.AuthorID == "" || req.CategoryID == "" {
		return httpx.ErrBadRequest("title, slug, content, authorId, categoryId are required")
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	post, err := h.store.Create(r.Context(), store.CreatePostParams{
		Title:      req.Title,
		Slug:       req.Slug,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Published:  published,
		AuthorID:   req.AuthorID,
		CategoryID: req.CategoryID,
	})
	switch {
	case errors.Is(err, store.ErrDuplicateSlug):
		return httpx.ErrConflict("slug already in use")
	case errors.Is(err, store.ErrInvalidReference):
		return httpx.ErrBadRequest("invalid authorId or categoryId")
	case err != nil:
		return err
	}

	httpx.JSON(w, http.StatusCreated, post)
	return nil
}

type updatePostRequest struct {
	Title      *string `json:"title"`
	Slug       *string `json:"slug"`
	Excerpt    *string `json:"excerpt"`
	Content    *string `json:"content"`
	CoverImage *string `json:"coverImage"`
	Published  *bool   `json:"published"`
	AuthorID   *string `json:"authorId"`
	CategoryID *string `json:"categoryId"`
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) error {
	var req updatePostRequest
	if err := httpx.Decode(r, &req); err != nil {
		return err
	}

	post, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), store.UpdatePostParams{
		Title:      req.Title,
		Slug:       req.Slug,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Published:  req.Published,
		AuthorID:   req.AuthorID,
		CategoryID: req.CategoryID,
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return httpx.ErrNotFound("Post not found")
	case errors.Is(err, store.ErrDuplicateSlug):
		return httpx.ErrConflict("slug already in use")
	case errors.Is(err, store.ErrInvalidReference):
		return httpx.ErrBadRequest("invalid authorId or categoryId")
	case err != nil:
		return err
	}

	httpx.JSON(w, http.StatusOK, post)
	return nil
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) error {
	err := h.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		return httpx.ErrNotFound("Post not found")
	}
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

type exportResponse struct {
	ExportedAt time.Time    `json:"exportedAt"`
	Posts      []store.Post `json:"posts"`
}

func (h *Handler) exportPosts(w http.ResponseWriter, r *http.Request) error {
	posts, err := h.store.ListAll(r.Context())
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []store.Post{}
	}

	w.Header().Set("Content-Disposition", `attachment; filename="blog-export.json"`)
	httpx.JSON(w, http.StatusOK, exportResponse{
		ExportedAt: time.Now().UTC(),
		Posts:      posts,
	})
	return nil
}

type importPost struct {
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	Excerpt    *string `json:"excerpt"`
	Content    string  `json:"content"`
	Published  *bool   `json:"published"`
	AuthorID   string  `json:"authorId"`
	CategoryID string  `json:"categoryId"`
}

type importRequest struct {
	Posts []importPost `json:"posts"`
}

func (h *Handler) importPosts(w http.ResponseWriter, r *http.Request) error {
	var req importRequest
	if err := httpx.Decode(r, &req); err != nil {
		return err
	}
	if len(req.Posts) == 0 {
		return httpx.ErrBadRequest("body must include a 'posts' array with at least one item")
	}

	imported := make([]store.Post, 0, len(req.Posts))
	for _, p := range req.Posts {
		// Items missing required fields are skipped, not fatal: imports
		// are best-effort over user-assembled files.
		if p.Title == "" || p.Slug == "" || p.Content == "" || p.AuthorID == "" || p.CategoryID == "" {
			continue
		}

		published := true
		if p.Published != nil {
			published = *p.Published
		}

		post, err := h.store.Upsert(r.Context(), store.UpsertPostParams{
			Title:      p.Title,
			Slug:       p.Slug,
			Excerpt:    p.Excerpt,
			Content:    p.Content,
			Published:  published,
			AuthorID:   p.AuthorID,
			CategoryID: p.CategoryID,
		})
		if errors.Is(err, store.ErrInvalidReference) {
			return httpx.ErrBadRequest("invalid authorId or categoryId")
		}
		if err != nil {
			return err
		}
		imported = append(imported, post)
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"imported": len(imported),
		"data":     imported,
	})
	return nil
}

type fetchFeedsRequest struct {
	FeedURLs   []string `json:"feedUrls"`
	AuthorID   string   `json:"authorId"`
	CategoryID string   `json:"categoryId"`
}

func (h *Handler) fetchFeeds(w http.ResponseWriter, r *http.Request) error {
	var req fetchFeedsRequest
	if err := httpx.Decode(r, &req); err != nil {
		return err
	}
	if len(req.FeedURLs) == 0 || req.AuthorID == "" || req.CategoryID == "" {
		return httpx.ErrBadRequest("feedUrls, authorId and categoryId are required")
	}

	result, err := h.feeds.Ingest(r.Context(), req.FeedURLs, req.AuthorID, req.CategoryID)
	switch {
	case errors.Is(err, feed.ErrNoFeedURLs):
		return httpx.ErrBadRequest("feedUrls, authorId and categoryId are required")
	case errors.Is(err, feed.ErrUnknownAuthor), errors.Is(err, feed.ErrUnknownCategory):
		return httpx.ErrBadRequest("invalid authorId or categoryId")
	case err != nil:
		return err
	}

	httpx.JSON(w, http.StatusOK, result)
	return nil
}
