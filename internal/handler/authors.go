package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/pressroom/internal/httpx"
	"github.com/dmitrymomot/pressroom/internal/store"
)

func (h *Handler) listAuthors(w http.ResponseWriter, r *http.Request) error {
	authors, err := h.store.ListAuthors(r.Context())
	if err != nil {
		return err
	}

	httpx.JSON(w, http.StatusOK, authors)
	return nil
}

func (h *Handler) listAuthorPosts(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "id")

	author, err := h.store.GetAuthor(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return httpx.ErrNotFound("Author not found")
	}
	if err != nil {
		return err
	}

	page, limit := pagination(r)
	posts, total, err := h.store.List(r.Context(), store.ListFilter{
		Page:     page,
		Limit:    limit,
		AuthorID: id,
	})
	if err != nil {
		return err
	}

	httpx.JSON(w, http.StatusOK, struct {
		listResponse
		Author store.Author `json:"author"`
	}{
		listResponse: listResponse{Data: posts, Meta: httpx.NewMeta(page, limit, total)},
		Author:       author,
	})
	return nil
}

func (h *Handler) deleteAuthor(w http.ResponseWriter, r *http.Request) error {
	err := h.store.DeleteAuthor(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return httpx.ErrNotFound("Author not found")
	case errors.Is(err, store.ErrRestricted):
		return httpx.ErrConflict("author still has posts")
	case err != nil:
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
