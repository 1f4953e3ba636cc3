package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/pressroom/internal/httpx"
	"github.com/dmitrymomot/pressroom/internal/store"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) error {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		return err
	}

	httpx.JSON(w, http.StatusOK, categories)
	return nil
}

func (h *Handler) listCategoryPosts(w http.ResponseWriter, r *http.Request) error {
	slug := chi.URLParam(r, "slug")

	category, err := h.store.GetCategoryBySlug(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		return httpx.ErrNotFound("Category not found")
	}
	if err != nil {
		return err
	}

	page, limit := pagination(r)
	posts, total, err := h.store.List(r.Context(), store.ListFilter{
		Page:         page,
		Limit:        limit,
		CategorySlug: slug,
	})
	if err != nil {
		return err
	}

	httpx.JSON(w, http.StatusOK, struct {
		listResponse
		Category store.Category `json:"category"`
	}{
		listResponse: listResponse{Data: posts, Meta: httpx.NewMeta(page, limit, total)},
		Category:     category,
	})
	return nil
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) error {
	err := h.store.DeleteCategory(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		return httpx.ErrNotFound("Category not found")
	case errors.Is(err, store.ErrRestricted):
		return httpx.ErrConflict("category still has posts")
	case err != nil:
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
