// Package httpx carries the HTTP plumbing shared by all handlers: JSON
// encoding, request decoding, the error taxonomy, and pagination metadata.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
)

// Meta describes one page of a listing.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewMeta computes pagination metadata; totalPages is ceil(total/limit).
func NewMeta(page, limit, total int) Meta {
	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// HandlerFunc is an HTTP handler that reports failures as errors instead
// of writing them itself. Wrap converts it to http.HandlerFunc with
// uniform error rendering.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap adapts a HandlerFunc, rendering any returned error as an
// {"error": string} body. Unclassified errors become a generic 500 and
// the cause is logged, never exposed.
func Wrap(log *slog.Logger, h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var httpErr *Error
		if !errors.As(err, &httpErr) {
			httpErr = ErrInternal("internal server error", WithError(err))
		}

		if httpErr.Code >= http.StatusInternalServerError {
			log.ErrorContext(r.Context(), "request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", errors.Join(httpErr.Err, errors.New(httpErr.Message))),
			)
		}

		JSON(w, httpErr.Code, map[string]string{"error": httpErr.Message})
	}
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode reads the request body into v, rejecting malformed JSON with a
// 400-class error.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return ErrBadRequest("invalid JSON body", WithError(err))
	}
	return nil
}

// QueryInt parses an integer query parameter, falling back to def when
// absent or malformed. Listing endpoints clamp the value afterwards.
func QueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
