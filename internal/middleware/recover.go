package middleware

import (
	"log/slog"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/pressroom/internal/httpx"
)

// stackSize caps the captured stack trace.
const stackSize = 4096

// Recover converts panics into a generic 500 response and logs the panic
// value with a truncated stack trace.
func Recover(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := make([]byte, stackSize)
					stack = stack[:runtime.Stack(stack, false)]

					log.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(stack)),
					)
					httpx.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
