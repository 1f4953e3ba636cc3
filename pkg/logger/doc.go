// Package logger provides structured logging with context extraction.
//
// It builds on log/slog: New returns a JSON logger writing to stdout, and
// context extractors enrich every record with request-scoped attributes
// without explicit arguments at each call site.
//
//	log := logger.New("info", middleware.RequestIDExtractor())
//	log.InfoContext(ctx, "post created", slog.String("slug", p.Slug))
//	// {"level":"INFO","msg":"post created","slug":"...","request_id":"..."}
//
// Constructors that accept an optional logger should default to NewNope,
// which discards everything.
package logger
