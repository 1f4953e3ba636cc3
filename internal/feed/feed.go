// Package feed ingests RSS/Atom feeds into the post store.
//
// Every feed entry maps deterministically to a slug; ingestion updates the
// post behind that slug when it exists and creates it otherwise, so
// repeated runs over the same feeds converge instead of duplicating.
package feed

import (
	"context"
	"time"

	"github.com/dmitrymomot/pressroom/internal/store"
)

// Item is one parsed feed entry, reduced to the fields ingestion reads.
type Item struct {
	Title   string
	Summary string
	Content string
	Link    string
	GUID    string
}

// Parser fetches and parses one syndication feed.
type Parser interface {
	Parse(ctx context.Context, url string) ([]Item, error)
}

// Store is the slice of the post store ingestion depends on.
type Store interface {
	GetAuthor(ctx context.Context, id string) (store.Author, error)
	GetCategory(ctx context.Context, id string) (store.Category, error)
	GetBySlug(ctx context.Context, slug string) (store.Post, error)
	Refresh(ctx context.Context, slug, title string, excerpt *string, content string, now time.Time) error
	Create(ctx context.Context, params store.CreatePostParams) (store.Post, error)
}

// Result summarizes one ingestion run across all requested feeds.
// Errors lists per-feed failures as "<url>: <message>" and is omitted from
// JSON when every feed succeeded.
type Result struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Total   int      `json:"total"`
	Errors  []string `json:"errors,omitempty"`
}
