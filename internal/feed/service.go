package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/pressroom/internal/store"
	"github.com/dmitrymomot/pressroom/pkg/logger"
	"github.com/dmitrymomot/pressroom/pkg/sanitizer"
	"github.com/dmitrymomot/pressroom/pkg/slug"
)

var (
	ErrNoFeedURLs      = errors.New("feed: at least one feed url is required")
	ErrUnknownAuthor   = errors.New("feed: author does not exist")
	ErrUnknownCategory = errors.New("feed: category does not exist")
)

const (
	// defaultTitle stands in for entries without a title.
	defaultTitle = "Untitled"

	// maxContentLength caps stored post bodies.
	maxContentLength = 50000

	// maxExcerptLength caps the derived excerpt.
	maxExcerptLength = 300
)

// Service runs feed ingestion. Feeds are processed sequentially; a fetch
// or store failure on one feed is recorded and the batch continues.
type Service struct {
	store  Store
	parser Parser
	log    *slog.Logger
	now    func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger; the default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an ingestion service.
func New(st Store, parser Parser, opts ...Option) *Service {
	s := &Service{
		store:  st,
		parser: parser,
		log:    logger.NewNope(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest fetches every feed URL and upserts its entries as posts owned by
// the given author and category. Preconditions (non-empty URL list,
// existing author and category) fail the whole call before any feed is
// touched; after that, per-feed failures only land in Result.Errors.
//
// Writes are committed entry by entry. A run that fails partway leaves
// the already-written posts in place; re-running converges because slugs
// are deterministic.
func (s *Service) Ingest(ctx context.Context, feedURLs []string, authorID, categoryID string) (Result, error) {
	urls := make([]string, 0, len(feedURLs))
	for _, u := range feedURLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return Result{}, ErrNoFeedURLs
	}

	if _, err := s.store.GetAuthor(ctx, authorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, ErrUnknownAuthor
		}
		return Result{}, err
	}
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, ErrUnknownCategory
		}
		return Result{}, err
	}

	var result Result
	for _, url := range urls {
		added, updated, err := s.ingestFeed(ctx, url, authorID, categoryID)
		result.Added += added
		result.Updated += updated
		if err != nil {
			s.log.WarnContext(ctx, "feed ingestion failed",
				slog.String("url", url),
				slog.Any("error", err),
			)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", url, err.Error()))
			continue
		}
		s.log.InfoContext(ctx, "feed ingested",
			slog.String("url", url),
			slog.Int("added", added),
			slog.Int("updated", updated),
		)
	}

	result.Total = result.Added + result.Updated
	return result, nil
}

// ingestFeed processes one feed. The first store failure aborts the rest
// of this feed's entries; counts up to that point are kept.
func (s *Service) ingestFeed(ctx context.Context, url, authorID, categoryID string) (added, updated int, err error) {
	items, err := s.parser.Parse(ctx, url)
	if err != nil {
		return 0, 0, err
	}

	for _, item := range items {
		created, err := s.upsertItem(ctx, item, authorID, categoryID)
		if err != nil {
			return added, updated, err
		}
		if created {
			added++
		} else {
			updated++
		}
	}
	return added, updated, nil
}

func (s *Service) upsertItem(ctx context.Context, item Item, authorID, categoryID string) (created bool, err error) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = defaultTitle
	}

	// Summaries become plain text, full bodies keep safe formatting.
	content := strings.TrimSpace(sanitizer.StripTags(item.Summary))
	if content == "" {
		content = sanitizer.SanitizeHTML(item.Content)
	}
	if content == "" {
		content = item.Link
	}

	excerpt := strings.TrimSpace(truncate(sanitizer.StripTags(content), maxExcerptLength))
	content = truncate(content, maxContentLength)

	externalID := item.GUID
	if externalID == "" {
		externalID = item.Link
	}
	if externalID == "" {
		externalID = title
	}
	postSlug := slug.MakeUnique(slug.Make(title), externalID)

	_, err = s.store.GetBySlug(ctx, postSlug)
	switch {
	case err == nil:
		// Existing post: feed-owned fields are overwritten, author,
		// category, and published stay as they are.
		return false, s.store.Refresh(ctx, postSlug, title, &excerpt, content, s.now())
	case errors.Is(err, store.ErrNotFound):
		_, err = s.store.Create(ctx, store.CreatePostParams{
			Title:      title,
			Slug:       postSlug,
			Excerpt:    &excerpt,
			Content:    content,
			Published:  true,
			AuthorID:   authorID,
			CategoryID: categoryID,
		})
		return true, err
	default:
		return false, err
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
