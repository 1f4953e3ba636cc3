package feed

import (
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// HTTPParser fetches feeds over HTTP and parses RSS and Atom documents.
type HTTPParser struct {
	fp *gofeed.Parser
}

// NewHTTPParser creates a parser whose downloads are bounded by timeout.
// A hanging origin must not pin an ingestion request beyond it.
func NewHTTPParser(timeout time.Duration) *HTTPParser {
	fp := gofeed.NewParser()
	fp.Client = &http.Client{Timeout: timeout}
	fp.UserAgent = "pressroom/1.0"
	return &HTTPParser{fp: fp}
}

// Parse implements Parser.
func (p *HTTPParser) Parse(ctx context.Context, url string) ([]Item, error) {
	parsed, err := p.fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		items = append(items, Item{
			Title:   it.Title,
			Summary: it.Description,
			Content: it.Content,
			Link:    it.Link,
			GUID:    it.GUID,
		})
	}
	return items, nil
}
