// Package seed loads the embedded development fixtures into the store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/pressroom/internal/store"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type fixtures struct {
	Categories []categoryFixture `yaml:"categories"`
	Authors    []authorFixture   `yaml:"authors"`
	Posts      []postFixture     `yaml:"posts"`
}

type categoryFixture struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type authorFixture struct {
	Name      string  `yaml:"name"`
	Email     string  `yaml:"email"`
	Bio       *string `yaml:"bio"`
	AvatarURL *string `yaml:"avatarUrl"`
}

// postFixture references its author by email and category by slug since
// identifiers are generated at insert time.
type postFixture struct {
	Title     string  `yaml:"title"`
	Slug      string  `yaml:"slug"`
	Excerpt   *string `yaml:"excerpt"`
	Content   string  `yaml:"content"`
	Published bool    `yaml:"published"`
	Author    string  `yaml:"author"`
	Category  string  `yaml:"category"`
}

// Load upserts the fixture set. Running it repeatedly is safe: categories
// and authors are keyed by slug and email, posts by slug.
func Load(ctx context.Context, st *store.Store, log *slog.Logger) error {
	var fx fixtures
	if err := yaml.Unmarshal(fixturesYAML, &fx); err != nil {
		return fmt.Errorf("seed: parse fixtures: %w", err)
	}

	categoryIDs := make(map[string]string, len(fx.Categories))
	for _, c := range fx.Categories {
		created, err := st.UpsertCategory(ctx, c.Name, c.Slug)
		if err != nil {
			return fmt.Errorf("seed: category %q: %w", c.Slug, err)
		}
		categoryIDs[c.Slug] = created.ID
	}

	authorIDs := make(map[string]string, len(fx.Authors))
	for _, a := range fx.Authors {
		created, err := st.UpsertAuthor(ctx, a.Name, a.Email, a.Bio, a.AvatarURL)
		if err != nil {
			return fmt.Errorf("seed: author %q: %w", a.Email, err)
		}
		authorIDs[a.Email] = created.ID
	}

	for _, p := range fx.Posts {
		authorID, ok := authorIDs[p.Author]
		if !ok {
			return fmt.Errorf("seed: post %q references unknown author %q", p.Slug, p.Author)
		}
		categoryID, ok := categoryIDs[p.Category]
		if !ok {
			return fmt.Errorf("seed: post %q references unknown category %q", p.Slug, p.Category)
		}

		if _, err := st.Upsert(ctx, store.UpsertPostParams{
			Title:      p.Title,
			Slug:       p.Slug,
			Excerpt:    p.Excerpt,
			Content:    p.Content,
			Published:  p.Published,
			AuthorID:   authorID,
			CategoryID: categoryID,
		}); err != nil {
			return fmt.Errorf("seed: post %q: %w", p.Slug, err)
		}
	}

	log.InfoContext(ctx, "seed completed",
		slog.Int("categories", len(fx.Categories)),
		slog.Int("authors", len(fx.Authors)),
		slog.Int("posts", len(fx.Posts)),
	)
	return nil
}
