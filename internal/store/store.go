// Package store persists posts, authors, and categories in PostgreSQL.
//
// All queries run against a pgx connection pool. Unique and foreign key
// violations are translated to sentinel errors (ErrDuplicateSlug,
// ErrInvalidReference, ErrRestricted) so callers map them to HTTP
// semantics without touching SQLSTATE codes.
package store

import (
	"embed"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrations holds the goose migration files applied at startup.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Store is the single handle to the relational schema. It is safe for
// concurrent use; each method runs one query sequence to completion.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store over an established pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// isValidID reports whether id parses as a UUID. Ids arrive as free text
// from URLs and request bodies; the id columns are uuid, so a malformed
// value can match no row and is answered without a round trip instead of
// failing inside the driver's codec.
func isValidID(id string) bool {
	return uuid.Validate(id) == nil
}

// postColumns is the select list shared by every post read, joining the
// author and category rows the API embeds in each post.
const postColumns = `
	p.id, p.title, p.slug, p.excerpt, p.content, p.cover_image, p.published,
	p.author_id, p.category_id, p.created_at, p.updated_at,
	a.id, a.name, a.email, a.bio, a.avatar_url, a.created_at, a.updated_at,
	c.id, c.name, c.slug, c.created_at, c.updated_at`

const postFrom = `
	FROM posts p
	JOIN authors a ON a.id = p.author_id
	JOIN categories c ON c.id = p.category_id`

// scanPost scans one joined post row.
func scanPost(row interface{ Scan(dest ...any) error }) (Post, error) {
	var (
		p Post
		a Author
		c Category
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.CoverImage, &p.Published,
		&p.AuthorID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		&a.ID, &a.Name, &a.Email, &a.Bio, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt,
		&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return Post{}, err
	}
	p.Author = &a
	p.Category = &c
	return p, nil
}
