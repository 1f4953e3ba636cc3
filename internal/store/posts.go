package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// List returns one page of posts ordered by creation time descending,
// plus the total row count for the filter. A page past the end yields an
// empty slice, not an error.
func (s *Store) List(ctx context.Context, f ListFilter) ([]Post, int, error) {
	f = f.normalize()

	var (
		conds []string
		args  []any
	)
	if !f.All {
		conds = append(conds, "p.published = true")
	}
	if f.CategorySlug != "" {
		args = append(args, f.CategorySlug)
		conds = append(conds, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	if f.AuthorID != "" {
		if !isValidID(f.AuthorID) {
			return []Post{}, 0, nil
		}
		args = append(args, f.AuthorID)
		conds = append(conds, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := "SELECT count(*)" + postFrom + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT" + postColumns + postFrom + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := make([]Post, 0, f.Limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

// ListAll returns every post, newest first. Used by the export endpoint.
func (s *Store) ListAll(ctx context.Context) ([]Post, error) {
	rows, err := s.pool.Query(ctx, "SELECT"+postColumns+postFrom+" ORDER BY p.created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPublishedBySlug returns one published post. Drafts are invisible on
// the public detail endpoint.
func (s *Store) GetPublishedBySlug(ctx context.Context, slug string) (Post, error) {
	return s.getOne(ctx, "p.slug = $1 AND p.published = true", slug)
}

// GetBySlug returns a post regardless of its published flag. Ingestion
// and import use it to decide between update and create.
func (s *Store) GetBySlug(ctx context.Context, slug string) (Post, error) {
	return s.getOne(ctx, "p.slug = $1", slug)
}

// GetByID returns a post by its identifier.
func (s *Store) GetByID(ctx context.Context, id string) (Post, error) {
	if !isValidID(id) {
		return Post{}, ErrNotFound
	}
	return s.getOne(ctx, "p.id = $1", id)
}

func (s *Store) getOne(ctx context.Context, cond string, args ...any) (Post, error) {
	row := s.pool.QueryRow(ctx, "SELECT"+postColumns+postFrom+" WHERE "+cond, args...)
	p, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, err
	}
	return p, nil
}

// Create inserts a new post. A duplicate slug surfaces as ErrDuplicateSlug
// and an unknown author or category as ErrInvalidReference.
func (s *Store) Create(ctx context.Context, params CreatePostParams) (Post, error) {
	if !isValidID(params.AuthorID) || !isValidID(params.CategoryID) {
		return Post{}, ErrInvalidReference
	}

	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO posts (id, title, slug, excerpt, content, cover_image, published, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, params.Title, params.Slug, params.Excerpt, params.Content,
		params.CoverImage, params.Published, params.AuthorID, params.CategoryID,
	)
	if err != nil {
		return Post{}, translateError(err)
	}
	return s.GetByID(ctx, id)
}

// Update applies the provided fields to a post; nil fields stay as they
// are. updated_at always moves forward.
func (s *Store) Update(ctx context.Context, id string, params UpdatePostParams) (Post, error) {
	if !isValidID(id) {
		return Post{}, ErrNotFound
	}
	if params.AuthorID != nil && !isValidID(*params.AuthorID) {
		return Post{}, ErrInvalidReference
	}
	if params.CategoryID != nil && !isValidID(*params.CategoryID) {
		return Post{}, ErrInvalidReference
	}

	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Slug != nil {
		add("slug", *params.Slug)
	}
	if params.Excerpt != nil {
		add("excerpt", *params.Excerpt)
	}
	if params.Content != nil {
		add("content", *params.Content)
	}
	if params.CoverImage != nil {
		add("cover_image", *params.CoverImage)
	}
	if params.Published != nil {
		add("published", *params.Published)
	}
	if params.AuthorID != nil {
		add("author_id", *params.AuthorID)
	}
	if params.CategoryID != nil {
		add("category_id", *params.CategoryID)
	}

	tag, err := s.pool.Exec(ctx, "UPDATE posts SET "+strings.Join(sets, ", ")+" WHERE id = $1", args...)
	if err != nil {
		return Post{}, translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return Post{}, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Refresh overwrites the feed-owned fields of an existing post, leaving
// author, category, and the published flag untouched.
func (s *Store) Refresh(ctx context.Context, slug, title string, excerpt *string, content string, now time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE posts SET title = $2, excerpt = $3, content = $4, updated_at = $5
		WHERE slug = $1`,
		slug, title, excerpt, content, now,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a post unconditionally by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !isValidID(id) {
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Upsert creates the post or, when the slug already exists, overwrites its
// mutable fields. Import is keyed by slug, so repeated imports converge.
func (s *Store) Upsert(ctx context.Context, params UpsertPostParams) (Post, error) {
	if !isValidID(params.AuthorID) || !isValidID(params.CategoryID) {
		return Post{}, ErrInvalidReference
	}

	var id string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO posts (id, title, slug, excerpt, content, published, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			excerpt = EXCLUDED.excerpt,
			content = EXCLUDED.content,
			published = EXCLUDED.published,
			author_id = EXCLUDED.author_id,
			category_id = EXCLUDED.category_id,
			updated_at = now()
		RETURNING id`,
		uuid.NewString(), params.Title, params.Slug, params.Excerpt, params.Content,
		params.Published, params.AuthorID, params.CategoryID,
	).Scan(&id)
	if err != nil {
		return Post{}, translateError(err)
	}
	return s.GetByID(ctx, id)
}
