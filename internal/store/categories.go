package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ListCategories returns every category with its post count, ordered by
// name.
func (s *Store) ListCategories(ctx context.Context) ([]CategoryWithCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.name, c.slug, c.created_at, c.updated_at, count(p.id)
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]CategoryWithCount, 0)
	for rows.Next() {
		var c CategoryWithCount
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt, &c.PostCount); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory returns one category by id.
func (s *Store) GetCategory(ctx context.Context, id string) (Category, error) {
	if !isValidID(id) {
		return Category{}, ErrNotFound
	}
	return s.getCategory(ctx, "id = $1", id)
}

// GetCategoryBySlug returns one category by slug.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	return s.getCategory(ctx, "slug = $1", slug)
}

func (s *Store) getCategory(ctx context.Context, cond string, args ...any) (Category, error) {
	var c Category
	err := s.pool.QueryRow(ctx,
		"SELECT id, name, slug, created_at, updated_at FROM categories WHERE "+cond, args...,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

// UpsertCategory creates a category keyed by slug, or returns the
// existing row untouched.
func (s *Store) UpsertCategory(ctx context.Context, name, slug string) (Category, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categories (id, name, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id`,
		uuid.NewString(), name, slug,
	).Scan(&id)
	if err != nil {
		return Category{}, translateError(err)
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes a category. Categories still referenced by posts
// return ErrRestricted.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if !isValidID(id) {
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ErrRestricted
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
