package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ListAuthors returns every author with its post count, ordered by name.
func (s *Store) ListAuthors(ctx context.Context) ([]AuthorWithCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.name, a.email, a.bio, a.avatar_url, a.created_at, a.updated_at,
		       count(p.id)
		FROM authors a
		LEFT JOIN posts p ON p.author_id = a.id
		GROUP BY a.id
		ORDER BY a.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := make([]AuthorWithCount, 0)
	for rows.Next() {
		var a AuthorWithCount
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Bio, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt, &a.PostCount); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// GetAuthor returns one author by id.
func (s *Store) GetAuthor(ctx context.Context, id string) (Author, error) {
	if !isValidID(id) {
		return Author{}, ErrNotFound
	}

	var a Author
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, bio, avatar_url, created_at, updated_at
		FROM authors WHERE id = $1`, id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Bio, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Author{}, ErrNotFound
	}
	if err != nil {
		return Author{}, err
	}
	return a, nil
}

// UpsertAuthor creates an author keyed by email, or returns the existing
// row untouched. Seeding relies on this being idempotent.
func (s *Store) UpsertAuthor(ctx context.Context, name, email string, bio, avatarURL *string) (Author, error) {
	var id string
	err := s.pool.QueryRow(ctx, `
		INSERT INTO authors (id, name, email, bio, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id`,
		uuid.NewString(), name, email, bio, avatarURL,
	).Scan(&id)
	if err != nil {
		return Author{}, translateError(err)
	}
	return s.GetAuthor(ctx, id)
}

// DeleteAuthor removes an author. Authors still referenced by posts are
// protected by the schema; such deletes return ErrRestricted.
func (s *Store) DeleteAuthor(ctx context.Context, id string) error {
	if !isValidID(id) {
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, "DELETE FROM authors WHERE id = $1", id)
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
