package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound         = errors.New("store: not found")
	ErrDuplicateSlug    = errors.New("store: slug already in use")
	ErrDuplicateEmail   = errors.New("store: email already in use")
	ErrInvalidReference = errors.New("store: referenced entity does not exist")
	ErrRestricted       = errors.New("store: entity is referenced by existing posts")
)

// Postgres error codes this store distinguishes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps low-level pgx errors onto the store's sentinel
// errors so handlers never inspect SQLSTATE codes themselves.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch {
		case pgErr.ConstraintName == "authors_email_key":
			return errors.Join(ErrDuplicateEmail, err)
		default:
			return errors.Join(ErrDuplicateSlug, err)
		}
	case pgForeignKeyViolation:
		// An insert hitting the FK means the referenced row is missing;
		// a delete hitting it means dependents still exist.
		return errors.Join(ErrInvalidReference, err)
	}
	return err
}
