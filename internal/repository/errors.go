package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate key")
	// ErrTagLimit is returned when an article would exceed its tag allowance
	ErrTagLimit = errors.New("article tag limit exceeded")
	// ErrSelfFollow is returned when a follow edge points back at its follower
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrReference is returned when a foreign key target is missing
	ErrReference = errors.New("referenced row does not exist")
)

// PostgreSQL error codes we translate
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// translate maps driver errors onto the package's sentinel errors
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case pqUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	case pqForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrReference, pqErr.Constraint)
	case pqCheckViolation:
		switch pqErr.Constraint {
		case "article_tags_max_three":
			return ErrTagLimit
		case "followers_no_self_follow":
			return ErrSelfFollow
		}
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
