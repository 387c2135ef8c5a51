package service

import (
	"errors"

	"github.com/notepath-api/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrConflict           = errors.New("article status changed concurrently")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrDuplicate          = errors.New("already exists")
	ErrTagLimit           = errors.New("too many tags")
	ErrUnknownTag         = errors.New("unknown tag")
	ErrUnknownTopic       = errors.New("unknown topic")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrUnsupportedFormat  = errors.New("unsupported format")
)

// mapRepoError converts repository sentinels into service errors
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicate
	case errors.Is(err, repository.ErrTagLimit):
		return ErrTagLimit
	case errors.Is(err, repository.ErrSelfFollow):
		return ErrSelfFollow
	case errors.Is(err, repository.ErrReference):
		return ErrNotFound
	}
	return err
}
