package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	// ErrMatchLocked means the match is in a terminal state and the caller's
	// role is not privileged enough to mutate it.
	ErrMatchLocked           = errors.New("match is locked")
	ErrInvalidTransition     = errors.New("invalid match transition")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
