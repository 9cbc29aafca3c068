// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers. The HTTP layer maps these to
// status codes in exactly one place.
var (
	// ErrNotFound indicates the requested entity, or a link in its ownership
	// chain, does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the ownership chain resolved but the caller is
	// not the owner of the containing board.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidPosition indicates a sibling position outside [0, count).
	ErrInvalidPosition = errors.New("invalid position")

	// ErrValidation indicates a field-level constraint violation (empty or
	// too-short title and the like).
	ErrValidation = errors.New("validation failed")

	// ErrOrderConflict indicates concurrent position assignment hit the
	// storage uniqueness constraint; callers may retry.
	ErrOrderConflict = errors.New("conflicting sibling order")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., username taken).
	ErrAlreadyExists = errors.New("already exists")
)
