package utils

import "errors"

// Common application errors used across services. Handlers map these onto
// HTTP statuses: NOT_FOUND -> 404, VALIDATION_ERROR -> 400,
// UNAUTHORIZED -> 401/403, RATE_LIMITED -> 429, PERSISTENCE_ERROR -> 500.
var (
	ErrNotFound     = errors.New("NOT_FOUND")
	ErrValidation   = errors.New("VALIDATION_ERROR")
	ErrUnauthorized = errors.New("UNAUTHORIZED")
	ErrRateLimited  = errors.New("RATE_LIMITED")
	ErrPersistence  = errors.New("PERSISTENCE_ERROR")
)
