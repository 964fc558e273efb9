package services

import "errors"

// The three domain error kinds. Handlers map them to 404, 409 and 403;
// anything else is a plain 500.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrConflict  = errors.New("business rule violation")
	ErrForbidden = errors.New("action not permitted")
)
