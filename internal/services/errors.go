package services

import "errors"

// Sentinel errors forming the service-level failure taxonomy. Handlers map
// these to HTTP statuses with errors.Is; raw store errors never cross the
// API boundary.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid input")
)
