package domain

import "errors"

// Sentinel errors for domain-level error discrimination. Services wrap these
// with %w so handlers can map failures to HTTP status codes without leaking
// store or cache details. Duplicate email, favorite pair and recommendation
// triple all surface as ErrConflict.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)
