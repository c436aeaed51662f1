package services

import "errors"

// Outcome of every scoped fetch is tagged with one of these sentinels so
// handlers can translate with errors.Is instead of matching strings.
// "Not found" covers absent rows and soft-deleted tasks alike; "forbidden"
// means the row exists but belongs to somebody else.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmailTaken      = errors.New("email already registered")
)
