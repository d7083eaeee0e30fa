package domain

import "errors"

// Error kinds from the hub-wide error taxonomy. Every facade (IO, Admin,
// Query, Config) returns one of these, wrapped with errors.Wrap-style
// context where useful, so callers can always errors.Is against them.
var (
	ErrNotFound     = errors.New("datahub: not found")
	ErrUnavailable  = errors.New("datahub: unavailable")
	ErrDuplicate    = errors.New("datahub: duplicate")
	ErrBadParameter = errors.New("datahub: bad parameter")
	ErrNoMemory     = errors.New("datahub: no memory")
	ErrOverflow     = errors.New("datahub: overflow")
	ErrInProgress   = errors.New("datahub: in progress")
	ErrNotPermitted = errors.New("datahub: not permitted")
	ErrFormatError  = errors.New("datahub: format error")
	ErrFault        = errors.New("datahub: fault")
)
