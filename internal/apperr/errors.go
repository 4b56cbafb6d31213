package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrRegionNotFound = errors.New("region not found")
	ErrInvalidPage    = errors.New("invalid page")
	ErrUnknownEntry   = errors.New("unknown navigation entry")
)
