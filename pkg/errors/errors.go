package errors

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal server error")
	ErrDuplicate    = errors.New("resource already exists")
	ErrValidation   = errors.New("validation failed")

	// Intake pipeline errors
	ErrDecode           = errors.New("image bytes could not be decoded")
	ErrModelUnavailable = errors.New("classifier artifact unavailable")
	ErrStoreUnavailable = errors.New("report store unavailable")
)
