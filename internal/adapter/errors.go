package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrGone                = errors.New("entity is destroyed")
	ErrUnavailable         = errors.New("host unavailable")
	ErrTimeout             = errors.New("host timed out")
	ErrInternalServerError = errors.New("internal server error")
)
