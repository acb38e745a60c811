package cli

import "errors"

var (
	ErrInvalidOutput = errors.New("invalid output format")
	ErrUnknownKind   = errors.New("unknown event kind")
)
