package session

import "errors"

var (
	ErrNoSession          = errors.New("session is not created")
	ErrNotReady           = errors.New("session controller is not ready")
	ErrAlreadyStarted     = errors.New("session controller already started")
	ErrColocationRequired = errors.New("colocated session requires a colocation provider")
)
