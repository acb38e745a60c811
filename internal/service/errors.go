package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrPeerNotFound   = errors.New("peer not found")
	ErrEntityNotFound = errors.New("entity not found")
	ErrNoPeersHosted  = errors.New("no peers are hosted")
)
