package models

import "errors"

var (
	ErrUnknownPersistence   = errors.New("unknown persistence class")
	ErrUnsupportedValueType = errors.New("unsupported value type")
	ErrTaggedTypeMismatch   = errors.New("tagged value type mismatch")
)
