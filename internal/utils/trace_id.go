package utils

import (
	"regexp"

	"github.com/google/uuid"
)

const maxTraceIDLength = 128

var traceIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]+$`)

// NewTraceID returns a time ordered v7 UUID, or a v4 one when the v7 source
// fails.
func NewTraceID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}

// ValidTraceID reports whether an inbound trace id is safe to echo back and
// to put into log lines.
func ValidTraceID(id string) bool {
	return len(id) <= maxTraceIDLength && traceIDPattern.MatchString(id)
}
