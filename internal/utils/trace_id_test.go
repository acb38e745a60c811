package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTraceID_IsVersion7(t *testing.T) {
	id, err := uuid.Parse(NewTraceID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.NotEqual(t, NewTraceID(), NewTraceID())
}

func TestValidTraceID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"trace-123", true},
		{NewTraceID(), true},
		{"span:1.2_x", true},
		{"", false},
		{"has space", false},
		{"line\nbreak", false},
		{strings.Repeat("a", maxTraceIDLength), true},
		{strings.Repeat("a", maxTraceIDLength+1), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidTraceID(tt.id), "id %q", tt.id)
	}
}
