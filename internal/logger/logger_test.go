package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("sync-server")
	l.Logger = l.Output(&buf)

	l.Info().Msg("hello")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "sync-server", entry["role"])
	assert.Contains(t, entry, "time")
	assert.Equal(t, "func", zerolog.CallerFieldName)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestNewCLILogger_Levels(t *testing.T) {
	var quiet, verbose bytes.Buffer

	NewCLILogger("syncctl", &quiet, false).Info().Msg("hidden")
	NewCLILogger("syncctl", &verbose, true).Debug().Msg("shown")

	assert.Empty(t, quiet.String())
	assert.Contains(t, verbose.String(), "shown")
	assert.Contains(t, verbose.String(), "syncctl")
}

func TestNewCLILogger_WarnAlwaysShown(t *testing.T) {
	var buf bytes.Buffer
	NewCLILogger("syncctl", &buf, false).Warn().Msg("slow server")
	assert.Contains(t, buf.String(), "slow server")
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("should be discarded")

	assert.Empty(t, buf.String())
}

func TestChildLoggers(t *testing.T) {
	tests := []struct {
		name  string
		child func(*Logger) *Logger
		key   string
		value string
	}{
		{"child", (*Logger).GetChildLogger, "role", "parent"},
		{"peer", func(l *Logger) *Logger { return l.WithPeer("alpha") }, "peer", "alpha"},
		{"component", func(l *Logger) *Logger { return l.WithComponent("hub") }, "component", "hub"},
		{"network id", func(l *Logger) *Logger { return l.WithNetworkID("kitchen_orders") }, "network_id", "kitchen_orders"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			parent := &Logger{zerolog.New(&buf).With().Str("role", "parent").Logger()}

			child := tt.child(parent)
			require.NotSame(t, parent, child)
			child.Info().Msg("x")

			entry := decodeLine(t, &buf)
			assert.Equal(t, tt.value, entry[tt.key])
			assert.Equal(t, "parent", entry["role"])

			buf.Reset()
			parent.Info().Msg("y")
			if tt.key != "role" {
				assert.NotContains(t, decodeLine(t, &buf), tt.key)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))

	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("trace_id", "abc").Logger()

	FromContext(zl.WithContext(context.Background())).Info().Msg("from context")
	assert.Equal(t, "abc", decodeLine(t, &buf)["trace_id"])
}

func TestFromRequest(t *testing.T) {
	require.NotNil(t, FromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))

	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("trace_id", "req").Logger()
	req := httptest.NewRequest(http.MethodGet, "/debug/peers", nil)
	req = req.WithContext(zl.WithContext(req.Context()))

	FromRequest(req).Info().Msg("from request")
	assert.True(t, strings.Contains(buf.String(), `"trace_id":"req"`))
}
