package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-framework/internal/config"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/service"
)

func TestNewHandlers(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, config.Server{HTTPAddress: ":8080"}, logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, h.HTTP)
}

func TestNewHandlers_Headless(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, config.Server{}, logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, h.HTTP)
}

func TestNewHandlers_NoServices(t *testing.T) {
	h, err := NewHandlers(nil, config.Server{HTTPAddress: ":8080"}, logger.Nop())
	assert.Nil(t, h)
	assert.ErrorIs(t, err, errNoServices)
}
