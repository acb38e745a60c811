package handler

import (
	"github.com/MKhiriev/go-sync-framework/internal/config"
	"github.com/MKhiriev/go-sync-framework/internal/handler/http"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/service"
)

// Handlers groups the transports in front of the services. HTTP is nil when
// the host runs without a debug API.
type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	if services == nil {
		return nil, errNoServices
	}

	handlers := &Handlers{}
	if cfg.HTTPAddress == "" {
		logger.Warn().Msg("no debug API address, peers run headless")
		return handlers, nil
	}

	handlers.HTTP = http.NewHandler(services, logger)
	logger.Info().Str("address", cfg.HTTPAddress).Msg("debug API handlers created")
	return handlers, nil
}
