package http

import (
	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/service"
	"github.com/MKhiriev/go-sync-framework/internal/utils"
)

type Handler struct {
	services *service.Services
	upgrader websocket.Upgrader
	newID    func() string

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		newID:  utils.NewTraceID,
		logger: logger,
	}
}
