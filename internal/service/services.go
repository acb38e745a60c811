package service

import (
	"github.com/MKhiriev/go-sync-framework/internal/config"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
)

type Services struct {
	AppInfoService AppInfoService
	PeerService    PeerService
	EventService   EventService
}

func NewServices(peers []HostedPeer, events EventSource, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, len(peers), logger)
	if err != nil {
		return nil, err
	}
	peerService, err := NewPeerService(peers, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AppInfoService: appInfo,
		PeerService:    peerService,
		EventService:   NewEventService(events, logger),
	}, nil
}
