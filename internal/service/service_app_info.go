package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-sync-framework/internal/config"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/models"
)

type appInfoService struct {
	info models.AppInfo

	logger *logger.Logger
}

// NewAppInfoService reports the configured version and the number of hosted
// peers. The start time is taken when the service is built.
func NewAppInfoService(cfg config.App, peers int, logger *logger.Logger) (AppInfoService, error) {
	if cfg.Version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		info: models.AppInfo{
			Version:   cfg.Version,
			StartedAt: time.Now().UTC(),
			Peers:     peers,
		},
		logger: logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(context.Context) string {
	return s.info.Version
}

func (s *appInfoService) GetAppInfo(context.Context) models.AppInfo {
	return s.info
}
