package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-framework/internal/app"
	"github.com/MKhiriev/go-sync-framework/internal/config"
	"github.com/MKhiriev/go-sync-framework/internal/handler"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/server"
	"github.com/MKhiriev/go-sync-framework/internal/service"
	"github.com/MKhiriev/go-sync-framework/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := printBuildInfo()

	log := logger.NewLogger("sync-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = build.Version
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	host, err := app.NewHost(context.Background(), *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error assembling sync host")
	}

	services, err := service.NewServices(host.HostedPeers(), host.Hub(), *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, host.Workers(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()

	if err = host.Close(); err != nil {
		log.Err(err).Msg("error closing sync host")
	}
}

func printBuildInfo() models.AppBuildInfo {
	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	fmt.Printf("Build version: %s\n", info.Version)
	fmt.Printf("Build date: %s\n", info.Date)
	fmt.Printf("Build commit: %s\n", info.Commit)
	return info
}
