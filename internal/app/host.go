// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app assembles the sync host: the in-memory substrate hub, its
// optional sqlite persistence and one simulated peer per configured
// connection id, each with its own loop, session controller, entity
// registry and relay.
//
// Everything built here is owned by the peers' loops once the workers start
// them; [Host.Close] must only run after the loops stopped.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-sync-framework/internal/config"
	"github.com/MKhiriev/go-sync-framework/internal/demo"
	"github.com/MKhiriev/go-sync-framework/internal/entity"
	"github.com/MKhiriev/go-sync-framework/internal/instantiator"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/relay"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/internal/service"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/internal/store"
	"github.com/MKhiriev/go-sync-framework/internal/substrate/memory"
	"github.com/MKhiriev/go-sync-framework/internal/workers"
	"github.com/MKhiriev/go-sync-framework/models"
)

// ColocationBuildTime is how long a simulated peer takes to build the shared
// space map.
const ColocationBuildTime = time.Second

// Peer is one simulated peer.
type Peer struct {
	ID       string
	Loop     *scheduler.Loop
	Session  *session.Controller
	Entities *entity.Registry
	Relay    *relay.Relay
	// Kitchen is nil unless the demo is enabled.
	Kitchen *demo.Kitchen
}

// Host owns the hub and the peers.
type Host struct {
	cfg     config.StructuredConfig
	hub     *memory.Hub
	db      *store.DB
	catalog *instantiator.Catalog
	peers   []*Peer
	logger  *logger.Logger
}

// Option customizes a Host.
type Option func(*hostOptions)

type hostOptions struct {
	clock scheduler.Clock
}

// WithClock replaces the system clock of the hub and every peer loop.
func WithClock(clock scheduler.Clock) Option {
	return func(o *hostOptions) { o.clock = clock }
}

// NewHost builds the hub and joins every configured peer. Persisted stores
// are restored before the first peer connects.
func NewHost(ctx context.Context, cfg config.StructuredConfig, log *logger.Logger, opts ...Option) (*Host, error) {
	o := hostOptions{clock: scheduler.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	h := &Host{cfg: cfg, logger: log}

	hubOpts := []memory.HubOption{memory.WithClock(o.clock)}
	if cfg.Storage.SQLite.DSN != "" {
		db, err := store.NewConnectSQLite(ctx, cfg.Storage.SQLite, log)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
		h.db = db
		hubOpts = append(hubOpts, memory.WithRepository(store.NewRepositories(db, log).Stores))
	}
	h.hub = memory.NewHub(log.WithComponent("hub"), hubOpts...)

	if err := h.hub.Restore(ctx); err != nil {
		_ = h.closeDB()
		return nil, err
	}

	catalog, err := loadCatalog(cfg.App)
	if err != nil {
		_ = h.closeDB()
		return nil, err
	}
	h.catalog = catalog

	for _, id := range cfg.Session.Peers {
		p, err := h.join(id, o.clock)
		if err != nil {
			_ = h.Close()
			return nil, fmt.Errorf("join peer %q: %w", id, err)
		}
		h.peers = append(h.peers, p)
	}

	log.Info().
		Int("peers", len(h.peers)).
		Bool("persistence", h.db != nil).
		Bool("demo", cfg.App.Demo).
		Msg("sync host assembled")
	return h, nil
}

func loadCatalog(cfg config.App) (*instantiator.Catalog, error) {
	switch {
	case cfg.PrefabCatalog != "":
		cat, err := instantiator.LoadCatalog(cfg.PrefabCatalog)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPrefabCatalog, err)
		}
		return cat, nil
	case cfg.Demo:
		return demo.Catalog()
	default:
		return nil, nil
	}
}

func (h *Host) join(id string, clock scheduler.Clock) (*Peer, error) {
	log := h.logger.WithPeer(id)
	loop := scheduler.NewLoop(clock, log)

	user := models.UserInfo{ConnectionID: id, UserID: id, DisplayName: id}
	mp := h.hub.NewPeer(user, loop)

	s := h.cfg.Session
	opts := session.Options{
		RequireInvite:           s.RequireInvite,
		RequireSessionStore:     s.RequireSessionStore,
		Colocated:               s.Colocated,
		SessionStoreGracePeriod: s.SessionStoreGracePeriod,
	}
	if s.Colocated {
		opts.Colocation = memory.NewColocation(mp, ColocationBuildTime)
	}

	ctrl, err := session.New(mp, loop, opts, log)
	if err != nil {
		return nil, err
	}
	if err := ctrl.Start(); err != nil {
		return nil, err
	}

	p := &Peer{
		ID:       id,
		Loop:     loop,
		Session:  ctrl,
		Entities: entity.NewRegistry(ctrl, log),
	}
	p.Relay = relay.New(ctrl, relay.Options{
		Prefabs:         h.catalog,
		Registry:        p.Entities,
		EntranceTimeout: s.EntranceTimeout,
	}, log)

	if h.cfg.App.Demo {
		p.Kitchen, err = demo.NewKitchen(p.Entities, demo.Options{
			Catalog:          h.catalog,
			Relay:            p.Relay,
			StoreGracePeriod: s.StoreGracePeriod,
			SendsPerSecond:   s.SendsPerSecond,
		})
		if err != nil {
			p.close()
			return nil, err
		}
	}
	return p, nil
}

// Hub returns the substrate hub.
func (h *Host) Hub() *memory.Hub { return h.hub }

// Peers returns the peers in configuration order.
func (h *Host) Peers() []*Peer { return h.peers }

// HostedPeers is the view handed to the debug services.
func (h *Host) HostedPeers() []service.HostedPeer {
	out := make([]service.HostedPeer, 0, len(h.peers))
	for _, p := range h.peers {
		out = append(out, service.HostedPeer{
			ID:       p.ID,
			Loop:     p.Loop,
			Session:  p.Session,
			Entities: p.Entities,
		})
	}
	return out
}

// Workers returns one loop worker per peer and, with persistence enabled,
// the worker flushing Persist-class stores. Workers stop in reverse order,
// so the final flush runs while the loops still tick.
func (h *Host) Workers() *workers.Workers {
	ws := workers.NewWorkers()
	for _, p := range h.peers {
		ws.Add(workers.NewLoopWorker(p.Loop, h.cfg.Session.FrameInterval))
	}
	if h.db != nil {
		ws.Add(workers.NewPersistWorker(h.hub, h.cfg.Workers.PersistInterval, h.logger))
	}
	return ws
}

// Close tears the peers down and closes the database. The peer loops must
// not be running.
func (h *Host) Close() error {
	for i := len(h.peers) - 1; i >= 0; i-- {
		h.peers[i].close()
	}
	h.peers = nil
	return h.closeDB()
}

func (h *Host) closeDB() error {
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	if err != nil {
		h.logger.Err(err).Str("func", "*Host.closeDB").Msg("error closing database")
		return err
	}
	return nil
}

func (p *Peer) close() {
	if p.Kitchen != nil {
		p.Kitchen.Close()
	}
	p.Relay.Close()
	p.Entities.Close()
	p.Session.Close()
}
