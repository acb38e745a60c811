// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-sync-framework/internal/async"
	"github.com/MKhiriev/go-sync-framework/internal/entity"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/realtime"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
	"github.com/MKhiriev/go-sync-framework/internal/session"
	"github.com/MKhiriev/go-sync-framework/models"
)

// HostedPeer is one simulated peer: its loop and the loop-owned framework
// objects. Session and Entities may only be touched on Loop.
type HostedPeer struct {
	// ID is the connection id the peer was configured with.
	ID       string
	Loop     *scheduler.Loop
	Session  *session.Controller
	Entities *entity.Registry
}

type peerService struct {
	peers  []HostedPeer
	logger *logger.Logger
}

func NewPeerService(peers []HostedPeer, logger *logger.Logger) (PeerService, error) {
	if len(peers) == 0 {
		return nil, ErrNoPeersHosted
	}
	return &peerService{peers: peers, logger: logger}, nil
}

func (s *peerService) peer(peerID string) (HostedPeer, error) {
	for _, p := range s.peers {
		if p.ID == peerID {
			return p, nil
		}
	}
	return HostedPeer{}, fmt.Errorf("%w: %q", ErrPeerNotFound, peerID)
}

func (s *peerService) Peers(ctx context.Context) ([]models.PeerInfo, error) {
	infos := make([]models.PeerInfo, 0, len(s.peers))
	for _, p := range s.peers {
		var info models.PeerInfo
		err := p.Loop.Call(ctx, func() {
			user, ok := p.Session.LocalUserInfo()
			if !ok {
				user = models.UserInfo{ConnectionID: p.ID}
			}
			info = models.PeerInfo{
				User:     user,
				State:    p.Session.State().String(),
				Ready:    p.Session.IsReady(),
				Entities: p.Entities.Len(),
			}
		})
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *peerService) Entities(ctx context.Context, peerID string) ([]models.EntityInfo, error) {
	p, err := s.peer(peerID)
	if err != nil {
		return nil, err
	}

	infos := make([]models.EntityInfo, 0)
	err = p.Loop.Call(ctx, func() {
		for _, e := range p.Entities.Entities() {
			infos = append(infos, e.Describe())
		}
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

func (s *peerService) Entity(ctx context.Context, peerID, networkID string) (models.EntityInfo, error) {
	p, err := s.peer(peerID)
	if err != nil {
		return models.EntityInfo{}, err
	}

	var info models.EntityInfo
	found := false
	err = p.Loop.Call(ctx, func() {
		if e, ok := p.Entities.FindByID(networkID); ok {
			info, found = e.Describe(), true
		}
	})
	if err != nil {
		return models.EntityInfo{}, err
	}
	if !found {
		return models.EntityInfo{}, fmt.Errorf("%w: %q", ErrEntityNotFound, networkID)
	}
	return info, nil
}

// ToggleOwnership revokes ownership when the peer owns the entity's store and
// claims it otherwise. It waits until the request settles or ctx expires.
func (s *peerService) ToggleOwnership(ctx context.Context, peerID, networkID string) (models.EntityInfo, error) {
	log := logger.FromContext(ctx)

	p, err := s.peer(peerID)
	if err != nil {
		return models.EntityInfo{}, err
	}

	var op *async.Op[*realtime.Store]
	claim := false
	err = p.Loop.Call(ctx, func() {
		e, ok := p.Entities.FindByID(networkID)
		if !ok {
			return
		}
		if e.DoIOwnStore() {
			op = e.TryRevokeOwnership()
		} else {
			claim = true
			op = e.TryClaimOwnership()
		}
	})
	if err != nil {
		return models.EntityInfo{}, err
	}
	if op == nil {
		return models.EntityInfo{}, fmt.Errorf("%w: %q", ErrEntityNotFound, networkID)
	}

	if _, err = op.Wait(ctx); err != nil {
		log.Err(err).
			Str("func", "peerService.ToggleOwnership").
			Str("peer", peerID).
			Str("network_id", networkID).
			Bool("claim", claim).
			Msg("ownership request failed")
		return models.EntityInfo{}, err
	}

	return s.Entity(ctx, peerID, networkID)
}

func (s *peerService) Users(ctx context.Context, peerID string) ([]models.UserInfo, error) {
	p, err := s.peer(peerID)
	if err != nil {
		return nil, err
	}

	var users []models.UserInfo
	err = p.Loop.Call(ctx, func() {
		users = p.Session.Users()
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
