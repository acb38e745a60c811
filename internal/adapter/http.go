package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-sync-framework/internal/config"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/utils"
	"github.com/MKhiriev/go-sync-framework/models"
)

type httpDebugAdapter struct {
	client  *utils.HTTPClient
	baseURL string

	logger *logger.Logger
}

// NewHTTPDebugAdapter builds the resty backed [DebugAdapter]. The address may
// omit the scheme, in which case http is assumed.
func NewHTTPDebugAdapter(cfg config.ClientConfig, logger *logger.Logger) (DebugAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.ServerAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpDebugAdapter{
		client:  utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpDebugAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.String()), nil
}

func (h *httpDebugAdapter) Peers(ctx context.Context) ([]models.PeerInfo, error) {
	var peers []models.PeerInfo
	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&peers).
		Get("/debug/peers")
	if err != nil {
		return nil, fmt.Errorf("peers request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return peers, nil
}

func (h *httpDebugAdapter) Users(ctx context.Context, peerID string) ([]models.UserInfo, error) {
	var users []models.UserInfo
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("peer", peerID).
		SetResult(&users).
		Get("/debug/peers/{peer}/users")
	if err != nil {
		return nil, fmt.Errorf("users request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return users, nil
}

func (h *httpDebugAdapter) Entities(ctx context.Context, peerID string) ([]models.EntityInfo, error) {
	var entities []models.EntityInfo
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("peer", peerID).
		SetResult(&entities).
		Get("/debug/peers/{peer}/entities")
	if err != nil {
		return nil, fmt.Errorf("entities request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return entities, nil
}

// Entity relies on resty escaping path params, so "kitchen/door" travels
// as one segment.
func (h *httpDebugAdapter) Entity(ctx context.Context, peerID, networkID string) (models.EntityInfo, error) {
	var info models.EntityInfo
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"peer": peerID, "id": networkID}).
		SetResult(&info).
		Get("/debug/peers/{peer}/entities/{id}")
	if err != nil {
		return models.EntityInfo{}, fmt.Errorf("entity request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.EntityInfo{}, err
	}
	return info, nil
}

func (h *httpDebugAdapter) ToggleOwnership(ctx context.Context, peerID, networkID string) (models.EntityInfo, error) {
	var info models.EntityInfo
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"peer": peerID, "id": networkID}).
		SetResult(&info).
		Post("/debug/peers/{peer}/entities/{id}/ownership")
	if err != nil {
		return models.EntityInfo{}, fmt.Errorf("ownership request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.EntityInfo{}, err
	}

	h.logger.Debug().Str("peer", peerID).Str("network_id", networkID).Bool("owned", info.Owner != nil).Msg("ownership toggled")
	return info, nil
}
