package http

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/utils"
)

func (h *Handler) listPeers(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	peers, err := h.services.PeerService.Peers(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.listPeers").Msg("error listing peers")
		h.writeError(w, err)
		return
	}

	utils.WriteJSON(w, peers, http.StatusOK)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	peerID, err := pathParam(r, "peer")
	if err != nil {
		h.writeError(w, err)
		return
	}

	users, err := h.services.PeerService.Users(r.Context(), peerID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listUsers").Str("peer", peerID).Msg("error listing users")
		h.writeError(w, err)
		return
	}

	utils.WriteJSON(w, users, http.StatusOK)
}

func (h *Handler) listEntities(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	peerID, err := pathParam(r, "peer")
	if err != nil {
		h.writeError(w, err)
		return
	}

	entities, err := h.services.PeerService.Entities(r.Context(), peerID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listEntities").Str("peer", peerID).Msg("error listing entities")
		h.writeError(w, err)
		return
	}

	utils.WriteJSON(w, entities, http.StatusOK)
}

func (h *Handler) getEntity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	peerID, networkID, err := entityParams(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	info, err := h.services.PeerService.Entity(r.Context(), peerID, networkID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getEntity").Str("peer", peerID).Str("network_id", networkID).Msg("error getting entity")
		h.writeError(w, err)
		return
	}

	utils.WriteJSON(w, info, http.StatusOK)
}

func (h *Handler) toggleOwnership(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	peerID, networkID, err := entityParams(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	info, err := h.services.PeerService.ToggleOwnership(r.Context(), peerID, networkID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.toggleOwnership").Str("peer", peerID).Str("network_id", networkID).Msg("error toggling ownership")
		h.writeError(w, err)
		return
	}

	log.Info().Str("peer", peerID).Str("network_id", networkID).Bool("owned", info.Owner != nil).Msg("ownership toggled")
	utils.WriteJSON(w, info, http.StatusOK)
}

// pathParam returns the unescaped value of a route parameter. Network ids
// contain slashes, so clients send them path-escaped.
func pathParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidPathParam, name, err)
	}
	if value == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrInvalidPathParam, name)
	}
	return value, nil
}

func entityParams(r *http.Request) (peerID, networkID string, err error) {
	if peerID, err = pathParam(r, "peer"); err != nil {
		return "", "", err
	}
	if networkID, err = pathParam(r, "id"); err != nil {
		return "", "", err
	}
	return peerID, networkID, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	http.Error(w, err.Error(), status)
}
