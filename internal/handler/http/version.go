package http

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/utils"
)

// getServerVersion answers with the bare version string unless the client
// asks for JSON, in which case it gets the full [models.AppInfo].
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		info := h.services.AppInfoService.GetAppInfo(r.Context())
		if _, err := utils.WriteJSON(w, info, http.StatusOK); err != nil {
			logger.FromRequest(r).Err(err).Str("func", "*Handler.getServerVersion").Msg("error writing app info")
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(h.services.AppInfoService.GetAppVersion(r.Context())))
}

func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if mediaType == "application/json" {
			return true
		}
	}
	return false
}
