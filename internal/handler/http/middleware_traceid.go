package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-sync-framework/internal/utils"
)

const traceIDHeader = "X-Trace-ID"

// withTraceID reuses a well-formed inbound X-Trace-ID and mints one
// otherwise. The id is echoed in the response and attached to the request
// logger.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if !utils.ValidTraceID(traceID) {
			traceID = h.newID()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(r.Context()))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
