package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-sync-framework/internal/entity"
	"github.com/MKhiriev/go-sync-framework/internal/service"
	"github.com/MKhiriev/go-sync-framework/internal/substrate"
)

var errorStatusMap = map[error]int{
	ErrInvalidPathParam:            http.StatusBadRequest,
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrPeerNotFound:        http.StatusNotFound,
	service.ErrEntityNotFound:      http.StatusNotFound,

	entity.ErrDestroyed:           http.StatusGone,
	substrate.ErrRejected:         http.StatusConflict,
	substrate.ErrPermissionDenied: http.StatusForbidden,
	substrate.ErrStoreNotFound:    http.StatusNotFound,
	substrate.ErrNotConnected:     http.StatusServiceUnavailable,
	context.DeadlineExceeded:      http.StatusGatewayTimeout,
	context.Canceled:              http.StatusServiceUnavailable,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
