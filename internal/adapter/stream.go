package adapter

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-sync-framework/models"
)

func (h *httpDebugAdapter) streamURL() (string, error) {
	u, err := url.Parse(h.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = u.Path + "/debug/stream"
	return u.String(), nil
}

func (h *httpDebugAdapter) Watch(ctx context.Context, fn func(models.StoreEvent)) error {
	target, err := h.streamURL()
	if err != nil {
		return fmt.Errorf("stream url: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("%w: dial event stream: %w", ErrUnavailable, err)
	}
	defer conn.Close()

	// unblock ReadJSON when the caller gives up
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	})
	defer stop()

	for {
		var ev models.StoreEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		fn(ev)
	}
}
