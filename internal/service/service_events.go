package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/models"
)

const subscriberBuffer = 256

type eventService struct {
	source EventSource
	logger *logger.Logger
}

func NewEventService(source EventSource, logger *logger.Logger) EventService {
	return &eventService{source: source, logger: logger}
}

func (s *eventService) Subscribe(ctx context.Context) <-chan models.StoreEvent {
	out := make(chan models.StoreEvent, subscriberBuffer)

	var mu sync.Mutex
	closed := false
	sub := s.source.OnEvent(func(ev models.StoreEvent) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case out <- ev:
		default:
			s.logger.Warn().Str("kind", string(ev.Kind)).Msg("event stream subscriber is behind, dropping event")
		}
	})

	go func() {
		<-ctx.Done()
		sub.Unsubscribe()
		mu.Lock()
		closed = true
		close(out)
		mu.Unlock()
	}()

	return out
}
