package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/observer"
	"github.com/MKhiriev/go-sync-framework/models"
)

type fakeEventSource struct {
	event observer.Event[models.StoreEvent]
}

func (f *fakeEventSource) OnEvent(fn func(models.StoreEvent)) observer.Subscription {
	return f.event.Add(fn)
}

func TestEventService_DeliversUntilCancelled(t *testing.T) {
	src := &fakeEventSource{}
	svc := NewEventService(src, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	events := svc.Subscribe(ctx)

	src.event.Trigger(models.StoreEvent{Kind: models.StoreEventCreated, StoreID: "s1"})
	src.event.Trigger(models.StoreEvent{Kind: models.StoreEventUpdated, StoreID: "s1", Key: "open"})

	got := <-events
	assert.Equal(t, models.StoreEventCreated, got.Kind)
	got = <-events
	assert.Equal(t, "open", got.Key)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	// no panic on a closed subscriber
	src.event.Trigger(models.StoreEvent{Kind: models.StoreEventDeleted})
}

func TestEventService_SlowSubscriberDropsEvents(t *testing.T) {
	src := &fakeEventSource{}
	svc := NewEventService(src, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := svc.Subscribe(ctx)

	for i := 0; i < subscriberBuffer+10; i++ {
		src.event.Trigger(models.StoreEvent{Kind: models.StoreEventUpdated})
	}
	assert.Len(t, events, subscriberBuffer)
}
