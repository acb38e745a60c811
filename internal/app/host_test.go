package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-framework/internal/config"
	"github.com/MKhiriev/go-sync-framework/internal/demo"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/scheduler"
)

func testConfig(peers ...string) config.StructuredConfig {
	return config.StructuredConfig{
		Session: config.Session{
			Peers:            peers,
			FrameInterval:    time.Second / 60,
			StoreGracePeriod: 100 * time.Millisecond,
			EntranceTimeout:  200 * time.Millisecond,
			SendsPerSecond:   10,
		},
		Workers: config.Workers{PersistInterval: time.Second},
	}
}

func tickAll(clock *scheduler.ManualClock, h *Host, n int) {
	for i := 0; i < n; i++ {
		clock.Advance(time.Second / 60)
		for _, p := range h.Peers() {
			p.Loop.Tick()
		}
	}
}

func TestNewHost_JoinsConfiguredPeers(t *testing.T) {
	clock := scheduler.NewManualClock(time.Time{})
	h, err := NewHost(context.Background(), testConfig("alpha", "beta", "gamma"), logger.Nop(), WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	hosted := h.HostedPeers()
	require.Len(t, hosted, 3)
	assert.Equal(t, "alpha", hosted[0].ID)
	assert.Equal(t, "gamma", hosted[2].ID)
	for _, p := range h.Peers() {
		assert.Nil(t, p.Kitchen)
	}

	tickAll(clock, h, 10)

	users := h.Hub().Peers()
	assert.Len(t, users, 3)
	for _, p := range h.Peers() {
		assert.True(t, p.Session.IsReady(), "peer %s not ready", p.ID)
		assert.Len(t, p.Session.Users(), 3)
	}
}

func TestNewHost_Demo(t *testing.T) {
	clock := scheduler.NewManualClock(time.Time{})
	cfg := testConfig("alpha", "beta")
	cfg.App.Demo = true

	h, err := NewHost(context.Background(), cfg, logger.Nop(), WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	tickAll(clock, h, 90)

	for _, p := range h.Peers() {
		require.NotNil(t, p.Kitchen)
		_, ok := p.Entities.FindByID(demo.BoardID)
		assert.True(t, ok, "peer %s has no order board", p.ID)
		_, ok = p.Kitchen.Pan()
		assert.True(t, ok, "peer %s has no pan", p.ID)
	}
}

func TestNewHost_InvalidCatalog(t *testing.T) {
	cfg := testConfig("alpha")
	cfg.App.PrefabCatalog = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewHost(context.Background(), cfg, logger.Nop())
	assert.ErrorIs(t, err, ErrInvalidPrefabCatalog)
}

func TestNewHost_WithSQLite(t *testing.T) {
	cfg := testConfig("alpha")
	cfg.Storage.SQLite.DSN = "file:" + filepath.Join(t.TempDir(), "sync.db")

	h, err := NewHost(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, h.db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, h.Hub().FlushPersisted(ctx))

	assert.NoError(t, h.Close())
	assert.NoError(t, h.Close())
}
