package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-sync-framework/internal/adapter"
	"github.com/MKhiriev/go-sync-framework/internal/config"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
	"github.com/MKhiriev/go-sync-framework/internal/mock"
	"github.com/MKhiriev/go-sync-framework/models"
)

var alpha = models.UserInfo{ConnectionID: "alpha", UserID: "user-alpha", DisplayName: "Alpha"}

func clearClientEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG", "")
	t.Setenv("ADAPTER_ADDRESS", "")
	t.Setenv("ADAPTER_OUTPUT", "")
}

func runCLI(t *testing.T, m adapter.DebugAdapter, args ...string) (string, error) {
	t.Helper()
	clearClientEnv(t)

	cmd := NewRootCommand(func(config.ClientConfig, *logger.Logger) (adapter.DebugAdapter, error) {
		return m, nil
	})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_FlagsOverrideConfig(t *testing.T) {
	clearClientEnv(t)

	var got config.ClientConfig
	cmd := NewRootCommand(func(cfg config.ClientConfig, _ *logger.Logger) (adapter.DebugAdapter, error) {
		got = cfg
		ctrl := gomock.NewController(t)
		m := mock.NewMockDebugAdapter(ctrl)
		m.EXPECT().Version(gomock.Any()).Return("0.3.0", nil)
		return m, nil
	})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"version", "-a", "10.0.0.5:9000", "--timeout", "3s", "-o", "json"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "0.3.0\n", out.String())
	assert.Equal(t, "10.0.0.5:9000", got.ServerAddress)
	assert.Equal(t, 3*time.Second, got.RequestTimeout)
	assert.Equal(t, config.OutputJSON, got.Output)
}

func TestRoot_DefaultsWithoutFlags(t *testing.T) {
	clearClientEnv(t)

	var got config.ClientConfig
	cmd := NewRootCommand(func(cfg config.ClientConfig, _ *logger.Logger) (adapter.DebugAdapter, error) {
		got = cfg
		m := mock.NewMockDebugAdapter(gomock.NewController(t))
		m.EXPECT().Version(gomock.Any()).Return("dev", nil)
		return m, nil
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "http://"+config.DefaultHTTPAddress, got.ServerAddress)
	assert.Equal(t, config.DefaultRequestTimeout, got.RequestTimeout)
	assert.Equal(t, config.OutputTable, got.Output)
}

func TestRoot_InvalidOutput(t *testing.T) {
	m := mock.NewMockDebugAdapter(gomock.NewController(t))

	_, err := runCLI(t, m, "peers", "-o", "yaml")
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestRoot_AdapterErrorIsReturned(t *testing.T) {
	m := mock.NewMockDebugAdapter(gomock.NewController(t))
	m.EXPECT().Peers(gomock.Any()).Return(nil, adapter.ErrUnavailable)

	_, err := runCLI(t, m, "peers")
	assert.ErrorIs(t, err, adapter.ErrUnavailable)
}

func TestPeers_Table(t *testing.T) {
	m := mock.NewMockDebugAdapter(gomock.NewController(t))
	m.EXPECT().Peers(gomock.Any()).Return([]models.PeerInfo{
		{User: alpha, State: "connected", Ready: true, Entities: 3},
		{User: models.UserInfo{ConnectionID: "beta", UserID: "user-beta", DisplayName: "Beta"}, State: "connecting"},
	}, nil)

	out, err := runCLI(t, m, "peers")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "peers_table", []byte(out))
}

func TestPeers_JSON(t *testing.T) {
	want := []models.PeerInfo{{User: alpha, State: "connected", Ready: true, Entities: 1}}
	m := mock.NewMockDebugAdapter(gomock.NewController(t))
	m.EXPECT().Peers(gomock.Any()).Return(want, nil)

	out, err := runCLI(t, m, "peers", "-o", "json")
	require.NoError(t, err)

	var got []models.PeerInfo
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, want, got)
}

func TestUsers_RequiresPeer(t *testing.T) {
	m := mock.NewMockDebugAdapter(gomock.NewController(t))

	_, err := runCLI(t, m, "users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestUsers_Table(t *testing.T) {
	m := mock.NewMockDebugAdapter(gomock.NewController(t))
	m.EXPECT().Users(gomock.Any(), "alpha").Return([]models.UserInfo{alpha, {ConnectionID: "beta", UserID: "user-beta"}}, nil)

	out, err := runCLI(t, m, "users", "alpha")
	require.NoError(t, err)
	assert.Contains(t, out, "CONNECTION")
	assert.Contains(t, out, "user-alpha")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "beta")
}

func TestEntities_Table(t *testing.T) {
	m := mock.NewMockDebugAdapter(gomock.NewController(t))
	m.EXPECT().Entities(gomock.Any(), "alpha").Return([]models.EntityInfo{
		{NetworkID: "kitchen_orders", State: "ready", StoreID: "s-1", Persistence: models.Session, SetupFinished: true},
		{NetworkID: "pan_alpha/Pan", State: "ready", StoreID: "s-2", Owner: &alpha, Persistence: models.Owner, SetupFinished: true},
	}, nil)

	out, err := runCLI(t, m, "entities", "alpha")
	require.NoError(t, err)
	assert.Contains(t, out, "NETWORK ID")
	assert.Contains(t, out, "kitchen_orders")
	assert.Contains(t, out, "Alpha (alpha)")
	assert.Contains(t, out, "Owner")
}

func TestEntity_TableWithValues(t *testing.T) {
	m := mock.NewMockDebugAdapter(gomock.NewController(t))
	m.EXPECT().Entity(gomock.Any(), "alpha", "kitchen_orders").Return(models.EntityInfo{
		NetworkID:     "kitchen_orders",
		State:         "ready",
		StoreID:       "s-1",
		Persistence:   models.Session,
		SetupFinished: true,
		Values: map[string]models.Value{
			"orders":    models.IntValue(7),
			"last_chef": models.StringValue("Alpha"),
		},
	}, nil)

	out, err := runCLI(t, m, "entity", "alpha", "kitchen_orders")
	require.NoError(t, err)
	assert.Contains(t, out, "SETUP FINISHED  true")
	assert.Contains(t, out, "OWNER           -")
	assert.Regexp(t, `orders\s+Int\s+7`, out)
	assert.Regexp(t, `last_chef\s+String\s+"Alpha"`, out)
	assert.Less(t, bytes.Index([]byte(out), []byte("last_chef")), bytes.Index([]byte(out), []byte("orders ")))
}

func TestToggleOwnership(t *testing.T) {
	m := mock.NewMockDebugAdapter(gomock.NewController(t))
	m.EXPECT().ToggleOwnership(gomock.Any(), "alpha", "pan_beta/Pan").Return(models.EntityInfo{
		NetworkID: "pan_beta/Pan",
		State:     "ready",
		Owner:     &alpha,
	}, nil)

	out, err := runCLI(t, m, "toggle", "alpha", "pan_beta/Pan", "-o", "json")
	require.NoError(t, err)

	var got models.EntityInfo
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.Owner)
	assert.Equal(t, "alpha", got.Owner.ConnectionID)
}
