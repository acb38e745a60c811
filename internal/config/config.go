// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container for the sync
// host. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: version, prefab catalog and
	// the demo scene switch.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the persistence of Persist-class
	// stores.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the debug HTTP API address and timeouts.
	Server Server `envPrefix:"SERVER_"`

	// Session holds the shape of the hosted session: which peers join and
	// how their controllers and entities behave.
	Session Session `envPrefix:"SESSION_"`

	// Adapter holds the address the syncctl client talks to.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds background job intervals.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// PrefabCatalog is the path of the YAML prefab catalog used by the
	// instantiators and the relay.
	// Env: APP_PREFAB_CATALOG
	PrefabCatalog string `env:"PREFAB_CATALOG"`

	// Demo populates every peer with the demo scene.
	// Env: APP_DEMO
	Demo bool `env:"DEMO"`
}

// Storage groups the persistence backends.
type Storage struct {
	SQLite SQLite `envPrefix:"SQLITE_"`
}

// SQLite holds the local database settings. An empty DSN disables
// persistence: Persist-class stores then live only as long as the process.
type SQLite struct {
	// Env: STORAGE_SQLITE_DSN
	DSN string `env:"DSN"`
}

// Server holds network and timeout settings for the debug HTTP API.
type Server struct {
	// HTTPAddress is the TCP address in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single request, loop calls included.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Headless runs the peers without the debug API; HTTPAddress is then
	// ignored.
	// Env: SERVER_HEADLESS
	Headless bool `env:"HEADLESS"`
}

// Session describes the hosted session.
type Session struct {
	// Peers are the connection ids joined at startup. Each peer gets its
	// own scheduler loop and session controller.
	// Env: SESSION_PEERS (comma separated)
	Peers []string `env:"PEERS" envSeparator:","`

	// FrameInterval is the tick period of every peer loop.
	// Env: SESSION_FRAME_INTERVAL
	FrameInterval time.Duration `env:"FRAME_INTERVAL"`

	// StoreGracePeriod is how long a SyncEntity waits for an existing store
	// before creating its own.
	// Env: SESSION_STORE_GRACE_PERIOD
	StoreGracePeriod time.Duration `env:"STORE_GRACE_PERIOD"`

	// SessionStoreGracePeriod is how long a controller waits for the shared
	// session store before creating it.
	// Env: SESSION_SESSION_STORE_GRACE_PERIOD
	SessionStoreGracePeriod time.Duration `env:"SESSION_STORE_GRACE_PERIOD"`

	// Env: SESSION_REQUIRE_INVITE
	RequireInvite bool `env:"REQUIRE_INVITE"`
	// Env: SESSION_REQUIRE_SESSION_STORE
	RequireSessionStore bool `env:"REQUIRE_SESSION_STORE"`
	// Env: SESSION_COLOCATED
	Colocated bool `env:"COLOCATED"`

	// EntranceTimeout is how long a relay waits for a host to answer.
	// Env: SESSION_ENTRANCE_TIMEOUT
	EntranceTimeout time.Duration `env:"ENTRANCE_TIMEOUT"`

	// SendsPerSecond is the default rate of synced transform properties.
	// Env: SESSION_SENDS_PER_SECOND
	SendsPerSecond float64 `env:"SENDS_PER_SECOND"`
}

// Adapter holds the syncctl client's outbound settings.
type Adapter struct {
	// HTTPAddress is the base URL or host:port of the sync host's debug API.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Output is the syncctl output format, json or table.
	// Env: ADAPTER_OUTPUT
	Output string `env:"OUTPUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// PersistInterval is how often Persist-class stores are flushed to the
	// repository.
	// Env: WORKERS_PERSIST_INTERVAL
	PersistInterval time.Duration `env:"PERSIST_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the host configuration
// from all available sources in the following priority order (earlier
// sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Unset fields are then filled with defaults.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[0], os.Args[1:]).
		withJSON().
		build()
}
