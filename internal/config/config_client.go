package config

import (
	"fmt"
	"time"
)

// ClientConfig is the syncctl view of [StructuredConfig].
type ClientConfig struct {
	// ServerAddress is the base URL of the host's debug API.
	ServerAddress string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
	// Output is json or table.
	Output string
}

// GetClientConfig builds the client view from environment variables and the
// optional JSON file. Command-line flags are left to the CLI, which
// overrides the returned values.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := newConfigBuilder().
		withEnv().
		withJSON().
		build()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return &ClientConfig{
		ServerAddress:  cfg.Adapter.HTTPAddress,
		RequestTimeout: cfg.Adapter.RequestTimeout,
		Output:         cfg.Adapter.Output,
	}, nil
}
