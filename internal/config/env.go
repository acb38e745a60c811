package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the environment. SESSION_PEERS goes through the
// same splitting as the -peers flag, so " alpha, ,beta" yields two peers.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	cfg.Session.Peers = normalizePeers(cfg.Session.Peers)
	return nil
}
