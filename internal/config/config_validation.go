// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"
)

// Defaults applied to fields no source has set.
const (
	DefaultHTTPAddress             = "localhost:8080"
	DefaultRequestTimeout          = 10 * time.Second
	DefaultFrameInterval           = time.Second / 60
	DefaultStoreGracePeriod        = 100 * time.Millisecond
	DefaultSessionStoreGracePeriod = 100 * time.Millisecond
	DefaultEntranceTimeout         = 2 * time.Second
	DefaultSendsPerSecond          = 10
	DefaultPersistInterval         = 5 * time.Second
	DefaultOutput                  = OutputTable
)

// Output formats of syncctl.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

var defaultPeers = []string{"alpha", "beta"}

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.Headless {
		cfg.Server.HTTPAddress = ""
	} else {
		setDefault(&cfg.Server.HTTPAddress, DefaultHTTPAddress)
	}
	setDefault(&cfg.Server.RequestTimeout, DefaultRequestTimeout)

	if len(cfg.Session.Peers) == 0 {
		cfg.Session.Peers = append([]string(nil), defaultPeers...)
	}
	setDefault(&cfg.Session.FrameInterval, DefaultFrameInterval)
	setDefault(&cfg.Session.StoreGracePeriod, DefaultStoreGracePeriod)
	setDefault(&cfg.Session.SessionStoreGracePeriod, DefaultSessionStoreGracePeriod)
	setDefault(&cfg.Session.EntranceTimeout, DefaultEntranceTimeout)
	setDefault(&cfg.Session.SendsPerSecond, DefaultSendsPerSecond)

	setDefault(&cfg.Workers.PersistInterval, DefaultPersistInterval)

	setDefault(&cfg.Adapter.HTTPAddress, "http://"+DefaultHTTPAddress)
	setDefault(&cfg.Adapter.RequestTimeout, DefaultRequestTimeout)
	setDefault(&cfg.Adapter.Output, DefaultOutput)
}

func setDefault[T comparable](field *T, def T) {
	var zero T
	if *field == zero {
		*field = def
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	seen := make(map[string]struct{}, len(cfg.Session.Peers))
	for _, p := range cfg.Session.Peers {
		if p == "" {
			return fmt.Errorf("%w: empty peer id", ErrInvalidSessionConfigs)
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%w: duplicate peer %q", ErrInvalidSessionConfigs, p)
		}
		seen[p] = struct{}{}
	}

	if cfg.Session.FrameInterval < 0 || cfg.Session.StoreGracePeriod < 0 ||
		cfg.Session.SessionStoreGracePeriod < 0 || cfg.Session.EntranceTimeout < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidSessionConfigs)
	}
	if cfg.Session.SendsPerSecond < 0 {
		return fmt.Errorf("%w: negative sends per second", ErrInvalidSessionConfigs)
	}

	if cfg.Workers.PersistInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	switch cfg.Adapter.Output {
	case "", OutputJSON, OutputTable:
	default:
		return fmt.Errorf("%w: unknown output %q", ErrInvalidAdapterConfigs, cfg.Adapter.Output)
	}

	return nil
}
