package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// configBuilder collects partial configs in priority order. Errors from any
// source are joined and reported by build.
type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

// build merges the sources so that the earliest non-zero value wins, then
// applies defaults and validates.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	config.applyDefaults()
	return config, config.validate()
}

func (b *configBuilder) add(cfg *StructuredConfig, err error) *configBuilder {
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, cfg)
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	cfg := new(StructuredConfig)
	return b.add(cfg, parseEnv(cfg))
}

// withFlags parses args as the command line of the program called name.
func (b *configBuilder) withFlags(name string, args []string) *configBuilder {
	return b.add(parseFlags(name, args))
}

// withJSON appends the JSON file named by the first source that sets one.
func (b *configBuilder) withJSON() *configBuilder {
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			return b.add(parseJSON(cfg.JSONFilePath))
		}
	}
	return b
}
