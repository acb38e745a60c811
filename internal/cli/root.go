// Package cli implements syncctl, the command line client of the sync host's
// debug API.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-sync-framework/internal/adapter"
	"github.com/MKhiriev/go-sync-framework/internal/config"
	"github.com/MKhiriev/go-sync-framework/internal/logger"
)

// AdapterFactory builds the debug API client from the resolved config.
type AdapterFactory func(cfg config.ClientConfig, log *logger.Logger) (adapter.DebugAdapter, error)

// RootOptions holds global flags and the state shared by all commands once
// the root's pre-run resolved it.
type RootOptions struct {
	Address string
	Timeout time.Duration
	Output  string
	Verbose bool

	Config  config.ClientConfig
	Adapter adapter.DebugAdapter
	Logger  *logger.Logger
}

// NewRootCommand creates the syncctl root command. A nil factory uses the
// HTTP adapter.
func NewRootCommand(newAdapter AdapterFactory) *cobra.Command {
	if newAdapter == nil {
		newAdapter = adapter.NewHTTPDebugAdapter
	}
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "syncctl",
		Short: "Inspect a running sync host",
		Long: `syncctl talks to the debug API of a sync host.

Flags override the ADAPTER_* environment variables and the JSON file
named by CONFIG.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.resolve(cmd, newAdapter)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Address, "address", "a", "", "debug API address (default http://"+config.DefaultHTTPAddress+")")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 0, "request timeout")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "", "output format (table|json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(
		NewVersionCommand(opts),
		NewPeersCommand(opts),
		NewUsersCommand(opts),
		NewEntitiesCommand(opts),
		NewEntityCommand(opts),
		NewToggleOwnershipCommand(opts),
		NewWatchCommand(opts),
	)

	return cmd
}

func (o *RootOptions) resolve(cmd *cobra.Command, newAdapter AdapterFactory) error {
	cfg, err := config.GetClientConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("address") {
		cfg.ServerAddress = o.Address
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = o.Timeout
	}
	if flags.Changed("output") {
		cfg.Output = o.Output
	}
	switch cfg.Output {
	case config.OutputTable, config.OutputJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutput, cfg.Output)
	}

	o.Config = *cfg
	o.Logger = logger.NewCLILogger("syncctl", cmd.ErrOrStderr(), o.Verbose)
	o.Adapter, err = newAdapter(o.Config, o.Logger)
	if err != nil {
		return fmt.Errorf("create debug adapter: %w", err)
	}

	o.Logger.Debug().
		Str("address", o.Config.ServerAddress).
		Dur("timeout", o.Config.RequestTimeout).
		Str("output", o.Config.Output).
		Msg("resolved client config")
	return nil
}

func (o *RootOptions) printer(cmd *cobra.Command) *printer {
	return &printer{w: cmd.OutOrStdout(), format: o.Config.Output}
}
