package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand prints the host's version.
func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the host version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, err := opts.Adapter.Version(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}

// NewPeersCommand lists the peers hosted by the server.
func NewPeersCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "peers",
		Short: "List hosted peers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			peers, err := opts.Adapter.Peers(cmd.Context())
			if err != nil {
				return err
			}
			return opts.printer(cmd).peers(peers)
		},
	}
}

// NewUsersCommand lists the session users one peer knows about.
func NewUsersCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "users <peer>",
		Short: "List the users a peer sees in the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := opts.Adapter.Users(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.printer(cmd).users(users)
		},
	}
}

// NewEntitiesCommand lists the entities of one peer.
func NewEntitiesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "entities <peer>",
		Short: "List the entities of a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entities, err := opts.Adapter.Entities(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.printer(cmd).entities(entities)
		},
	}
}

// NewEntityCommand describes one entity, store values included.
func NewEntityCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "entity <peer> <network-id>",
		Short: "Describe an entity of a peer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := opts.Adapter.Entity(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return opts.printer(cmd).entity(info)
		},
	}
}

// NewToggleOwnershipCommand claims the entity's store for the peer, or
// releases it when the peer already owns it.
func NewToggleOwnershipCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle-ownership <peer> <network-id>",
		Aliases: []string{"toggle"},
		Short:   "Claim or release an entity's store on behalf of a peer",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := opts.Adapter.ToggleOwnership(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			opts.Logger.Debug().
				Str("peer", args[0]).
				Str("network_id", info.NetworkID).
				Str("owner", ownerName(info.Owner)).
				Msg("ownership toggled")
			return opts.printer(cmd).entity(info)
		},
	}
}
