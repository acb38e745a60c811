// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-sync-framework/models"
)

var eventKinds = []models.StoreEventKind{
	models.StoreEventCreated,
	models.StoreEventUpdated,
	models.StoreEventDeleted,
	models.StoreEventOwnership,
	models.StoreEventUserJoin,
	models.StoreEventUserLeft,
}

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	NetworkID string
	Kinds     []string
	Count     int
}

// NewWatchCommand follows the host's store event stream.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream store events from the host",
		Long: `Stream store events from the host until interrupted.

Examples:
  syncctl watch
  syncctl watch --network-id kitchen_orders --kind updated
  syncctl watch --count 10 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.NetworkID, "network-id", "", "only events whose network id starts with this prefix")
	cmd.Flags().StringSliceVar(&opts.Kinds, "kind", nil, "only events of these kinds (repeatable)")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 0, "stop after this many events")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *WatchOptions) error {
	match, err := opts.filter()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := opts.printer(cmd)
	started := time.Now()
	seen := 0
	var printErr error

	err = opts.Adapter.Watch(ctx, func(e models.StoreEvent) {
		if ctx.Err() != nil || printErr != nil || !match(e) {
			return
		}
		if printErr = p.event(e); printErr != nil {
			cancel()
			return
		}
		seen++
		if opts.Count > 0 && seen >= opts.Count {
			cancel()
		}
	})
	if err != nil {
		return err
	}

	opts.Logger.Debug().
		Int("events", seen).
		Str("elapsed", formatElapsed(time.Since(started))).
		Msg("watch finished")
	return printErr
}

func (o *WatchOptions) filter() (func(models.StoreEvent) bool, error) {
	kinds := make(map[models.StoreEventKind]bool, len(o.Kinds))
	for _, k := range o.Kinds {
		kind, err := parseKind(k)
		if err != nil {
			return nil, err
		}
		kinds[kind] = true
	}

	return func(e models.StoreEvent) bool {
		if len(kinds) > 0 && !kinds[e.Kind] {
			return false
		}
		return o.NetworkID == "" || strings.HasPrefix(e.NetworkID, o.NetworkID)
	}, nil
}

func parseKind(s string) (models.StoreEventKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range eventKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
