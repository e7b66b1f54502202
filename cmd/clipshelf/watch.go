package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/its-jojoo/clipshelf/internal/adapter/clipboard"
	"github.com/its-jojoo/clipshelf/internal/adapter/docstore/backend"
	"github.com/its-jojoo/clipshelf/internal/core"
	"github.com/its-jojoo/clipshelf/internal/usecase/capture"
	"github.com/its-jojoo/clipshelf/internal/usecase/reconcile"
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Capture clipboard changes into the history until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			w, err := clipboard.Detect(a.cfg.Capture.Interval)
			if err != nil {
				return err
			}
			pf, err := core.NewPrivacyFilter(a.cfg.Capture.Ignore, a.cfg.Capture.IgnoreRegex)
			if err != nil {
				return fmt.Errorf("invalid ignore patterns: %w", err)
			}

			st, err := backend.Open(a.cfg, a.log)
			if err != nil {
				return err
			}
			defer st.Close()

			lib := reconcile.New(st, reconcile.WithLogger(a.log))
			followDone := make(chan struct{})
			go func() {
				defer close(followDone)
				_ = lib.Follow(ctx, a.session())
			}()
			defer func() {
				cancel()
				<-followDone
				drain(lib, a.log)
			}()

			svc := capture.New(lib, pf, capture.Config{DedupeConsecutive: a.cfg.Capture.DedupeConsecutive}, a.log)
			fmt.Fprintln(cmd.ErrOrStderr(), "watching clipboard... (Ctrl+C to exit)")
			if err := svc.Run(ctx, w); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
