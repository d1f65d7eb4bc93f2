package main

import (
	"github.com/pbaille/journal/internal/api"
	"github.com/pbaille/journal/internal/tui"
	"github.com/spf13/cobra"
)

func tuiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit the journal in a terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, closeFn, err := a.openJournal(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return tui.Run(cmd.Context(), j)
		},
	}
}

func serveCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journal as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.ServeAddr
			}

			j, closeFn, err := a.openJournal(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return api.New(j, a.log, addr).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from JOURNAL_ADDR or :8080)")
	return cmd
}
