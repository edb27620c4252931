package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/taskdeck/internal/client"
	"github.com/jask/taskdeck/internal/config"
	"github.com/jask/taskdeck/internal/store"
	"github.com/jask/taskdeck/internal/tui"
)

func boardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive workflow board",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if u, _ := cmd.Flags().GetString("server"); u != "" {
				cfg.Board.ServerURL = u
			}

			api := client.New(cfg.Board.ServerURL)
			pingCtx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
			defer cancel()
			if err := api.Health(pingCtx); err != nil {
				return fmt.Errorf("cannot reach server at %s (is `taskdeck serve` running?): %w", cfg.Board.ServerURL, err)
			}

			p := tea.NewProgram(tui.New(store.New(api)), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().String("server", "", "Server base URL (overrides config)")
	return cmd
}
