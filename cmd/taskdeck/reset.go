package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/taskdeck/internal/config"
	"github.com/jask/taskdeck/internal/database"
	"github.com/jask/taskdeck/internal/service"
)

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all tasks, knowledge entries, initiatives and projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if !yes {
				fmt.Printf("This deletes ALL data in %s. Type 'reset' to confirm: ", cfg.Database.Path)
				line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
				if strings.TrimSpace(line) != "reset" {
					fmt.Println("aborted")
					return nil
				}
			}

			db, err := database.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			m := &service.MaintenanceService{DB: db}
			if err := m.Reset(cmd.Context()); err != nil {
				return err
			}

			if err := database.SeedDefaults(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Println("database reset; default projects restored")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}
