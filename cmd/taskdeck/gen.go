package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/taskdeck/internal/genmodel"
)

func genCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "gen <model.json>",
		Short: "Generate migration, repository and route source from a model config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := genmodel.LoadConfig(args[0])
			if err != nil {
				return err
			}
			if err := genmodel.WriteAll(cfg, out); err != nil {
				return err
			}
			fmt.Printf("generated %s artifacts in %s\n", cfg.Name, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "gen", "Output directory for generated files")
	return cmd
}
