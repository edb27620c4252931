package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/taskdeck/internal/config"
	"github.com/jask/taskdeck/internal/database"
	"github.com/jask/taskdeck/internal/database/repository"
	"github.com/jask/taskdeck/internal/server"
	"github.com/jask/taskdeck/internal/service"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Server.Addr = addr
			}

			if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
				return err
			}
			if err := database.RunMigrations(cfg.Database.Path); err != nil {
				return err
			}
			db, err := database.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := database.SeedDefaults(ctx, db); err != nil {
				return err
			}

			srv := server.New(cfg.Server.Addr, server.Deps{
				Tasks:       &service.TaskService{Tasks: repository.NewTaskRepo(db)},
				Knowledge:   &service.KnowledgeService{Entries: repository.NewKnowledgeRepo(db)},
				Projects:    repository.NewProjectRepo(db),
				Initiatives: repository.NewInitiativeRepo(db),
			})

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-stop
				log.Print("serve: shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Printf("serve: shutdown: %v", err)
				}
			}()

			return srv.ListenAndServe()
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	return cmd
}
