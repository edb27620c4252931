package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jask/taskdeck/internal/database/repository"
)

// SeedDefaults ensures a baseline project exists for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	projRepo := repository.NewProjectRepo(db)
	existing, err := projRepo.List(ctx, false)
	if err == nil && len(existing) > 0 {
		return nil
	}
	defaults := []struct {
		name  string
		color string
	}{
		{"Personal", "#7c9f4b"},
		{"Work", "#4b7c9f"},
	}
	for _, d := range defaults {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("project:"+d.name)).String()
		p := repository.Project{ID: id, Name: d.name, Color: d.color}
		if err := projRepo.Upsert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
