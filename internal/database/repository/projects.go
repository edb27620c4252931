package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ProjectRepo handles projects.
type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) Upsert(ctx context.Context, p Project) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO projects(id, name, color, archived, created_at, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 color=excluded.color,
	 archived=excluded.archived,
	 updated_at=CURRENT_TIMESTAMP;
	`, p.ID, p.Name, p.Color, p.Archived)
	return err
}

func (r *ProjectRepo) Get(ctx context.Context, id string) (Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, color, archived, created_at, updated_at FROM projects WHERE id = ?`, id)
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.Color, &p.Archived, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return p, err
}

// List returns projects ordered by name. Archived projects are included only
// when includeArchived is set.
func (r *ProjectRepo) List(ctx context.Context, includeArchived bool) ([]Project, error) {
	query := `SELECT id, name, color, archived, created_at, updated_at FROM projects`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name COLLATE NOCASE`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.Archived, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}
