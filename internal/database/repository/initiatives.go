package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitiativeRepo handles initiatives.
type InitiativeRepo struct {
	db *sql.DB
}

func NewInitiativeRepo(db *sql.DB) *InitiativeRepo {
	return &InitiativeRepo{db: db}
}

func (r *InitiativeRepo) Upsert(ctx context.Context, in Initiative) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO initiatives(id, name, description, status, created_at, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 description=excluded.description,
	 status=excluded.status,
	 updated_at=CURRENT_TIMESTAMP;
	`, in.ID, in.Name, in.Description, in.Status)
	return err
}

func (r *InitiativeRepo) Get(ctx context.Context, id string) (Initiative, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, description, status, created_at, updated_at FROM initiatives WHERE id = ?`, id)
	var in Initiative
	err := row.Scan(&in.ID, &in.Name, &in.Description, &in.Status, &in.CreatedAt, &in.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Initiative{}, fmt.Errorf("initiative %s: %w", id, ErrNotFound)
	}
	return in, err
}

func (r *InitiativeRepo) List(ctx context.Context) ([]Initiative, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, status, created_at, updated_at FROM initiatives ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Initiative
	for rows.Next() {
		var in Initiative
		if err := rows.Scan(&in.ID, &in.Name, &in.Description, &in.Status, &in.CreatedAt, &in.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
