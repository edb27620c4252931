package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// KnowledgeFilters defines list filters for knowledge entries.
type KnowledgeFilters struct {
	Status    string
	ProjectID string
	Tag       string
	Search    string
}

// KnowledgeRepo handles knowledge base entries.
type KnowledgeRepo struct {
	db *sql.DB
}

func NewKnowledgeRepo(db *sql.DB) *KnowledgeRepo { return &KnowledgeRepo{db: db} }

const knowledgeColumns = `id, project_id, title, body, status, tags, created_at, updated_at`

func (r *KnowledgeRepo) Insert(ctx context.Context, e KnowledgeEntry) error {
	tags, err := encodeStrings(e.Tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO knowledge_entries(id, project_id, title, body, status, tags, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, e.ID, e.ProjectID, e.Title, e.Body, e.Status, tags)
	return err
}

func (r *KnowledgeRepo) Get(ctx context.Context, id string) (KnowledgeEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+knowledgeColumns+` FROM knowledge_entries WHERE id = ?`, id)
	e, err := scanKnowledge(row)
	if errors.Is(err, sql.ErrNoRows) {
		return KnowledgeEntry{}, fmt.Errorf("knowledge entry %s: %w", id, ErrNotFound)
	}
	return e, err
}

func (r *KnowledgeRepo) Update(ctx context.Context, e KnowledgeEntry) error {
	tags, err := encodeStrings(e.Tags)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
	UPDATE knowledge_entries SET project_id = ?, title = ?, body = ?, tags = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`, e.ProjectID, e.Title, e.Body, tags, e.ID)
	if err != nil {
		return err
	}
	return requireRow(res, e.ID)
}

func (r *KnowledgeRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE knowledge_entries SET status = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (r *KnowledgeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM knowledge_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (r *KnowledgeRepo) List(ctx context.Context, f KnowledgeFilters) ([]KnowledgeEntry, error) {
	var where []string
	var args []interface{}

	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, f.ProjectID)
	}
	if f.Tag != "" {
		where = append(where, "tags LIKE ?")
		args = append(args, `%"`+f.Tag+`"%`)
	}
	if f.Search != "" {
		where = append(where, "(title LIKE ? OR body LIKE ?)")
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	query := "SELECT " + knowledgeColumns + " FROM knowledge_entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY updated_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []KnowledgeEntry
	for rows.Next() {
		e, err := scanKnowledge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanKnowledge(row rowScanner) (KnowledgeEntry, error) {
	var e KnowledgeEntry
	var tags string
	err := row.Scan(&e.ID, &e.ProjectID, &e.Title, &e.Body, &e.Status, &tags, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return KnowledgeEntry{}, err
	}
	e.Tags, err = decodeStrings(tags)
	return e, err
}
