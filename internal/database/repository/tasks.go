package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

// TaskFilters defines list filters. Zero values mean "no filter".
type TaskFilters struct {
	Status       string
	ProjectID    string
	InitiativeID string
	Label        string
	Search       string
	SortBy       string // "priority", "due_date", "created_at", "title"; default board order
	SortAsc      bool
}

// TaskRepo handles tasks.
type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{db: db} }

const taskColumns = `id, project_id, initiative_id, title, description, status, priority, labels, due_date, sort_order, created_at, updated_at`

func (r *TaskRepo) Insert(ctx context.Context, t Task) error {
	labels, err := encodeStrings(t.Labels)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO tasks(
	 id, project_id, initiative_id, title, description, status, priority, labels,
	 due_date, sort_order, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`,
		t.ID, t.ProjectID, t.InitiativeID, t.Title, t.Description, t.Status,
		t.Priority, labels, t.DueDate, t.SortOrder)
	return err
}

func (r *TaskRepo) Get(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *TaskRepo) Update(ctx context.Context, t Task) error {
	labels, err := encodeStrings(t.Labels)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
	UPDATE tasks SET project_id = ?, initiative_id = ?, title = ?, description = ?,
	 priority = ?, labels = ?, due_date = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`,
		t.ProjectID, t.InitiativeID, t.Title, t.Description,
		t.Priority, labels, t.DueDate, t.SortOrder, t.ID)
	if err != nil {
		return err
	}
	return requireRow(res, t.ID)
}

func (r *TaskRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET status = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (r *TaskRepo) UpdateSortOrder(ctx context.Context, id string, sortOrder int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET sort_order = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, sortOrder, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (r *TaskRepo) List(ctx context.Context, f TaskFilters) ([]Task, error) {
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
	if f.InitiativeID != "" {
		where = append(where, "initiative_id = ?")
		args = append(args, f.InitiativeID)
	}
	if f.Label != "" {
		// labels is a JSON array; a quoted substring match is enough for
		// exact label names without punctuation.
		where = append(where, "labels LIKE ?")
		args = append(args, `%"`+f.Label+`"%`)
	}
	if f.Search != "" {
		where = append(where, "(title LIKE ? OR description LIKE ?)")
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + taskOrderClause(f.SortBy, f.SortAsc)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CountByStatus returns per-status totals for the board header.
func (r *TaskRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

// TitlesInProject returns id/title pairs for duplicate detection.
type TaskTitle struct {
	ID    string
	Title string
}

func (r *TaskRepo) TitlesInProject(ctx context.Context, projectID *string) ([]TaskTitle, error) {
	var rows *sql.Rows
	var err error
	if projectID == nil {
		rows, err = r.db.QueryContext(ctx, `SELECT id, title FROM tasks WHERE project_id IS NULL AND status != 'archived'`)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT id, title FROM tasks WHERE project_id = ? AND status != 'archived'`, *projectID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TaskTitle
	for rows.Next() {
		var tt TaskTitle
		if err := rows.Scan(&tt.ID, &tt.Title); err != nil {
			return nil, err
		}
		out = append(out, tt)
	}
	return out, rows.Err()
}

func taskOrderClause(sortBy string, asc bool) string {
	dir := "DESC"
	if asc {
		dir = "ASC"
	}
	switch sortBy {
	case "priority":
		return "priority " + dir + ", created_at DESC"
	case "due_date":
		return "due_date IS NULL, due_date " + dir + ", created_at DESC"
	case "title":
		return "title COLLATE NOCASE " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "sort_order ASC, created_at DESC"
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	var labels string
	err := row.Scan(&t.ID, &t.ProjectID, &t.InitiativeID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &labels, &t.DueDate, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Task{}, err
	}
	t.Labels, err = decodeStrings(labels)
	return t, err
}

func encodeStrings(ss []string) (string, error) {
	if ss == nil {
		ss = []string{}
	}
	b, err := json.Marshal(ss)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeStrings(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}
