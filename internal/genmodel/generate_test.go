package genmodel

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func noteConfig() ModelConfig {
	return ModelConfig{
		Name:   "Note",
		Plural: "notes",
		Table:  "notes",
		Fields: []Field{
			{Name: "Title", Column: "title", Type: FieldString},
			{Name: "Body", Column: "body", Type: FieldText},
			{Name: "Pinned", Column: "pinned", Type: FieldBool},
			{Name: "Tags", Column: "tags", Type: FieldJSON},
		},
		Statuses:    []string{"draft", "published"},
		Initial:     "draft",
		Transitions: map[string][]string{"draft": {"published"}, "published": {"draft"}},
		Endpoints: Endpoints{
			List: true, Get: true, Create: true, Update: true, Delete: true, Transition: true,
		},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*ModelConfig)
		wantErr string
	}{
		{"valid", func(c *ModelConfig) {}, ""},
		{"missing name", func(c *ModelConfig) { c.Name = "" }, "name is required"},
		{"missing plural", func(c *ModelConfig) { c.Plural = "" }, "plural is required"},
		{"missing table", func(c *ModelConfig) { c.Table = "" }, "table is required"},
		{"no fields", func(c *ModelConfig) { c.Fields = nil }, "at least one field"},
		{"unknown field type", func(c *ModelConfig) { c.Fields[0].Type = "decimal" }, "unknown type"},
		{"field without column", func(c *ModelConfig) { c.Fields[0].Column = "" }, "name and column"},
		{"undeclared initial", func(c *ModelConfig) { c.Initial = "open" }, "not declared"},
		{"transition from unknown status", func(c *ModelConfig) {
			c.Transitions["archived"] = []string{"draft"}
		}, "not a declared status"},
		{"transition to unknown status", func(c *ModelConfig) {
			c.Transitions["draft"] = []string{"gone"}
		}, "undeclared status"},
		{"transition endpoint without statuses", func(c *ModelConfig) {
			c.Statuses = nil
			c.Initial = ""
			c.Transitions = nil
		}, "requires statuses"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := noteConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestMigrationOutput(t *testing.T) {
	t.Parallel()

	sql, err := Migration(noteConfig())
	require.NoError(t, err)

	require.Contains(t, sql, "CREATE TABLE notes (")
	require.Contains(t, sql, "id TEXT PRIMARY KEY")
	require.Contains(t, sql, "title TEXT NOT NULL DEFAULT ''")
	require.Contains(t, sql, "pinned INTEGER NOT NULL DEFAULT 0")
	require.Contains(t, sql, "tags TEXT NOT NULL DEFAULT '[]'")
	require.Contains(t, sql, "status TEXT NOT NULL DEFAULT 'draft'")
	require.Contains(t, sql, "CREATE INDEX idx_notes_status ON notes(status)")
}

func TestRepositoryOutput(t *testing.T) {
	t.Parallel()

	src, err := Repository(noteConfig())
	require.NoError(t, err)

	require.Contains(t, src, "// Code generated by taskdeck gen; DO NOT EDIT.")
	require.Contains(t, src, "type Note struct {")
	require.Contains(t, src, "Title string `json:\"title\"`")
	require.Contains(t, src, "Tags []string `json:\"tags\"`")
	require.Contains(t, src, "func NewNoteRepo(db *sql.DB) *NoteRepo")
	require.Contains(t, src, "func (r *NoteRepo) Insert(ctx context.Context, v Note) error")
	require.Contains(t, src, "func (r *NoteRepo) UpdateStatus(ctx context.Context, id string, status string) error")
	require.Contains(t, src, "func (r *NoteRepo) Update(ctx context.Context, v Note) error")
	require.Contains(t, src, "UPDATE notes SET title = ?, body = ?, pinned = ?, tags = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?")
	require.Contains(t, src, "INSERT INTO notes(title, body, pinned, tags, status, id, created_at, updated_at)")
}

func TestRepositoryEncodesJSONFields(t *testing.T) {
	t.Parallel()

	src, err := Repository(noteConfig())
	require.NoError(t, err)

	// json columns must round-trip through the string-slice helpers; the raw
	// []string is never handed to the driver or scanned directly
	require.Contains(t, src, "tags, err := encodeStrings(v.Tags)")
	require.Contains(t, src, "var tags string")
	require.Contains(t, src, "v.Tags, err = decodeStrings(tags)")
	require.NotContains(t, src, "v.Tags, v.ID")
	require.NotContains(t, src, "&v.Tags")
	require.Contains(t, src, "return Note{}, err")
	require.NotContains(t, src, "return Tags{}")

	// insert and update bind the encoded text, not the slice
	require.Contains(t, src, "`, v.Title, v.Body, v.Pinned, tags, v.Status, v.ID)")
	require.Contains(t, src, "WHERE id = ?`, v.Title, v.Body, v.Pinned, tags, v.ID)")
}

func TestRoutesOutput(t *testing.T) {
	t.Parallel()

	src, err := Routes(noteConfig())
	require.NoError(t, err)

	require.Contains(t, src, `api.HandleFunc("/notes", h.list).Methods(http.MethodGet)`)
	require.Contains(t, src, `api.HandleFunc("/notes/{id}/status", h.transition).Methods(http.MethodPut)`)
	require.Contains(t, src, "func registerNoteRoutes(api *mux.Router, repo *repository.NoteRepo)")
	require.Contains(t, src, "func (h noteHandlers) update(w http.ResponseWriter, r *http.Request)")
}

func TestRoutesRespectEndpointToggles(t *testing.T) {
	t.Parallel()

	cfg := noteConfig()
	cfg.Endpoints = Endpoints{List: true, Get: true}

	src, err := Routes(cfg)
	require.NoError(t, err)
	require.Contains(t, src, "h.list")
	require.NotContains(t, src, "h.create")
	require.NotContains(t, src, "h.transition")

	repoSrc, err := Repository(cfg)
	require.NoError(t, err)
	require.NotContains(t, repoSrc, "func (r *NoteRepo) Insert")
	require.NotContains(t, repoSrc, "UpdateStatus")
}

func TestWriteAll(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, WriteAll(noteConfig(), dir))

	for _, name := range []string{"notes.up.sql", "note_repo.go", "note_routes.go"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		require.NotEmpty(t, data, name)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "note.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"name": "Note",
		"plural": "notes",
		"table": "notes",
		"fields": [{"name": "Title", "column": "title", "type": "string"}],
		"statuses": ["draft", "published"],
		"initial": "draft",
		"endpoints": {"list": true, "get": true}
	}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "Note", cfg.Name)
	require.True(t, cfg.Endpoints.List)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"name": ""}`), 0o644))
	_, err = LoadConfig(bad)
	require.ErrorContains(t, err, "name is required")

	notJSON := filepath.Join(t.TempDir(), "nope.json")
	require.NoError(t, os.WriteFile(notJSON, []byte("{"), 0o644))
	_, err = LoadConfig(notJSON)
	require.ErrorContains(t, err, "parse model config")
}

func TestGeneratedSourceHasNoTemplateResidue(t *testing.T) {
	t.Parallel()

	for _, render := range []func(ModelConfig) (string, error){Migration, Repository, Routes} {
		out, err := render(noteConfig())
		require.NoError(t, err)
		require.False(t, strings.Contains(out, "{{"), "template residue in output:\n%s", out)
	}
}
