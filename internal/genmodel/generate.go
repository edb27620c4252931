package genmodel

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

var tmplFuncs = template.FuncMap{
	"lower": strings.ToLower,
	"join":  strings.Join,
}

var migrationTmpl = template.Must(template.New("migration").Funcs(tmplFuncs).Parse(`CREATE TABLE {{.Table}} (
    id TEXT PRIMARY KEY,
{{- range .Fields}}
    {{.Column}} {{.SQLType}},
{{- end}}
{{- if .Statuses}}
    status TEXT NOT NULL DEFAULT '{{.Initial}}',
{{- end}}
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
{{- if .Statuses}}

CREATE INDEX idx_{{.Table}}_status ON {{.Table}}(status);
{{- end}}
`))

var repositoryTmpl = template.Must(template.New("repository").Funcs(tmplFuncs).Parse(`// Code generated by taskdeck gen; DO NOT EDIT.
package repository

import (
	"context"
	"database/sql"
{{- if .NeedsTime}}
	"time"
{{- end}}
)

// {{.Name}} represents a {{lower .Name}} row.
type {{.Name}} struct {
	ID string ` + "`json:\"id\"`" + `
{{- range .Fields}}
	{{.Name}} {{.GoType}} ` + "`json:\"{{.Column}}\"`" + `
{{- end}}
{{- if .Statuses}}
	Status string ` + "`json:\"status\"`" + `
{{- end}}
	CreatedAt time.Time ` + "`json:\"created_at\"`" + `
	UpdatedAt time.Time ` + "`json:\"updated_at\"`" + `
}

// {{.Name}}Repo handles {{.Plural}}.
type {{.Name}}Repo struct {
	db *sql.DB
}

func New{{.Name}}Repo(db *sql.DB) *{{.Name}}Repo { return &{{.Name}}Repo{db: db} }

const {{lower .Name}}Columns = ` + "`id, {{.ColumnList}}, created_at, updated_at`" + `
{{if .Endpoints.Create}}
func (r *{{.Name}}Repo) Insert(ctx context.Context, v {{.Name}}) error {
{{- range .JSONFields}}
	{{.Local}}, err := encodeStrings(v.{{.Name}})
	if err != nil {
		return err
	}
{{- end}}
	_, err {{if .JSONFields}}={{else}}:={{end}} r.db.ExecContext(ctx, ` + "`" + `
	INSERT INTO {{.Table}}({{.ColumnList}}, id, created_at, updated_at)
	VALUES({{.Placeholders}}, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	` + "`" + `, {{.FieldArgs}}, v.ID)
	return err
}
{{end}}{{if .Endpoints.Get}}
func (r *{{.Name}}Repo) Get(ctx context.Context, id string) ({{.Name}}, error) {
	row := r.db.QueryRowContext(ctx, ` + "`SELECT `" + `+{{lower .Name}}Columns+` + "` FROM {{.Table}} WHERE id = ?`" + `, id)
	return scan{{.Name}}(row)
}
{{end}}{{if .Endpoints.List}}
func (r *{{.Name}}Repo) List(ctx context.Context) ([]{{.Name}}, error) {
	rows, err := r.db.QueryContext(ctx, ` + "`SELECT `" + `+{{lower .Name}}Columns+` + "` FROM {{.Table}} ORDER BY created_at DESC`" + `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []{{.Name}}
	for rows.Next() {
		v, err := scan{{.Name}}(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
{{end}}{{if .Endpoints.Update}}
func (r *{{.Name}}Repo) Update(ctx context.Context, v {{.Name}}) error {
{{- range .JSONFields}}
	{{.Local}}, err := encodeStrings(v.{{.Name}})
	if err != nil {
		return err
	}
{{- end}}
	_, err {{if .JSONFields}}={{else}}:={{end}} r.db.ExecContext(ctx, ` + "`UPDATE {{.Table}} SET {{.SetClause}}, updated_at=CURRENT_TIMESTAMP WHERE id = ?`" + `, {{.UpdateArgs}}, v.ID)
	return err
}
{{end}}{{if .Endpoints.Transition}}
func (r *{{.Name}}Repo) UpdateStatus(ctx context.Context, id string, status string) error {
	_, err := r.db.ExecContext(ctx, ` + "`UPDATE {{.Table}} SET status = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`" + `, status, id)
	return err
}
{{end}}{{if .Endpoints.Delete}}
func (r *{{.Name}}Repo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, ` + "`DELETE FROM {{.Table}} WHERE id = ?`" + `, id)
	return err
}
{{end}}
func scan{{.Name}}(row interface{ Scan(dest ...interface{}) error }) ({{.Name}}, error) {
	var v {{.Name}}
{{- range .JSONFields}}
	var {{.Local}} string
{{- end}}
	err := row.Scan(&v.ID, {{.ScanArgs}}, &v.CreatedAt, &v.UpdatedAt)
{{- if .JSONFields}}
	if err != nil {
		return {{.Name}}{}, err
	}
{{- range .JSONFields}}
	v.{{.Name}}, err = decodeStrings({{.Local}})
	if err != nil {
		return {{$.Name}}{}, err
	}
{{- end}}
{{- end}}
	return v, err
}
`))

var routesTmpl = template.Must(template.New("routes").Funcs(tmplFuncs).Parse(`// Code generated by taskdeck gen; DO NOT EDIT.
package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jask/taskdeck/internal/database/repository"
)

type {{lower .Name}}Handlers struct {
	repo *repository.{{.Name}}Repo
}

func register{{.Name}}Routes(api *mux.Router, repo *repository.{{.Name}}Repo) {
	h := {{lower .Name}}Handlers{repo: repo}
{{- if .Endpoints.List}}
	api.HandleFunc("/{{.Plural}}", h.list).Methods(http.MethodGet)
{{- end}}
{{- if .Endpoints.Create}}
	api.HandleFunc("/{{.Plural}}", h.create).Methods(http.MethodPost)
{{- end}}
{{- if .Endpoints.Get}}
	api.HandleFunc("/{{.Plural}}/{id}", h.get).Methods(http.MethodGet)
{{- end}}
{{- if .Endpoints.Update}}
	api.HandleFunc("/{{.Plural}}/{id}", h.update).Methods(http.MethodPut)
{{- end}}
{{- if .Endpoints.Delete}}
	api.HandleFunc("/{{.Plural}}/{id}", h.delete).Methods(http.MethodDelete)
{{- end}}
{{- if .Endpoints.Transition}}
	api.HandleFunc("/{{.Plural}}/{id}/status", h.transition).Methods(http.MethodPut)
{{- end}}
}
{{if .Endpoints.List}}
func (h {{lower .Name}}Handlers) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}
{{end}}{{if .Endpoints.Get}}
func (h {{lower .Name}}Handlers) get(w http.ResponseWriter, r *http.Request) {
	v, err := h.repo.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}
{{end}}{{if .Endpoints.Create}}
func (h {{lower .Name}}Handlers) create(w http.ResponseWriter, r *http.Request) {
	var v repository.{{.Name}}
	if !decodeBody(w, r, &v) {
		return
	}
	if err := h.repo.Insert(r.Context(), v); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, v)
}
{{end}}{{if .Endpoints.Update}}
func (h {{lower .Name}}Handlers) update(w http.ResponseWriter, r *http.Request) {
	var v repository.{{.Name}}
	if !decodeBody(w, r, &v) {
		return
	}
	v.ID = mux.Vars(r)["id"]
	if err := h.repo.Update(r.Context(), v); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, v)
}
{{end}}{{if .Endpoints.Delete}}
func (h {{lower .Name}}Handlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
{{end}}{{if .Endpoints.Transition}}
func (h {{lower .Name}}Handlers) transition(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string ` + "`json:\"status\"`" + `
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := h.repo.UpdateStatus(r.Context(), mux.Vars(r)["id"], body.Status); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
{{end}}`))

// templateData flattens ModelConfig with the derived strings the templates
// splice in.
type templateData struct {
	ModelConfig
	Fields       []fieldData
	JSONFields   []fieldData
	ColumnList   string
	Placeholders string
	FieldArgs    string
	ScanArgs     string
	SetClause    string
	UpdateArgs   string
	NeedsTime    bool
}

type fieldData struct {
	Field
	GoType  string
	SQLType string
	// Local is the intermediate variable holding a json field's encoded or
	// raw column text inside generated Insert/Update/scan bodies.
	Local string
}

func buildData(c ModelConfig) templateData {
	d := templateData{ModelConfig: c, NeedsTime: true}
	var cols, holders, args, scans, sets []string
	for _, f := range c.Fields {
		fd := fieldData{Field: f, GoType: f.goType(), SQLType: f.sqlType()}
		arg := "v." + f.Name
		scan := "&v." + f.Name
		if f.Type == FieldJSON {
			// json columns pass through encodeStrings/decodeStrings, never
			// the driver directly
			fd.Local = strings.ToLower(f.Column)
			arg = fd.Local
			scan = "&" + fd.Local
			d.JSONFields = append(d.JSONFields, fd)
		}
		d.Fields = append(d.Fields, fd)
		cols = append(cols, f.Column)
		holders = append(holders, "?")
		args = append(args, arg)
		scans = append(scans, scan)
		sets = append(sets, f.Column+" = ?")
	}
	// status updates go through UpdateStatus, so Update's SET clause only
	// covers declared fields
	d.SetClause = strings.Join(sets, ", ")
	d.UpdateArgs = strings.Join(args, ", ")
	if len(c.Statuses) > 0 {
		cols = append(cols, "status")
		holders = append(holders, "?")
		args = append(args, "v.Status")
		scans = append(scans, "&v.Status")
	}
	d.ColumnList = strings.Join(cols, ", ")
	d.Placeholders = strings.Join(holders, ", ")
	d.FieldArgs = strings.Join(args, ", ")
	d.ScanArgs = strings.Join(scans, ", ")
	return d
}

// Migration renders the CREATE TABLE migration for the model.
func Migration(c ModelConfig) (string, error) {
	return render(migrationTmpl, c)
}

// Repository renders the Go repository source for the model.
func Repository(c ModelConfig) (string, error) {
	return render(repositoryTmpl, c)
}

// Routes renders the Go route-handler source for the model.
func Routes(c ModelConfig) (string, error) {
	return render(routesTmpl, c)
}

func render(t *template.Template, c ModelConfig) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, buildData(c)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteAll generates the migration, repository, and routes files under dir.
func WriteAll(c ModelConfig, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	outputs := []struct {
		name   string
		render func(ModelConfig) (string, error)
	}{
		{fmt.Sprintf("%s.up.sql", c.Table), Migration},
		{fmt.Sprintf("%s_repo.go", strings.ToLower(c.Name)), Repository},
		{fmt.Sprintf("%s_routes.go", strings.ToLower(c.Name)), Routes},
	}
	for _, out := range outputs {
		text, err := out.render(c)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, out.name), []byte(text), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out.name, err)
		}
	}
	return nil
}
