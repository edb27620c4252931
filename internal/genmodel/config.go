// Package genmodel turns a declarative data-model config into source text:
// a migration, a repository, and route registration scaffolding. The
// generator emits strings; it never parses, compiles, or executes what it
// writes.
package genmodel

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Field types the generator knows how to map to SQL and Go.
const (
	FieldString = "string"
	FieldText   = "text"
	FieldInt    = "int"
	FieldBool   = "bool"
	FieldTime   = "time"
	FieldJSON   = "json" // string slice stored as a JSON text column
)

// Field describes one column of the model.
type Field struct {
	Name     string `json:"name"`   // Go field name, e.g. "Title"
	Column   string `json:"column"` // SQL column, e.g. "title"
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// Endpoints toggles which route handlers are generated.
type Endpoints struct {
	List       bool `json:"list"`
	Get        bool `json:"get"`
	Create     bool `json:"create"`
	Update     bool `json:"update"`
	Delete     bool `json:"delete"`
	Transition bool `json:"transition"`
}

// ModelConfig is the declarative description of one content type.
type ModelConfig struct {
	Name        string              `json:"name"`   // singular Go type name, e.g. "Note"
	Plural      string              `json:"plural"` // URL segment, e.g. "notes"
	Table       string              `json:"table"`
	Fields      []Field             `json:"fields"`
	Statuses    []string            `json:"statuses"`
	Initial     string              `json:"initial"`
	Transitions map[string][]string `json:"transitions"`
	Endpoints   Endpoints           `json:"endpoints"`
}

// LoadConfig reads a model config from a JSON file and validates it.
func LoadConfig(path string) (ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModelConfig{}, err
	}
	var c ModelConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return ModelConfig{}, fmt.Errorf("parse model config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return ModelConfig{}, err
	}
	return c, nil
}

// Validate shape-checks the config. It does not validate the generated
// language.
func (c ModelConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("model config: name is required")
	}
	if strings.TrimSpace(c.Plural) == "" {
		return fmt.Errorf("model config %s: plural is required", c.Name)
	}
	if strings.TrimSpace(c.Table) == "" {
		return fmt.Errorf("model config %s: table is required", c.Name)
	}
	if len(c.Fields) == 0 {
		return fmt.Errorf("model config %s: at least one field is required", c.Name)
	}
	for _, f := range c.Fields {
		if f.Name == "" || f.Column == "" {
			return fmt.Errorf("model config %s: field needs name and column", c.Name)
		}
		switch f.Type {
		case FieldString, FieldText, FieldInt, FieldBool, FieldTime, FieldJSON:
		default:
			return fmt.Errorf("model config %s: field %s has unknown type %q", c.Name, f.Name, f.Type)
		}
	}
	known := make(map[string]bool, len(c.Statuses))
	for _, s := range c.Statuses {
		known[s] = true
	}
	if len(c.Statuses) > 0 {
		if c.Initial == "" {
			return fmt.Errorf("model config %s: initial status is required when statuses are set", c.Name)
		}
		if !known[c.Initial] {
			return fmt.Errorf("model config %s: initial status %q is not declared", c.Name, c.Initial)
		}
	}
	for from, tos := range c.Transitions {
		if !known[from] {
			return fmt.Errorf("model config %s: transition source %q is not a declared status", c.Name, from)
		}
		for _, to := range tos {
			if !known[to] {
				return fmt.Errorf("model config %s: transition %s -> %s targets an undeclared status", c.Name, from, to)
			}
		}
	}
	if c.Endpoints.Transition && len(c.Statuses) == 0 {
		return fmt.Errorf("model config %s: transition endpoint requires statuses", c.Name)
	}
	return nil
}

func (f Field) goType() string {
	var base string
	switch f.Type {
	case FieldString, FieldText:
		base = "string"
	case FieldInt:
		base = "int"
	case FieldBool:
		base = "bool"
	case FieldTime:
		base = "time.Time"
	case FieldJSON:
		return "[]string"
	}
	if f.Nullable {
		return "*" + base
	}
	return base
}

func (f Field) sqlType() string {
	var decl string
	switch f.Type {
	case FieldString, FieldText, FieldJSON:
		decl = "TEXT"
	case FieldInt, FieldBool:
		decl = "INTEGER"
	case FieldTime:
		decl = "TIMESTAMP"
	}
	if !f.Nullable {
		decl += " NOT NULL"
		switch f.Type {
		case FieldString, FieldText:
			decl += " DEFAULT ''"
		case FieldJSON:
			decl += " DEFAULT '[]'"
		case FieldInt, FieldBool:
			decl += " DEFAULT 0"
		}
	}
	return decl
}
