// Package prefs persists per-model view preferences (filters and sort) as
// JSON files keyed by model name under the user config dir.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// View holds the saved filter/sort state for one model's list view.
type View struct {
	Status  string `json:"status,omitempty"`
	Project string `json:"project,omitempty"`
	Search  string `json:"search,omitempty"`
	SortBy  string `json:"sort_by,omitempty"`
	SortAsc bool   `json:"sort_asc,omitempty"`
}

// Model keys with saved views.
const (
	KeyTasks     = "tasks"
	KeyKnowledge = "knowledge"
)

func viewPath(key string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "taskdeck")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s.view.json", key)), nil
}

// SaveView writes the view for a model key atomically.
func SaveView(key string, v View) error {
	path, err := viewPath(key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadView reads the saved view for a model key. A missing file yields the
// zero view.
func LoadView(key string) (View, error) {
	path, err := viewPath(key)
	if err != nil {
		return View{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return View{}, nil
		}
		return View{}, err
	}
	var v View
	if err := json.Unmarshal(data, &v); err != nil {
		return View{}, err
	}
	return v, nil
}
