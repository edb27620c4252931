package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKDECK_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7320", cfg.Server.Addr)
	require.Equal(t, "http://127.0.0.1:7320", cfg.Board.ServerURL)
	require.Contains(t, cfg.Database.Path, "taskdeck.db")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("TASKDECK_CONFIG", path)

	want := Config{
		Server:   ServerConfig{Addr: "0.0.0.0:9000"},
		Database: DatabaseConfig{Path: "/tmp/deck.db"},
		Board:    BoardConfig{ServerURL: "http://deck.local:9000", Project: "work"},
	}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, want.Server.Addr, got.Server.Addr)
	require.Equal(t, want.Database.Path, got.Database.Path)
	require.Equal(t, want.Board.ServerURL, got.Board.ServerURL)
	require.Equal(t, want.Board.Project, got.Board.Project)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKDECK_CONFIG", "")
	t.Setenv("TASKDECK_SERVER_ADDR", "127.0.0.1:8100")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8100", cfg.Server.Addr)
}
