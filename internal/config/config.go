package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Board    BoardConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// BoardConfig holds settings for the board client.
type BoardConfig struct {
	ServerURL string `mapstructure:"server_url"`
	Project   string
}

// Load reads configuration from file and env. Env var overrides use prefix TASKDECK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.addr", "127.0.0.1:7320")
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "taskdeck", "taskdeck.db"))
	v.SetDefault("board.server_url", "http://127.0.0.1:7320")
	v.SetDefault("board.project", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TASKDECK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "taskdeck"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TASKDECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// Used by the board client to persist the server URL and project scope.
func Save(cfg Config) error {
	path := os.Getenv("TASKDECK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "taskdeck", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("database.path", cfg.Database.Path)
	v.Set("board.server_url", cfg.Board.ServerURL)
	v.Set("board.project", cfg.Board.Project)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
