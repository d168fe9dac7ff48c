// Package config loads the session server's settings from flags, with
// CHESS_* environment variables providing the defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

const appName = "chess-engine"

// ErrInvalidConfig indicates a setting that failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Addr         string // listen address for the HTTP server
	AllowOrigins string // CORS origins of the board view
	DataDir      string // badger directory for the game archive
	Archive      bool   // archive finished games
	Verbosity    int    // stdr verbosity, 0 = important events only
}

func Default() *Config {
	return &Config{
		Addr:         ":3000",
		AllowOrigins: "http://localhost:5173",
		DataDir:      "",
		Archive:      true,
		Verbosity:    0,
	}
}

// Load parses args (without the program name) on top of the environment.
func Load(args []string) (*Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", cfg.AllowOrigins, "Comma separated CORS origins")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Archive directory (default: per-user data dir)")
	fs.BoolVar(&cfg.Archive, "archive", cfg.Archive, "Archive finished games")
	fs.IntVar(&cfg.Verbosity, "v", cfg.Verbosity, "Log verbosity")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Archive && cfg.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("CHESS_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("CHESS_ALLOW_ORIGINS"); v != "" {
		c.AllowOrigins = v
	}
	if v := getenv("CHESS_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := getenv("CHESS_ARCHIVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: CHESS_ARCHIVE=%q", ErrInvalidConfig, v)
		}
		c.Archive = b
	}
	if v := getenv("CHESS_VERBOSITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: CHESS_VERBOSITY=%q", ErrInvalidConfig, v)
		}
		c.Verbosity = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("%w: negative verbosity %d", ErrInvalidConfig, c.Verbosity)
	}
	if c.Archive && c.DataDir == "" {
		return fmt.Errorf("%w: archive enabled without a data directory", ErrInvalidConfig)
	}
	return nil
}

// DefaultDataDir returns the platform-specific data directory for the archive.
// - macOS: ~/Library/Application Support/chess-engine/db
// - Linux: $XDG_DATA_HOME/chess-engine/db or ~/.local/share/chess-engine/db
// - Windows: %APPDATA%/chess-engine/db
func DefaultDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")
	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}
	default:
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dbDir := filepath.Join(baseDir, appName, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	return dbDir, nil
}
