// Package config loads the application config file. Timer durations are user
// settings and live in the database instead.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/pomo/internal/timer"
)

const (
	appName  = "pomo"
	fileName = "config.yaml"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Database      Database      `yaml:"database"`
	Log           Log           `yaml:"log"`
	Notifications Notifications `yaml:"notifications"`
	Timer         Timer         `yaml:"timer"`
}

type Database struct {
	// Path to the SQLite file. Empty means ~/.config/pomo/pomo.db.
	Path string `yaml:"path"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Notifications struct {
	Bell    bool `yaml:"bell"`
	Desktop bool `yaml:"desktop"`
}

type Timer struct {
	// Reconfigure is "reset" or "defer".
	Reconfigure string `yaml:"reconfigure"`
}

func Default() Config {
	return Config{
		Log:           Log{Level: "info"},
		Notifications: Notifications{Bell: true, Desktop: true},
		Timer:         Timer{Reconfigure: "reset"},
	}
}

// DefaultPath returns <UserConfigDir>/pomo/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, appName, fileName), nil
}

// DefaultLogPath returns <UserConfigDir>/pomo/pomo.log.
func DefaultLogPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, appName, appName+".log"), nil
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	if _, err := c.ReconfigurePolicy(); err != nil {
		return err
	}
	return nil
}

// ReconfigurePolicy maps timer.reconfigure onto the controller option value.
func (c Config) ReconfigurePolicy() (timer.ReconfigurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(c.Timer.Reconfigure)) {
	case "", "reset":
		return timer.ReconfigureReset, nil
	case "defer":
		return timer.ReconfigureDefer, nil
	}
	return timer.ReconfigureReset, fmt.Errorf("%w: timer.reconfigure %q", ErrInvalid, c.Timer.Reconfigure)
}
