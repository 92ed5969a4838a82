package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for all environment overrides (PRAYZ_DB, PRAYZ_LOG_LEVEL, ...).
const EnvPrefix = "prayz"

// Config holds application configuration. Session preferences chosen by the
// user (shuffle, time budget, ...) live in the store, not here.
type Config struct {
	// DBPath is the SQLite database file. Empty means the XDG default.
	DBPath string `yaml:"db_path" envconfig:"DB"`

	// LogLevel is a zerolog level name. "disabled" turns logging off.
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	// LogFile receives log output. The TUI owns stdout, so logs never go there.
	LogFile string `yaml:"log_file" envconfig:"LOG_FILE"`

	Session  SessionConfig  `yaml:"session"`
	Carousel CarouselConfig `yaml:"carousel"`
}

// SessionConfig tunes the prayer session timers.
type SessionConfig struct {
	// DwellThreshold is how long a slide must stay in view to count as prayed.
	DwellThreshold time.Duration `yaml:"dwell_threshold" envconfig:"DWELL_THRESHOLD"`
}

// CarouselConfig tunes swipe handling. Distances are in pixels; the TUI
// converts terminal columns using CellWidth.
type CarouselConfig struct {
	SwipeMinDistance float64       `yaml:"swipe_min_distance" envconfig:"SWIPE_MIN_DISTANCE"`
	SwipeWidthRatio  float64       `yaml:"swipe_width_ratio" envconfig:"SWIPE_WIDTH_RATIO"`
	DragThreshold    float64       `yaml:"drag_threshold" envconfig:"DRAG_THRESHOLD"`
	DragClearDelay   time.Duration `yaml:"drag_clear_delay" envconfig:"DRAG_CLEAR_DELAY"`
	FrameInterval    time.Duration `yaml:"frame_interval" envconfig:"FRAME_INTERVAL"`
	MeasureDebounce  time.Duration `yaml:"measure_debounce" envconfig:"MEASURE_DEBOUNCE"`
	MaxStep          float64       `yaml:"max_step" envconfig:"MAX_STEP"`
	CellWidth        float64       `yaml:"cell_width" envconfig:"CELL_WIDTH"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Session: SessionConfig{
			DwellThreshold: 12 * time.Second,
		},
		Carousel: CarouselConfig{
			SwipeMinDistance: 60,
			SwipeWidthRatio:  0.15,
			DragThreshold:    8,
			DragClearDelay:   150 * time.Millisecond,
			FrameInterval:    16 * time.Millisecond,
			MeasureDebounce:  50 * time.Millisecond,
			MaxStep:          880,
			CellWidth:        8,
		},
	}
}

// Load builds a Config from defaults, then the YAML file at path (missing
// file is fine), then PRAYZ_* environment variables.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	if c.Session.DwellThreshold <= 0 {
		return fmt.Errorf("session.dwell_threshold must be positive, got %s", c.Session.DwellThreshold)
	}
	if c.Carousel.SwipeWidthRatio < 0 || c.Carousel.SwipeWidthRatio > 1 {
		return fmt.Errorf("carousel.swipe_width_ratio must be within [0, 1], got %v", c.Carousel.SwipeWidthRatio)
	}
	if c.Carousel.CellWidth <= 0 {
		return fmt.Errorf("carousel.cell_width must be positive, got %v", c.Carousel.CellWidth)
	}
	return nil
}

// DefaultPath resolves the config file path:
// 1. $XDG_CONFIG_HOME/prayz/config.yaml
// 2. ~/.config/prayz/config.yaml
func DefaultPath() (string, error) {
	return xdgPath("XDG_CONFIG_HOME", ".config", "config.yaml")
}

// DefaultLogPath resolves the log file path under $XDG_STATE_HOME.
func DefaultLogPath() (string, error) {
	return xdgPath("XDG_STATE_HOME", filepath.Join(".local", "state"), "prayz.log")
}

func xdgPath(env, fallback, file string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, "prayz", file), nil
}
