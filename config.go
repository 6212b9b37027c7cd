package collider

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config selects how enabled nodes become colliders.
type Config struct {
	// EnableKey is the metadata key that opts a node in.
	EnableKey string `yaml:"enable_key" toml:"enable_key"`
	// Sensor makes enabled colliders sensors instead of solids.
	Sensor              bool   `yaml:"sensor" toml:"sensor"`
	ReportEvents        bool   `yaml:"report_events" toml:"report_events"`
	ContinuousCollision bool   `yaml:"continuous_collision" toml:"continuous_collision"`
	LogLevel            string `yaml:"log_level" toml:"log_level"`
	DebugOutput         string `yaml:"debug_output,omitempty" toml:"debug_output,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		EnableKey:           DefaultEnableKey,
		Sensor:              false,
		ReportEvents:        true,
		ContinuousCollision: true,
		LogLevel:            "info",
	}
}

// LoadConfig reads a YAML or TOML file over the defaults, picked by
// extension. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("config %s: unsupported extension", path)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.EnableKey == "" {
		cfg.EnableKey = DefaultEnableKey
	}
	return cfg, nil
}

// ActivationFor maps an enabled flag to a decision under this config.
func (c Config) ActivationFor(enabled bool) ActivationDecision {
	if !enabled {
		return ActivationDecision{Mode: Inactive}
	}
	d := ActivationDecision{
		Mode:                ActiveSolid,
		ContinuousCollision: c.ContinuousCollision,
	}
	if c.Sensor {
		d.Mode = ActiveSensor
	}
	if c.ReportEvents {
		d.Events = CollisionEvents
	}
	return d
}

func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
