package config

import (
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/weft/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "weft.yaml"

	// DefaultSlotBudget is how long a loop slot may run, measured from the
	// moment it was requested.
	DefaultSlotBudget = 50 * time.Millisecond

	// DefaultSlotDelay is how long a requested loop slot waits before it runs.
	DefaultSlotDelay = time.Millisecond

	// DefaultAddr is the default listen address of weft serve.
	DefaultAddr = ":8080"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "weft"

	// DefaultMetricsPath is the default metrics endpoint.
	DefaultMetricsPath = "/metrics"
)

// Scheduler names.
const (
	SchedulerLoop   = "loop"
	SchedulerManual = "manual"
)

// Config represents the complete weft.yaml configuration.
type Config struct {
	// Engine configures scheduling of render passes.
	Engine EngineConfig `yaml:"engine"`

	// Log configures the slog handler.
	Log LogConfig `yaml:"log"`

	// Metrics configures the Prometheus collector.
	Metrics MetricsConfig `yaml:"metrics"`

	// Server configures weft serve.
	Server ServerConfig `yaml:"server"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// EngineConfig configures the scheduler driving the engine.
type EngineConfig struct {
	// Scheduler is "loop" (default) or "manual".
	Scheduler string `yaml:"scheduler"`

	// SlotBudget is the loop scheduler's deadline per unit.
	SlotBudget time.Duration `yaml:"slot_budget"`

	// SlotDelay is the loop scheduler's delay before a unit runs.
	SlotDelay time.Duration `yaml:"slot_delay"`

	// ManualBudget is the manual scheduler's fibers per slot. Zero means
	// unlimited.
	ManualBudget int `yaml:"manual_budget"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`

	// Format is text or json.
	Format string `yaml:"format"`
}

// MetricsConfig configures metrics.
type MetricsConfig struct {
	// Enabled controls whether engine metrics are recorded.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Namespace is the Prometheus namespace.
	Namespace string `yaml:"namespace"`

	// Path is where weft serve exposes metrics.
	Path string `yaml:"path"`
}

// ServerConfig configures the demo server.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`
}

// New creates a configuration with defaults.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads weft.yaml from dir. A missing file is an error.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOptional loads weft.yaml from dir, returning defaults if the file
// does not exist.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err != nil && stderrors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	return cfg, err
}

// LoadFile loads and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E041").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				Wrap(err)
		}
		return nil, errors.New("E041").Wrap(err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E040").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid YAML")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("E041").WithDetail("The configuration was not loaded from a file; use SaveTo.")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("E040").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E041").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Engine.Scheduler == "" {
		c.Engine.Scheduler = SchedulerLoop
	}
	if c.Engine.SlotBudget == 0 {
		c.Engine.SlotBudget = DefaultSlotBudget
	}
	if c.Engine.SlotDelay == 0 {
		c.Engine.SlotDelay = DefaultSlotDelay
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Enabled == nil {
		enabled := true
		c.Metrics.Enabled = &enabled
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Engine.Scheduler {
	case SchedulerLoop, SchedulerManual:
	default:
		return errors.New("E040").
			WithDetail("engine.scheduler must be loop or manual, got " + c.Engine.Scheduler)
	}
	if c.Engine.SlotBudget < 0 || c.Engine.SlotDelay < 0 {
		return errors.New("E040").
			WithDetail("engine.slot_budget and engine.slot_delay must not be negative")
	}
	if c.Engine.ManualBudget < 0 {
		return errors.New("E040").
			WithDetail("engine.manual_budget must not be negative")
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E040").
			WithDetail("log.level must be debug, info, warn or error, got " + c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E040").
			WithDetail("log.format must be text or json, got " + c.Log.Format)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E040").
			WithDetail("metrics.path must start with /")
	}
	return nil
}

// MetricsEnabled reports whether engine metrics should be recorded.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}

// Logger builds the configured slog logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// weft.yaml.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E041").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
