package config

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vango-dev/weft/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Engine.Scheduler != SchedulerLoop {
		t.Errorf("Engine.Scheduler = %q, want %q", cfg.Engine.Scheduler, SchedulerLoop)
	}
	if cfg.Engine.SlotBudget != DefaultSlotBudget {
		t.Errorf("Engine.SlotBudget = %v, want %v", cfg.Engine.SlotBudget, DefaultSlotBudget)
	}
	if cfg.Engine.SlotDelay != DefaultSlotDelay {
		t.Errorf("Engine.SlotDelay = %v, want %v", cfg.Engine.SlotDelay, DefaultSlotDelay)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Metrics.Namespace != DefaultNamespace || !cfg.MetricsEnabled() {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v does not wrap os.ErrNotExist", err)
	}

	configYAML := `engine:
  scheduler: manual
  slot_budget: 20ms
  manual_budget: 4
log:
  level: debug
  format: json
metrics:
  enabled: false
server:
  addr: "127.0.0.1:9000"
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := &Config{
		Engine: EngineConfig{
			Scheduler:    SchedulerManual,
			SlotBudget:   20 * time.Millisecond,
			SlotDelay:    DefaultSlotDelay,
			ManualBudget: 4,
		},
		Log:     LogConfig{Level: "debug", Format: "json"},
		Metrics: MetricsConfig{Enabled: new(bool), Namespace: DefaultNamespace, Path: DefaultMetricsPath},
		Server:  ServerConfig{Addr: "127.0.0.1:9000"},
	}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if cfg.MetricsEnabled() {
		t.Error("MetricsEnabled() = true, want false")
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadOptional(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if cfg.Engine.SlotBudget != DefaultSlotBudget {
		t.Errorf("SlotBudget = %v, want default", cfg.Engine.SlotBudget)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "engine: [", "Failed to parse"},
		{"bad scheduler", "engine:\n  scheduler: threads\n", "engine.scheduler"},
		{"negative budget", "engine:\n  slot_budget: -1ms\n", "must not be negative"},
		{"negative manual budget", "engine:\n  manual_budget: -2\n", "manual_budget"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad format", "log:\n  format: xml\n", "log.format"},
		{"bad metrics path", "metrics:\n  path: metrics\n", "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			var we *errors.WeftError
			if !stderrors.As(err, &we) || we.Code != "E040" {
				t.Fatalf("error = %v, want E040", err)
			}
			if !strings.Contains(we.Detail, tt.want) {
				t.Errorf("Detail = %q, want it to contain %q", we.Detail, tt.want)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := New()
	cfg.Engine.SlotBudget = 5 * time.Millisecond
	cfg.Server.Addr = ":9999"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if diff := cmp.Diff(cfg, loaded, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if err := loaded.Save(); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if err := New().Save(); err == nil {
		t.Error("Save() without path should fail")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := New()
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"

	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("output = %q, want JSON warn record", out)
	}
	if !logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("error level disabled")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := FindProjectRoot(nested); err == nil {
		t.Error("expected error without weft.yaml")
	}

	if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot() error = %v", err)
	}
	if got != root {
		t.Errorf("FindProjectRoot() = %q, want %q", got, root)
	}
}
