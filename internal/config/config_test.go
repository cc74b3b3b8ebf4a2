package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/nan-project/nand/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()

	if cfg.HAL.Driver != "wpa_supplicant" {
		t.Errorf("HAL.Driver = %q, want %q", cfg.HAL.Driver, "wpa_supplicant")
	}

	if cfg.Metrics.Addr != ":9100" {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, ":9100")
	}

	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want %q", cfg.Metrics.Path, "/metrics")
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "info")
	}

	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}

	if cfg.Device.EventQueueDepth != 256 {
		t.Errorf("Device.EventQueueDepth = %d, want 256", cfg.Device.EventQueueDepth)
	}

	if err := config.Validate(cfg); err != nil {
		t.Errorf("DefaultConfig() failed validation: %v", err)
	}
}

func TestLoadFromYAML(t *testing.T) {
	t.Parallel()

	yamlContent := `
hal:
  driver: "mock"
  dbus_object_path: "/fi/w1/wpa_supplicant1/Interfaces/0"
metrics:
  addr: ":9200"
  path: "/custom-metrics"
log:
  level: "debug"
  format: "text"
device:
  default_master_preference: 7
  event_queue_depth: 512
`

	path := writeTemp(t, yamlContent)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	if cfg.HAL.Driver != "mock" {
		t.Errorf("HAL.Driver = %q, want %q", cfg.HAL.Driver, "mock")
	}

	if cfg.Metrics.Addr != ":9200" {
		t.Errorf("Metrics.Addr = %q, want %q", cfg.Metrics.Addr, ":9200")
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}

	if cfg.Device.DefaultMasterPreference != 7 {
		t.Errorf("Device.DefaultMasterPreference = %d, want 7", cfg.Device.DefaultMasterPreference)
	}

	if cfg.Device.EventQueueDepth != 512 {
		t.Errorf("Device.EventQueueDepth = %d, want 512", cfg.Device.EventQueueDepth)
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	t.Parallel()

	yamlContent := `
log:
  level: "warn"
`

	path := writeTemp(t, yamlContent)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error: %v", path, err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}

	if cfg.HAL.Driver != "wpa_supplicant" {
		t.Errorf("HAL.Driver = %q, want default %q", cfg.HAL.Driver, "wpa_supplicant")
	}

	if cfg.Metrics.Addr != ":9100" {
		t.Errorf("Metrics.Addr = %q, want default %q", cfg.Metrics.Addr, ":9100")
	}

	if cfg.Device.EventQueueDepth != 256 {
		t.Errorf("Device.EventQueueDepth = %d, want default 256", cfg.Device.EventQueueDepth)
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*config.Config)
		wantErr error
	}{
		{
			name: "empty hal driver",
			modify: func(cfg *config.Config) {
				cfg.HAL.Driver = ""
			},
			wantErr: config.ErrEmptyHALDriver,
		},
		{
			name: "unknown hal driver",
			modify: func(cfg *config.Config) {
				cfg.HAL.Driver = "made_up"
			},
			wantErr: config.ErrUnknownHALDriver,
		},
		{
			name: "zero queue depth",
			modify: func(cfg *config.Config) {
				cfg.Device.EventQueueDepth = 0
			},
			wantErr: config.ErrInvalidQueueDepth,
		},
		{
			name: "negative queue depth",
			modify: func(cfg *config.Config) {
				cfg.Device.EventQueueDepth = -1
			},
			wantErr: config.ErrInvalidQueueDepth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			tt.modify(cfg)

			err := config.Validate(cfg)
			if err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "unknown", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := config.ParseLogLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadNonexistentFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load("/nonexistent/path/config.yml")
	if err == nil {
		t.Fatal("Load() returned nil error for nonexistent file")
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "nand.yml")

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	return path
}
