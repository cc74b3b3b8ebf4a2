// Package config manages NAND daemon configuration using koanf/v2.
//
// Supports YAML files and environment variables layered over defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// -------------------------------------------------------------------------
// Configuration Structures
// -------------------------------------------------------------------------

// Config holds the complete nand configuration.
type Config struct {
	HAL     HALConfig     `koanf:"hal"`
	Metrics MetricsConfig `koanf:"metrics"`
	Log     LogConfig     `koanf:"log"`
	Device  DeviceConfig  `koanf:"device"`
}

// HALConfig selects and configures the NAN HAL adapter.
type HALConfig struct {
	// Driver names which HAL adapter to use. Currently only "wpa_supplicant"
	// (internal/halbus, D-Bus) and "mock" (no firmware, for dry runs) are
	// recognized.
	Driver string `koanf:"driver"`

	// DBusObjectPath is the wpa_supplicant interface object path the
	// wpa_supplicant driver attaches to (e.g. "/fi/w1/wpa_supplicant1/Interfaces/0").
	DBusObjectPath string `koanf:"dbus_object_path"`
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9100").
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// DeviceConfig holds device-level settings for the NAN manager. Client
// ConfigRequests are not checked against any of these values.
type DeviceConfig struct {
	// DefaultMasterPreference is loaded from configuration but not passed
	// to the manager by cmd/nand; every device ConfigRequest comes from a
	// connected client.
	DefaultMasterPreference uint8 `koanf:"default_master_preference"`

	// EventQueueDepth sizes the manager's event loop queue.
	EventQueueDepth int `koanf:"event_queue_depth"`
}

// -------------------------------------------------------------------------
// Defaults
// -------------------------------------------------------------------------

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		HAL: HALConfig{
			Driver: "wpa_supplicant",
		},
		Metrics: MetricsConfig{
			Addr: ":9100",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Device: DeviceConfig{
			DefaultMasterPreference: 0,
			EventQueueDepth:         256,
		},
	}
}

// -------------------------------------------------------------------------
// Loader
// -------------------------------------------------------------------------

// envPrefix is the environment variable prefix for NAND configuration.
// Variables are named NAND_<section>_<key>, e.g., NAND_METRICS_ADDR.
const envPrefix = "NAND_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (NAND_ prefix), and merges on top of DefaultConfig().
// Missing fields inherit defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config from %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config from %s: %w", path, err)
	}

	return cfg, nil
}

// envKeyMapper transforms NAND_METRICS_ADDR -> metrics.addr.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "_", ".")
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"hal.driver":                        defaults.HAL.Driver,
		"hal.dbus_object_path":              defaults.HAL.DBusObjectPath,
		"metrics.addr":                      defaults.Metrics.Addr,
		"metrics.path":                      defaults.Metrics.Path,
		"log.level":                         defaults.Log.Level,
		"log.format":                        defaults.Log.Format,
		"device.default_master_preference":  defaults.Device.DefaultMasterPreference,
		"device.event_queue_depth":          defaults.Device.EventQueueDepth,
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Validation
// -------------------------------------------------------------------------

// Validation errors.
var (
	// ErrEmptyHALDriver indicates the HAL driver name is empty.
	ErrEmptyHALDriver = errors.New("hal.driver must not be empty")

	// ErrUnknownHALDriver indicates the HAL driver name is not recognized.
	ErrUnknownHALDriver = errors.New("hal.driver must be \"wpa_supplicant\" or \"mock\"")

	// ErrInvalidQueueDepth indicates the event queue depth is not positive.
	ErrInvalidQueueDepth = errors.New("device.event_queue_depth must be > 0")
)

// ValidHALDrivers lists the recognized hal.driver strings.
var ValidHALDrivers = map[string]bool{
	"wpa_supplicant": true,
	"mock":           true,
}

// Validate checks the configuration for logical errors.
func Validate(cfg *Config) error {
	if cfg.HAL.Driver == "" {
		return ErrEmptyHALDriver
	}
	if !ValidHALDrivers[cfg.HAL.Driver] {
		return ErrUnknownHALDriver
	}
	if cfg.Device.EventQueueDepth <= 0 {
		return ErrInvalidQueueDepth
	}
	return nil
}

// -------------------------------------------------------------------------
// Log Level Parsing
// -------------------------------------------------------------------------

// ParseLogLevel maps a configuration log level string to the corresponding
// slog.Level. Unknown values default to slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
