package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents configuration data for the monitoring service.
type Config struct {
	ListenAddr          string `yaml:"listen_addr"`
	DataDirectory       string `yaml:"data_directory"`
	LogLevel            string `yaml:"log_level"`
	TickSeconds         int    `yaml:"tick_seconds"`
	ProbeTimeoutSeconds int    `yaml:"probe_timeout_seconds"`
	ConfirmThreshold    int    `yaml:"confirm_threshold"`
	MaxExtraMonitors    int    `yaml:"max_extra_monitors"`

	MainTarget   string `yaml:"main_target"`
	MainLabel    string `yaml:"main_label"`
	CustomTarget string `yaml:"custom_target"`
	CustomLabel  string `yaml:"custom_label"`
}

// DefaultConfig returns sensible defaults in case no configuration file is
// provided.
func DefaultConfig() Config {
	return Config{
		ListenAddr:          ":8080",
		DataDirectory:       filepath.Join(".dist", "data"),
		LogLevel:            "info",
		TickSeconds:         3,
		ProbeTimeoutSeconds: 2,
		ConfirmThreshold:    5,
		MaxExtraMonitors:    3,
		MainTarget:          "8.8.8.8",
		MainLabel:           "Main",
		CustomTarget:        "185.41.20.4",
		CustomLabel:         "Custom",
	}
}

// Load reads configuration from a yaml file. Missing files fall back to
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.TickSeconds <= 0 {
		cfg.TickSeconds = 3
	}
	if cfg.ProbeTimeoutSeconds <= 0 {
		cfg.ProbeTimeoutSeconds = 2
	}
	if cfg.ProbeTimeoutSeconds >= cfg.TickSeconds {
		return Config{}, fmt.Errorf("probe timeout (%ds) must be below the tick interval (%ds)", cfg.ProbeTimeoutSeconds, cfg.TickSeconds)
	}
	if cfg.ConfirmThreshold <= 0 {
		cfg.ConfirmThreshold = 5
	}
	if cfg.MaxExtraMonitors < 0 {
		cfg.MaxExtraMonitors = 0
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultConfig().ListenAddr
	}
	if cfg.DataDirectory == "" {
		cfg.DataDirectory = DefaultConfig().DataDirectory
	}
	if cfg.MainTarget == "" {
		return Config{}, errors.New("configuration must define a main target")
	}
	if cfg.CustomTarget == "" {
		return Config{}, errors.New("configuration must define a custom target")
	}
	return cfg, nil
}
