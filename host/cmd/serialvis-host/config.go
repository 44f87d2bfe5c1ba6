package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"serialvis/host/device"
	"serialvis/host/serial"
)

type fileConfig struct {
	Device        string `toml:"device"`
	Baud          int    `toml:"baud"`
	ReadTimeoutMS int    `toml:"read_timeout_ms"`
	SendAttempts  int    `toml:"send_attempts"`
	LogLevel      string `toml:"log_level"`
	DryRun        bool   `toml:"dry_run"`
}

// hostConfig is the resolved configuration after file and flag overrides
type hostConfig struct {
	Serial       serial.Config
	SendAttempts int
	LogLevel     string
	DryRun       bool
}

func defaultHostConfig() hostConfig {
	return hostConfig{
		Serial:       *serial.DefaultConfig("/dev/ttyACM0"),
		SendAttempts: device.DefaultSendAttempts,
	}
}

func loadHostConfig(path string) (hostConfig, error) {
	cfg := defaultHostConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return hostConfig{}, fmt.Errorf("load host config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return hostConfig{}, fmt.Errorf("load host config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("device") {
		if dev := strings.TrimSpace(raw.Device); dev != "" {
			cfg.Serial.Device = dev
		}
	}

	if meta.IsDefined("baud") {
		if raw.Baud <= 0 {
			return hostConfig{}, fmt.Errorf("parse baud: must be positive, got %d", raw.Baud)
		}
		cfg.Serial.Baud = raw.Baud
	}

	if meta.IsDefined("read_timeout_ms") {
		if raw.ReadTimeoutMS < 0 {
			return hostConfig{}, fmt.Errorf("parse read_timeout_ms: must not be negative, got %d", raw.ReadTimeoutMS)
		}
		cfg.Serial.ReadTimeout = raw.ReadTimeoutMS
	}

	if meta.IsDefined("send_attempts") {
		if raw.SendAttempts < 1 {
			return hostConfig{}, fmt.Errorf("parse send_attempts: must be at least 1, got %d", raw.SendAttempts)
		}
		cfg.SendAttempts = raw.SendAttempts
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if meta.IsDefined("dry_run") {
		cfg.DryRun = raw.DryRun
	}

	return cfg, nil
}
