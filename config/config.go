package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// PortConfig selects input ports to monitor
type PortConfig struct {
	Match       string `json:"match"` // case-insensitive substring of the port name
	AutoConnect bool   `json:"autoConnect"`
}

// Config is the main configuration structure
type Config struct {
	Ports          []PortConfig `json:"ports,omitempty"`
	Palette        string       `json:"palette,omitempty"`
	Debug          bool         `json:"debug,omitempty"`
	PollIntervalMs int          `json:"pollIntervalMs,omitempty"`
	QueueSize      int          `json:"queueSize,omitempty"`
	SysExLimit     int          `json:"sysexLimit,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		PollIntervalMs: 1000,
		QueueSize:      16,
		SysExLimit:     256,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "midimon"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields defaults;
// fields absent from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.PollIntervalMs < 0 {
		return fmt.Errorf("%w: pollIntervalMs must not be negative", ErrInvalid)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("%w: queueSize must not be negative", ErrInvalid)
	}
	if c.SysExLimit < 0 {
		return fmt.Errorf("%w: sysexLimit must not be negative", ErrInvalid)
	}
	for i, p := range c.Ports {
		if p.Match == "" {
			return fmt.Errorf("%w: ports[%d].match is empty", ErrInvalid, i)
		}
	}
	return nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// PollInterval returns the hot-plug scan period
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalMs <= 0 {
		return time.Second
	}
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// FindPort finds a port config by match string
func (c *Config) FindPort(match string) *PortConfig {
	for i := range c.Ports {
		if c.Ports[i].Match == match {
			return &c.Ports[i]
		}
	}
	return nil
}

// AddPort adds or updates a port config
func (c *Config) AddPort(p PortConfig) {
	for i := range c.Ports {
		if c.Ports[i].Match == p.Match {
			c.Ports[i] = p
			return
		}
	}
	c.Ports = append(c.Ports, p)
}

// AutoConnectMatches returns the match strings of auto-connect ports
func (c *Config) AutoConnectMatches() []string {
	var result []string
	for _, p := range c.Ports {
		if p.AutoConnect {
			result = append(result, p.Match)
		}
	}
	return result
}
