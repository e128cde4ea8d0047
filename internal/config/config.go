// Package config loads the YAML configuration shared by the eq3 tools.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	MAC            string     `yaml:"mac"`
	Adapter        string     `yaml:"adapter"` // HCI adapter hint, e.g. "hci0"
	TimeoutSeconds int        `yaml:"timeout_seconds"`
	LogLevel       string     `yaml:"log_level"`
	MQTT           MQTTConfig `yaml:"mqtt"`
}

// MQTTConfig holds the eq3mqtt bridge settings. The bridge is disabled when
// the broker URL is empty.
type MQTTConfig struct {
	Broker              string `yaml:"broker"`
	Username            string `yaml:"username"`
	Password            string `yaml:"password"`
	TopicPrefix         string `yaml:"topic_prefix"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
}

// On Linux the address is the thermostat's MAC; macOS substitutes the
// CoreBluetooth UUID, which this pattern deliberately also accepts.
var addrPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$|^[0-9A-Fa-f-]{36}$`)

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "eq3go")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values. The MAC has no
// useful default and must come from the file, a flag, or EQ3_MAC.
func Default() *Config {
	return &Config{
		Adapter:        "hci0",
		TimeoutSeconds: 2,
		LogLevel:       "info",
		MQTT: MQTTConfig{
			TopicPrefix:         "eq3",
			PollIntervalSeconds: 300,
		},
	}
}

// Load reads and parses a YAML config file. Missing fields are filled with
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.MAC == "" {
		return fmt.Errorf("mac must not be empty")
	}
	if !addrPattern.MatchString(c.MAC) {
		return fmt.Errorf("%q is not a valid device address", c.MAC)
	}

	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be > 0")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	if c.MQTT.Broker != "" {
		if c.MQTT.TopicPrefix == "" {
			return fmt.Errorf("mqtt.topic_prefix must not be empty")
		}
		if c.MQTT.PollIntervalSeconds <= 0 {
			return fmt.Errorf("mqtt.poll_interval_seconds must be > 0")
		}
	}

	return nil
}
