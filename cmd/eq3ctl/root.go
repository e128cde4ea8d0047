package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chaz8081/eq3go/internal/ble"
	"github.com/chaz8081/eq3go/internal/config"
	"github.com/chaz8081/eq3go/internal/thermostat"
)

var (
	flagMAC     string
	flagAdapter string
	flagConfig  string
	flagDebug   bool
	flagTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "eq3ctl",
	Short: "Control an EQ3 Bluetooth radiator thermostat",
	Long: `eq3ctl talks to an EQ3 Bluetooth Smart radiator thermostat.

The device address comes from --mac, the EQ3_MAC environment variable, or
the config file (` + "~" + `/.config/eq3go/config.yaml), in that order of
precedence. On Linux the address is the thermostat's MAC; on macOS it is
the CoreBluetooth UUID assigned to the peripheral.

Run without a subcommand to print the current state.`,
	SilenceUsage: true,
	RunE:         runState,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagMAC, "mac", "m", "", "Device address (or set EQ3_MAC)")
	rootCmd.PersistentFlags().StringVar(&flagAdapter, "adapter", "", "HCI adapter hint, e.g. hci0 (best-effort: the host stack picks the default adapter)")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file path")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Reply timeout per request")
}

// loadConfig merges the config file (if present), environment, and flags.
// Flags win over the environment, which wins over the file.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	explicit := path != ""
	if !explicit {
		path = config.DefaultConfigPath()
	}

	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if env := os.Getenv("EQ3_MAC"); env != "" {
		cfg.MAC = env
	}
	if flagMAC != "" {
		cfg.MAC = flagMAC
	}
	if flagAdapter != "" {
		cfg.Adapter = flagAdapter
	}
	if flagTimeout > 0 {
		cfg.TimeoutSeconds = int(flagTimeout / time.Second)
		if cfg.TimeoutSeconds == 0 {
			cfg.TimeoutSeconds = 1
		}
	}
	if flagDebug {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// dial connects to the configured thermostat and refreshes its state. The
// returned cleanup closes the BLE session.
func dial(ctx context.Context) (*thermostat.Thermostat, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	setupLogging(cfg)

	if cfg.Adapter != "" && cfg.Adapter != "hci0" {
		slog.Warn("adapter selection is best-effort, using the default adapter", "requested", cfg.Adapter)
	}

	adapter := ble.NewNativeAdapter()
	if err := adapter.Enable(); err != nil {
		return nil, nil, fmt.Errorf("enabling bluetooth: %w", err)
	}

	conn := ble.NewConn(adapter, cfg.MAC, time.Duration(cfg.TimeoutSeconds)*time.Second)
	dev := thermostat.New(conn)
	if err := dev.Update(ctx); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return dev, func() { conn.Close() }, nil
}
