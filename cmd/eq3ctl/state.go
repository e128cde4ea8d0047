package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chaz8081/eq3go/internal/thermostat"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the current thermostat state",
	Args:  cobra.NoArgs,
	RunE:  runState,
}

func init() {
	rootCmd.AddCommand(stateCmd)
}

func runState(cmd *cobra.Command, args []string) error {
	dev, closeConn, err := dial(cmd.Context())
	if err != nil {
		return err
	}
	defer closeConn()
	printState(dev)
	return nil
}

func printState(dev *thermostat.Thermostat) {
	fmt.Printf("Mode:    %s\n", dev.Mode())
	if target, ok := dev.TargetTemperature(); ok {
		fmt.Printf("Target:  %.1f °C\n", target)
	}
	if valve, ok := dev.ValvePosition(); ok {
		fmt.Printf("Valve:   %d %%\n", valve)
	}
	if locked, ok := dev.Locked(); ok {
		fmt.Printf("Locked:  %v\n", locked)
	}
	if low, ok := dev.LowBattery(); ok {
		fmt.Printf("Battery: %s\n", batteryLabel(low))
	}
	if open, ok := dev.WindowOpen(); ok {
		fmt.Printf("Window:  %s\n", windowLabel(open))
	}
	if end, ok := dev.AwayEnd(); ok {
		fmt.Printf("Away until: %s\n", end.Format(time.RFC3339))
	}
	if presets, ok := dev.Presets(); ok {
		fmt.Printf("Presets: comfort %.1f °C, eco %.1f °C\n", presets.Comfort, presets.Eco)
	}
	if cfg, ok := dev.WindowOpenConfig(); ok {
		fmt.Printf("Window-open config: %.1f °C for %s\n", cfg.TriggerTemperature, cfg.Duration)
	}
	if offset, ok := dev.Offset(); ok {
		fmt.Printf("Offset:  %+.1f °C\n", offset)
	}
}

func batteryLabel(low bool) string {
	if low {
		return "LOW"
	}
	return "ok"
}

func windowLabel(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}
