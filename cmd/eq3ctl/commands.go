package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/chaz8081/eq3go/internal/thermostat"
)

var tempCmd = &cobra.Command{
	Use:   "temp [temperature]",
	Short: "Show or set the target temperature",
	Long: `Without an argument, print the current target temperature.
With one, set it: 5.0 to 29.5 in half-degree steps, or the sentinels
4.5 (valve fully closed) and 30.0 (valve fully open).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, closeConn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer closeConn()

		if len(args) == 0 {
			if target, ok := dev.TargetTemperature(); ok {
				fmt.Printf("Target: %.1f °C\n", target)
			}
			return nil
		}
		temp, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q", args[0])
		}
		if err := dev.SetTargetTemperature(cmd.Context(), temp); err != nil {
			return err
		}
		printState(dev)
		return nil
	},
}

var modeCmd = &cobra.Command{
	Use:   "mode [auto|manual|boost|away|closed|open]",
	Short: "Show or set the operating mode",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, closeConn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer closeConn()

		if len(args) == 0 {
			fmt.Printf("Mode: %s\n", dev.Mode())
			return nil
		}
		mode, err := thermostat.ParseMode(args[0])
		if err != nil {
			return err
		}
		if err := dev.SetMode(cmd.Context(), mode); err != nil {
			return err
		}
		printState(dev)
		return nil
	},
}

var boostCmd = &cobra.Command{
	Use:   "boost [on|off]",
	Short: "Show or set boost mode",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, closeConn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer closeConn()

		if len(args) == 0 {
			fmt.Printf("Boost: %v\n", dev.Mode() == thermostat.ModeBoost)
			return nil
		}
		on, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		if err := dev.SetBoost(cmd.Context(), on); err != nil {
			return err
		}
		printState(dev)
		return nil
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock [on|off]",
	Short: "Show or set the button lock",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, closeConn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer closeConn()

		if len(args) == 0 {
			if locked, ok := dev.Locked(); ok {
				fmt.Printf("Locked: %v\n", locked)
			}
			return nil
		}
		on, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		if err := dev.SetLocked(cmd.Context(), on); err != nil {
			return err
		}
		printState(dev)
		return nil
	},
}

var offsetCmd = &cobra.Command{
	Use:   "offset [degrees]",
	Short: "Show or set the temperature offset (-3.5 to +3.5)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, closeConn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer closeConn()

		if len(args) == 0 {
			if offset, ok := dev.Offset(); ok {
				fmt.Printf("Offset: %+.1f °C\n", offset)
			} else {
				fmt.Println("Offset: not reported by this firmware")
			}
			return nil
		}
		offset, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid offset %q", args[0])
		}
		if err := dev.SetOffset(cmd.Context(), offset); err != nil {
			return err
		}
		printState(dev)
		return nil
	},
}

var presetsCmd = &cobra.Command{
	Use:   "presets [comfort eco]",
	Short: "Show or set the comfort/eco preset temperatures",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, closeConn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer closeConn()

		if len(args) == 0 {
			if presets, ok := dev.Presets(); ok {
				fmt.Printf("Comfort: %.1f °C\nEco:     %.1f °C\n", presets.Comfort, presets.Eco)
			} else {
				fmt.Println("Presets: not reported by this firmware")
			}
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("presets needs both comfort and eco temperatures")
		}
		comfort, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid comfort temperature %q", args[0])
		}
		eco, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid eco temperature %q", args[1])
		}
		if err := dev.SetPresets(cmd.Context(), comfort, eco); err != nil {
			return err
		}
		printState(dev)
		return nil
	},
}

var comfortCmd = &cobra.Command{
	Use:   "comfort",
	Short: "Switch the target to the comfort preset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, closeConn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer closeConn()
		if err := dev.ActivateComfort(cmd.Context()); err != nil {
			return err
		}
		printState(dev)
		return nil
	},
}

var ecoCmd = &cobra.Command{
	Use:   "eco",
	Short: "Switch the target to the eco preset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, closeConn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer closeConn()
		if err := dev.ActivateEco(cmd.Context()); err != nil {
			return err
		}
		printState(dev)
		return nil
	},
}

var windowOpenCmd = &cobra.Command{
	Use:   "window-open [temperature duration]",
	Short: "Show or set the open-window reaction",
	Long: `Without arguments, print the configured open-window reaction.
With a temperature and a duration (e.g. 12.0 15m), configure it: when the
device detects an open window it holds the given temperature for the given
time. The duration uses 5 minute steps up to one hour.`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, closeConn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer closeConn()

		if len(args) == 0 {
			if cfg, ok := dev.WindowOpenConfig(); ok {
				fmt.Printf("Window-open: %.1f °C for %s\n", cfg.TriggerTemperature, cfg.Duration)
			} else {
				fmt.Println("Window-open config: not reported by this firmware")
			}
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("window-open needs a temperature and a duration")
		}
		temp, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid temperature %q", args[0])
		}
		duration, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid duration %q", args[1])
		}
		if err := dev.SetWindowOpenConfig(cmd.Context(), temp, duration); err != nil {
			return err
		}
		printState(dev)
		return nil
	},
}

var (
	awayTemp  float64
	awayHours int
	awayUntil string
)

var awayCmd = &cobra.Command{
	Use:   "away [off]",
	Short: "Enable away mode, or end it with 'away off'",
	Long: `Enable away mode holding --temp until --until (RFC 3339) or for
--hours from now. Away end times are stored on the device in half-hour
steps. 'away off' returns to the weekly schedule.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, closeConn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer closeConn()

		if len(args) == 1 {
			if args[0] != "off" {
				return fmt.Errorf("unknown argument %q, did you mean 'away off'?", args[0])
			}
			if err := dev.CancelAway(cmd.Context()); err != nil {
				return err
			}
			printState(dev)
			return nil
		}

		until := time.Now().Add(time.Duration(awayHours) * time.Hour)
		if awayUntil != "" {
			until, err = time.Parse(time.RFC3339, awayUntil)
			if err != nil {
				return fmt.Errorf("invalid --until %q, want RFC 3339", awayUntil)
			}
		}
		if err := dev.SetAway(cmd.Context(), until, awayTemp); err != nil {
			return err
		}
		printState(dev)
		return nil
	},
}

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Print the serial number and firmware version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, closeConn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer closeConn()

		if err := dev.QueryID(cmd.Context()); err != nil {
			return err
		}
		info, ok := dev.DeviceInfo()
		if !ok {
			return fmt.Errorf("device did not report its id")
		}
		fmt.Printf("Serial:   %s\nFirmware: %d\n", info.Serial, info.FirmwareVersion)
		return nil
	},
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func init() {
	awayCmd.Flags().Float64Var(&awayTemp, "temp", thermostat.DefaultAwayTemperature, "Temperature to hold while away")
	awayCmd.Flags().IntVar(&awayHours, "hours", 24*30, "Away duration in hours from now")
	awayCmd.Flags().StringVar(&awayUntil, "until", "", "Away end as RFC 3339 timestamp (overrides --hours)")

	rootCmd.AddCommand(tempCmd, modeCmd, boostCmd, lockCmd, offsetCmd,
		presetsCmd, comfortCmd, ecoCmd, windowOpenCmd, awayCmd, deviceCmd)
}
