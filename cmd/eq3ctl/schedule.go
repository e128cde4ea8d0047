package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chaz8081/eq3go/internal/protocol"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule [day]",
	Short: "Show the weekly heating program",
	Long: `Print the heating program for one day (mon..sun), or for the whole
week when no day is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, closeConn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer closeConn()

		days := []protocol.Weekday{
			protocol.Monday, protocol.Tuesday, protocol.Wednesday,
			protocol.Thursday, protocol.Friday, protocol.Saturday, protocol.Sunday,
		}
		if len(args) == 1 {
			day, err := protocol.ParseWeekday(args[0])
			if err != nil {
				return err
			}
			days = []protocol.Weekday{day}
		}

		for _, day := range days {
			sched, err := dev.QuerySchedule(cmd.Context(), day)
			if err != nil {
				return err
			}
			printScheduleDay(sched)
		}
		return nil
	},
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set <day> <base-temp> [HH:MM=temp ...]",
	Short: "Write one day's heating program",
	Long: `Write the program for one day. The base temperature holds from
midnight; each HH:MM=temp pair switches to the given temperature at that
time. Up to six change points, strictly increasing, on 10 minute
boundaries.

Example: eq3ctl schedule set mon 17.0 06:00=21.5 22:30=17.0`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := protocol.ParseWeekday(args[0])
		if err != nil {
			return err
		}
		base, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid base temperature %q", args[1])
		}

		sched := protocol.ScheduleDay{Day: day, BaseTemperature: base}
		for _, arg := range args[2:] {
			cp, err := parseChangePoint(arg)
			if err != nil {
				return err
			}
			sched.ChangePoints = append(sched.ChangePoints, cp)
		}

		dev, closeConn, err := dial(cmd.Context())
		if err != nil {
			return err
		}
		defer closeConn()

		if err := dev.SetSchedule(cmd.Context(), sched); err != nil {
			return err
		}
		// Read back what the device stored.
		stored, err := dev.QuerySchedule(cmd.Context(), day)
		if err != nil {
			return err
		}
		printScheduleDay(stored)
		return nil
	},
}

// parseChangePoint parses one "HH:MM=temp" argument.
func parseChangePoint(s string) (protocol.ChangePoint, error) {
	at, temp, ok := strings.Cut(s, "=")
	if !ok {
		return protocol.ChangePoint{}, fmt.Errorf("invalid change point %q, want HH:MM=temp", s)
	}
	hh, mm, ok := strings.Cut(at, ":")
	if !ok {
		return protocol.ChangePoint{}, fmt.Errorf("invalid time %q, want HH:MM", at)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return protocol.ChangePoint{}, fmt.Errorf("invalid hour in %q", at)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return protocol.ChangePoint{}, fmt.Errorf("invalid minute in %q", at)
	}
	target, err := strconv.ParseFloat(temp, 64)
	if err != nil {
		return protocol.ChangePoint{}, fmt.Errorf("invalid temperature %q", temp)
	}
	return protocol.ChangePoint{
		TargetTemperature: target,
		ChangeAt:          protocol.MakeTimeOfDay(hour, minute),
	}, nil
}

func printScheduleDay(sched *protocol.ScheduleDay) {
	fmt.Printf("%s: %.1f °C from 00:00\n", sched.Day, sched.BaseTemperature)
	for _, cp := range sched.ChangePoints {
		fmt.Printf("     %.1f °C from %s\n", cp.TargetTemperature, cp.ChangeAt)
	}
}

func init() {
	scheduleCmd.AddCommand(scheduleSetCmd)
	rootCmd.AddCommand(scheduleCmd)
}
