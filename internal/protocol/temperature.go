package protocol

import (
	"fmt"
	"math"
	"time"
)

// Temperature bounds in Celsius. OffTemperature and OnTemperature are
// sentinels: the device reports them for a permanently closed/open valve, and
// they are only settable through the mode-write frame, never as a plain
// target temperature.
const (
	OffTemperature = 4.5
	OnTemperature  = 30.0
	MinTemperature = 5.0
	MaxTemperature = 29.5

	MinOffset = -3.5
	MaxOffset = 3.5
)

// Temperatures are carried as half-degree counts in a single byte. The .25°C
// midpoints round half-up: 17.25 encodes like 17.5, 17.2 like 17.0.
// math.Round on the doubled value gives exactly that for the positive domain.
func encodeTemperature(what string, t float64) (byte, error) {
	half := math.Round(t * 2)
	if half < OffTemperature*2 || half > OnTemperature*2 {
		return 0, &OutOfRangeError{What: what, Value: t, Domain: "[4.5, 30.0]"}
	}
	return byte(half), nil
}

// encodeSettableTemperature is the stricter check for the plain temperature
// write: the OFF/ON sentinels are not valid targets there.
func encodeSettableTemperature(what string, t float64) (byte, error) {
	half := math.Round(t * 2)
	if half < MinTemperature*2 || half > MaxTemperature*2 {
		return 0, &OutOfRangeError{What: what, Value: t, Domain: "[5.0, 29.5]"}
	}
	return byte(half), nil
}

func decodeTemperature(b byte) float64 {
	return float64(b) / 2
}

// encodeOffset maps [-3.5, +3.5] in half-degree steps onto 0x00..0x0e.
func encodeOffset(v float64) (byte, error) {
	steps := math.Round((v - MinOffset) * 2)
	if steps < 0 || steps > (MaxOffset-MinOffset)*2 {
		return 0, &OutOfRangeError{What: "temperature offset", Value: v, Domain: "[-3.5, +3.5]"}
	}
	return byte(steps), nil
}

func decodeOffset(b byte) float64 {
	return MinOffset + float64(b)/2
}

// TimeOfDay is minutes since midnight, quantized to the protocol's 10-minute
// steps. EndOfDay (24:00) is the reserved "no further change" sentinel used to
// pad schedule frames; it round-trips exactly and is never clamped to 23:50.
type TimeOfDay int

const EndOfDay TimeOfDay = 24 * 60

// MakeTimeOfDay builds a TimeOfDay from hours and minutes.
func MakeTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func encodeTimeOfDay(what string, t TimeOfDay) (byte, error) {
	if t < 0 || t > EndOfDay {
		return 0, &OutOfRangeError{What: what, Value: t, Domain: "[00:00, 24:00]"}
	}
	if t%10 != 0 {
		return 0, &OutOfRangeError{What: what, Value: t, Domain: "10-minute steps"}
	}
	return byte(t / 10), nil
}

func decodeTimeOfDay(b byte) (TimeOfDay, error) {
	if b > byte(EndOfDay/10) {
		return 0, &OutOfRangeError{What: "schedule time", Value: b, Domain: "[0, 144]"}
	}
	return TimeOfDay(int(b) * 10), nil
}

// Weekday is the device's day numbering for schedule frames: mon=0..sun=6.
// This is device-defined, not locale-defined; getting it wrong silently
// targets the wrong day.
type Weekday uint8

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

func (d Weekday) String() string {
	if int(d) < len(weekdayNames) {
		return weekdayNames[d]
	}
	return fmt.Sprintf("day(%d)", uint8(d))
}

// ParseWeekday accepts the short lowercase day names mon..sun.
func ParseWeekday(s string) (Weekday, error) {
	for i, name := range weekdayNames {
		if s == name {
			return Weekday(i), nil
		}
	}
	return 0, &OutOfRangeError{What: "weekday", Value: s, Domain: "mon..sun"}
}

// WindowOpenDuration bounds: the device stores the reset timeout in 5-minute
// steps, at most one hour.
const (
	windowOpenStep        = 5 * time.Minute
	maxWindowOpenDuration = time.Hour
)

func encodeWindowOpenDuration(d time.Duration) (byte, error) {
	if d < 0 || d > maxWindowOpenDuration {
		return 0, &OutOfRangeError{What: "window-open duration", Value: d, Domain: "[0, 1h]"}
	}
	return byte(d / windowOpenStep), nil
}

func decodeWindowOpenDuration(b byte) time.Duration {
	return time.Duration(b) * windowOpenStep
}
