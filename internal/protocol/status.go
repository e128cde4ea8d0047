package protocol

import "time"

// Status payload offsets. Presence of the optional tail is decided by the
// payload length, not by a flags field; older firmware simply sends less.
//
//	[0]      0x02 (info return)
//	[1]      0x01
//	[2]      mode flags
//	[3]      valve position, percent
//	[4]      0x04
//	[5]      target temperature
//	[6..9]   away end, when length >= 10
//	[10..11] comfort/eco presets, when length >= 12
//	[12..13] window-open trigger + duration, when length >= 14
//	[14]     temperature offset, when length >= 15
const (
	statusMinLen        = 6
	statusAwayLen       = 10
	statusPresetsLen    = 12
	statusWindowOpenLen = 14
	statusOffsetLen     = 15
)

// Presets are the comfort (sun) and eco (moon) preset temperatures.
type Presets struct {
	Comfort float64
	Eco     float64
}

// WindowOpenConfig is the open-window reaction: drop to the trigger
// temperature for the given duration.
type WindowOpenConfig struct {
	TriggerTemperature float64
	Duration           time.Duration
}

// Status is a decoded status report. Optional fields are nil when the
// firmware's payload did not carry them. AwayEnd is set only while away mode
// is active.
type Status struct {
	Mode              ModeFlags
	ValvePosition     int
	TargetTemperature float64
	AwayEnd           *time.Time
	Presets           *Presets
	WindowOpen        *WindowOpenConfig
	Offset            *float64
}

func (*Status) message() {}

func parseStatus(data []byte) (*Status, error) {
	if len(data) < statusMinLen {
		return nil, &MalformedMessageError{Reason: "status too short", Data: data}
	}
	if data[1] != 0x01 || data[4] != 0x04 {
		return nil, &MalformedMessageError{Reason: "unexpected status constants", Data: data}
	}

	st := &Status{
		Mode:              ModeFlags(data[2]),
		ValvePosition:     int(data[3]),
		TargetTemperature: decodeTemperature(data[5]),
	}

	if len(data) >= statusAwayLen && st.Mode.Away() {
		end, err := decodeAwayEnd(data[6:10])
		if err != nil {
			return nil, err
		}
		st.AwayEnd = &end
	}
	if len(data) >= statusPresetsLen {
		st.Presets = &Presets{
			Comfort: decodeTemperature(data[10]),
			Eco:     decodeTemperature(data[11]),
		}
	}
	if len(data) >= statusWindowOpenLen {
		st.WindowOpen = &WindowOpenConfig{
			TriggerTemperature: decodeTemperature(data[12]),
			Duration:           decodeWindowOpenDuration(data[13]),
		}
	}
	if len(data) >= statusOffsetLen {
		offset := decodeOffset(data[14])
		st.Offset = &offset
	}
	return st, nil
}

// DeviceInfo identifies the firmware and serial of a thermostat. Both fields
// are read-only on the device.
//
//	[0]      0x01 (id return)
//	[1]      firmware version
//	[4..13]  serial, one character per byte offset by 0x30
const deviceInfoMinLen = 14

type DeviceInfo struct {
	FirmwareVersion int
	Serial          string
}

func (*DeviceInfo) message() {}

func parseDeviceInfo(data []byte) (*DeviceInfo, error) {
	if len(data) < deviceInfoMinLen {
		return nil, &MalformedMessageError{Reason: "device info too short", Data: data}
	}
	serial := make([]byte, 10)
	for i, b := range data[4:14] {
		serial[i] = b - 0x30
	}
	return &DeviceInfo{
		FirmwareVersion: int(data[1]),
		Serial:          string(serial),
	}, nil
}
