package protocol

import "time"

// Command frame builders. These are the only way frames are assembled;
// callers hand over validated logical parameters and never touch bytes.

// EncodeIDQuery asks for the serial number and firmware version.
func EncodeIDQuery() []byte {
	return []byte{cmdIDQuery}
}

// EncodeStatusRequest asks for a status report. The request doubles as the
// clock sync, so it always carries the current wall time.
func EncodeStatusRequest(now time.Time) []byte {
	return []byte{
		cmdInfoQuery,
		byte(now.Year() % 100),
		byte(now.Month()),
		byte(now.Day()),
		byte(now.Hour()),
		byte(now.Minute()),
		byte(now.Second()),
	}
}

// EncodeTemperatureWrite sets the target temperature. The OFF/ON sentinels
// are not valid here; they go through EncodeModeClosed/EncodeModeOpen.
func EncodeTemperatureWrite(t float64) ([]byte, error) {
	b, err := encodeSettableTemperature("target temperature", t)
	if err != nil {
		return nil, err
	}
	return []byte{cmdTemperatureWrite, b}, nil
}

// EncodeModeAuto switches to the weekly schedule.
func EncodeModeAuto() []byte {
	return []byte{cmdModeWrite, 0x00}
}

// EncodeModeManual switches to manual mode holding the given temperature.
func EncodeModeManual(t float64) ([]byte, error) {
	b, err := encodeSettableTemperature("manual target temperature", t)
	if err != nil {
		return nil, err
	}
	return []byte{cmdModeWrite, 0x40 | b}, nil
}

// EncodeModeClosed permanently closes the valve (manual at the OFF sentinel).
func EncodeModeClosed() []byte {
	return []byte{cmdModeWrite, 0x40 | byte(OffTemperature*2)}
}

// EncodeModeOpen permanently opens the valve (manual at the ON sentinel).
func EncodeModeOpen() []byte {
	return []byte{cmdModeWrite, 0x40 | byte(OnTemperature*2)}
}

// EncodeAway enables away mode at the given temperature until the given end.
// Whether the end lies in the future is the caller's business; only the
// encodable range is checked here.
func EncodeAway(until time.Time, t float64) ([]byte, error) {
	b, err := encodeTemperature("away temperature", t)
	if err != nil {
		return nil, err
	}
	end, err := encodeAwayEnd(until)
	if err != nil {
		return nil, err
	}
	frame := []byte{cmdModeWrite, 0x80 | b}
	return append(frame, end...), nil
}

// EncodeBoost turns boost mode on or off.
func EncodeBoost(on bool) []byte {
	return []byte{cmdBoost, boolByte(on)}
}

// EncodeLock engages or releases the child lock.
func EncodeLock(on bool) []byte {
	return []byte{cmdLock, boolByte(on)}
}

// EncodeOffset sets the measured-temperature offset.
func EncodeOffset(v float64) ([]byte, error) {
	b, err := encodeOffset(v)
	if err != nil {
		return nil, err
	}
	return []byte{cmdOffsetConfig, b}, nil
}

// EncodeWindowOpenConfig sets the open-window trigger temperature and the
// reset duration (5-minute steps, at most an hour).
func EncodeWindowOpenConfig(trigger float64, duration time.Duration) ([]byte, error) {
	t, err := encodeTemperature("window-open temperature", trigger)
	if err != nil {
		return nil, err
	}
	d, err := encodeWindowOpenDuration(duration)
	if err != nil {
		return nil, err
	}
	return []byte{cmdWindowOpenConfig, t, d}, nil
}

// EncodePresets sets the comfort (sun) and eco (moon) preset temperatures.
func EncodePresets(comfort, eco float64) ([]byte, error) {
	c, err := encodeTemperature("comfort temperature", comfort)
	if err != nil {
		return nil, err
	}
	e, err := encodeTemperature("eco temperature", eco)
	if err != nil {
		return nil, err
	}
	return []byte{cmdComfortEcoConfig, c, e}, nil
}

// EncodeComfortActivate switches the target to the comfort preset.
func EncodeComfortActivate() []byte {
	return []byte{cmdComfortActivate}
}

// EncodeEcoActivate switches the target to the eco preset.
func EncodeEcoActivate() []byte {
	return []byte{cmdEcoActivate}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
