package protocol

// A schedule frame is always 16 bytes: opcode, day, then seven
// (temperature, time) byte pairs. The first pair holds the base temperature
// together with the time of the first change; each following pair holds a
// change point's temperature together with the time of the next change, or
// the 24:00 sentinel when no further change follows. Unused pairs are
// sentinel padding and must be emitted so the frame keeps its fixed length.
const (
	scheduleFrameLen = 16
	// MaxChangePoints is the number of change-point slots per day.
	MaxChangePoints = 6
)

// ChangePoint switches the target temperature at a time of day.
type ChangePoint struct {
	TargetTemperature float64
	ChangeAt          TimeOfDay
}

// ScheduleDay is one weekday's program: the base temperature holds from
// midnight until the first change point.
type ScheduleDay struct {
	Day             Weekday
	BaseTemperature float64
	ChangePoints    []ChangePoint
}

func (*ScheduleDay) message() {}

// ParseScheduleDay decodes a schedule return frame. Sentinel-padded slots are
// recognized and dropped, never surfaced as real transitions.
func ParseScheduleDay(data []byte) (*ScheduleDay, error) {
	if len(data) < 4 {
		return nil, &MalformedMessageError{Reason: "schedule too short", Data: data}
	}
	if data[0] != cmdScheduleReturn {
		return nil, &MalformedMessageError{Reason: "not a schedule frame", Data: data}
	}
	if data[1] > uint8(Sunday) {
		return nil, &MalformedMessageError{Reason: "invalid weekday", Data: data}
	}
	if len(data)%2 != 0 {
		return nil, &MalformedMessageError{Reason: "odd schedule length", Data: data}
	}

	day := &ScheduleDay{
		Day:             Weekday(data[1]),
		BaseTemperature: decodeTemperature(data[2]),
	}
	next, err := decodeTimeOfDay(data[3])
	if err != nil {
		return nil, err
	}

	for i := 4; i+1 < len(data); i += 2 {
		if next == EndOfDay {
			break // remaining slots are padding
		}
		day.ChangePoints = append(day.ChangePoints, ChangePoint{
			TargetTemperature: decodeTemperature(data[i]),
			ChangeAt:          next,
		})
		if next, err = decodeTimeOfDay(data[i+1]); err != nil {
			return nil, err
		}
	}
	if len(day.ChangePoints) > MaxChangePoints {
		return nil, &MalformedMessageError{Reason: "too many change points", Data: data}
	}
	return day, nil
}

// EncodeScheduleWrite builds the fixed-length write frame for one day.
// Change-point times must be strictly increasing inside (00:00, 24:00); a
// schedule that is out of order is rejected, never silently reordered.
func EncodeScheduleWrite(day ScheduleDay) ([]byte, error) {
	if len(day.ChangePoints) > MaxChangePoints {
		return nil, &OutOfRangeError{
			What: "change points", Value: len(day.ChangePoints), Domain: "[0, 6]",
		}
	}
	if day.Day > Sunday {
		return nil, &OutOfRangeError{What: "weekday", Value: day.Day, Domain: "mon..sun"}
	}
	prev := TimeOfDay(0)
	for _, cp := range day.ChangePoints {
		if cp.ChangeAt <= prev || cp.ChangeAt >= EndOfDay {
			return nil, &OutOfRangeError{
				What: "change time", Value: cp.ChangeAt, Domain: "strictly increasing within (00:00, 24:00)",
			}
		}
		prev = cp.ChangeAt
	}

	frame := make([]byte, 0, scheduleFrameLen)
	frame = append(frame, cmdScheduleReturn, byte(day.Day))

	temp, err := encodeTemperature("base temperature", day.BaseTemperature)
	if err != nil {
		return nil, err
	}
	frame = append(frame, temp)

	// Each slot's time field announces the next change, the last real slot
	// and all padding carry the end-of-day sentinel.
	lastTemp := temp
	for i := 0; i < MaxChangePoints+1; i++ {
		next := EndOfDay
		if i < len(day.ChangePoints) {
			next = day.ChangePoints[i].ChangeAt
		}
		at, err := encodeTimeOfDay("change time", next)
		if err != nil {
			return nil, err
		}
		frame = append(frame, at)

		if i == MaxChangePoints {
			break
		}
		if i < len(day.ChangePoints) {
			lastTemp, err = encodeTemperature("change temperature", day.ChangePoints[i].TargetTemperature)
			if err != nil {
				return nil, err
			}
		}
		frame = append(frame, lastTemp)
	}
	return frame, nil
}

// EncodeScheduleQuery asks the device for one day's program.
func EncodeScheduleQuery(day Weekday) ([]byte, error) {
	if day > Sunday {
		return nil, &OutOfRangeError{What: "weekday", Value: day, Domain: "mon..sun"}
	}
	return []byte{cmdScheduleQuery, byte(day)}, nil
}
