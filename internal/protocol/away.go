package protocol

import "time"

// Away-end timestamps are packed into four bytes: day of month, year offset
// from 2000, hour doubled with the low bit carrying the half hour, month.
// Minutes quantize to the half hour on encode (zero stays :00, anything else
// becomes :30), so every decoded timestamp re-encodes to identical bytes.

const awayEndLen = 4

func encodeAwayEnd(t time.Time) ([]byte, error) {
	if t.Year() < 2000 || t.Year() > 2099 {
		return nil, &OutOfRangeError{What: "away end year", Value: t.Year(), Domain: "[2000, 2099]"}
	}
	hour := byte(t.Hour() * 2)
	if t.Minute() != 0 {
		hour |= 0x01
	}
	return []byte{
		byte(t.Day()),
		byte(t.Year() - 2000),
		hour,
		byte(t.Month()),
	}, nil
}

func decodeAwayEnd(data []byte) (time.Time, error) {
	if len(data) != awayEndLen {
		return time.Time{}, &MalformedMessageError{Reason: "away end must be 4 bytes", Data: data}
	}
	day := int(data[0])
	year := 2000 + int(data[1])
	hour := int(data[2] / 2)
	minute := 0
	if data[2]&0x01 != 0 {
		minute = 30
	}
	month := time.Month(data[3])

	if month < time.January || month > time.December {
		return time.Time{}, &OutOfRangeError{What: "away end month", Value: data[3], Domain: "[1, 12]"}
	}
	if day < 1 || day > 31 {
		return time.Time{}, &OutOfRangeError{What: "away end day", Value: data[0], Domain: "[1, 31]"}
	}
	if hour > 23 {
		return time.Time{}, &OutOfRangeError{What: "away end hour", Value: data[2], Domain: "[0, 47]"}
	}
	res := time.Date(year, month, day, hour, minute, 0, 0, time.Local)
	// time.Date normalizes impossible dates (Feb 31 becomes Mar 2); such
	// payloads must be rejected, not reinterpreted.
	if res.Day() != day || res.Month() != month {
		return time.Time{}, &OutOfRangeError{
			What: "away end date", Value: data, Domain: "a real calendar date",
		}
	}
	return res, nil
}
