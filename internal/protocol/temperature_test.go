package protocol

import (
	"errors"
	"testing"
	"time"
)

func TestTemperatureRoundTrip(t *testing.T) {
	for temp := OffTemperature; temp <= OnTemperature; temp += 0.5 {
		b, err := encodeTemperature("temperature", temp)
		if err != nil {
			t.Fatalf("encodeTemperature(%v) error = %v", temp, err)
		}
		if got := decodeTemperature(b); got != temp {
			t.Errorf("decodeTemperature(encodeTemperature(%v)) = %v", temp, got)
		}
	}
}

func TestTemperatureQuantization(t *testing.T) {
	cases := []struct {
		in   float64
		want byte
	}{
		{17.0, 34},
		{17.2, 34},  // rounds down to 17.0
		{17.25, 35}, // .25 midpoints round half-up
		{17.3, 35},
		{17.5, 35},
		{21.0, 42},
	}
	for _, c := range cases {
		got, err := encodeTemperature("temperature", c.in)
		if err != nil {
			t.Fatalf("encodeTemperature(%v) error = %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("encodeTemperature(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestTemperatureOutOfRange(t *testing.T) {
	for _, temp := range []float64{4.0, 4.2, 30.3, 31.0, -1, 100} {
		_, err := encodeTemperature("temperature", temp)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("encodeTemperature(%v) error = %v, want OutOfRangeError", temp, err)
		}
	}
}

func TestSettableTemperatureRejectsSentinels(t *testing.T) {
	for _, temp := range []float64{OffTemperature, OnTemperature} {
		_, err := encodeSettableTemperature("target temperature", temp)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("encodeSettableTemperature(%v) error = %v, want OutOfRangeError", temp, err)
		}
	}
	if _, err := encodeSettableTemperature("target temperature", 29.5); err != nil {
		t.Errorf("encodeSettableTemperature(29.5) error = %v", err)
	}
}

func TestOffsetCodec(t *testing.T) {
	cases := []struct {
		in   float64
		want byte
	}{
		{-3.5, 0x00},
		{0, 0x07},
		{3.5, 0x0e},
	}
	for _, c := range cases {
		got, err := encodeOffset(c.in)
		if err != nil {
			t.Fatalf("encodeOffset(%v) error = %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("encodeOffset(%v) = %#x, want %#x", c.in, got, c.want)
		}
		if back := decodeOffset(got); back != c.in {
			t.Errorf("decodeOffset(%#x) = %v, want %v", got, back, c.in)
		}
	}

	for _, v := range []float64{-4.0, 3.6, 4.0} {
		if _, err := encodeOffset(v); err == nil {
			t.Errorf("encodeOffset(%v) expected error", v)
		}
	}
}

func TestTimeOfDayRoundTrip(t *testing.T) {
	for tod := TimeOfDay(0); tod <= EndOfDay; tod += 10 {
		b, err := encodeTimeOfDay("time", tod)
		if err != nil {
			t.Fatalf("encodeTimeOfDay(%v) error = %v", tod, err)
		}
		got, err := decodeTimeOfDay(b)
		if err != nil {
			t.Fatalf("decodeTimeOfDay(%d) error = %v", b, err)
		}
		if got != tod {
			t.Errorf("round trip %v = %v", tod, got)
		}
	}
}

func TestEndOfDaySentinelPreserved(t *testing.T) {
	b, err := encodeTimeOfDay("time", EndOfDay)
	if err != nil {
		t.Fatalf("encodeTimeOfDay(EndOfDay) error = %v", err)
	}
	if b != 144 {
		t.Fatalf("encodeTimeOfDay(EndOfDay) = %d, want 144", b)
	}
	got, err := decodeTimeOfDay(144)
	if err != nil {
		t.Fatalf("decodeTimeOfDay(144) error = %v", err)
	}
	if got != EndOfDay {
		t.Errorf("decodeTimeOfDay(144) = %v, want 24:00 sentinel", got)
	}
}

func TestTimeOfDayRejectsInvalid(t *testing.T) {
	for _, tod := range []TimeOfDay{-10, EndOfDay + 10, 65} {
		if _, err := encodeTimeOfDay("time", tod); err == nil {
			t.Errorf("encodeTimeOfDay(%v) expected error", tod)
		}
	}
	if _, err := decodeTimeOfDay(145); err == nil {
		t.Error("decodeTimeOfDay(145) expected error")
	}
}

func TestParseWeekday(t *testing.T) {
	for i, name := range []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"} {
		day, err := ParseWeekday(name)
		if err != nil {
			t.Fatalf("ParseWeekday(%q) error = %v", name, err)
		}
		if day != Weekday(i) {
			t.Errorf("ParseWeekday(%q) = %d, want %d", name, day, i)
		}
	}
	if _, err := ParseWeekday("monday"); err == nil {
		t.Error("ParseWeekday(monday) expected error")
	}
}

func TestWindowOpenDuration(t *testing.T) {
	b, err := encodeWindowOpenDuration(15 * time.Minute)
	if err != nil {
		t.Fatalf("encodeWindowOpenDuration error = %v", err)
	}
	if b != 3 {
		t.Errorf("encodeWindowOpenDuration(15m) = %d, want 3", b)
	}
	if got := decodeWindowOpenDuration(3); got != 15*time.Minute {
		t.Errorf("decodeWindowOpenDuration(3) = %v", got)
	}
	if _, err := encodeWindowOpenDuration(2 * time.Hour); err == nil {
		t.Error("expected error for duration over an hour")
	}
}
