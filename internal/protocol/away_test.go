package protocol

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestEncodeAwayEnd(t *testing.T) {
	until := time.Date(2024, time.March, 1, 18, 0, 0, 0, time.Local)
	got, err := encodeAwayEnd(until)
	if err != nil {
		t.Fatalf("encodeAwayEnd() error = %v", err)
	}
	want := []byte{0x01, 0x18, 0x24, 0x03} // day 1, year 24, 18:00 doubled, March
	if !bytes.Equal(got, want) {
		t.Errorf("encodeAwayEnd() = %x, want %x", got, want)
	}
}

func TestAwayEndMinutesQuantizeToHalfHour(t *testing.T) {
	cases := []struct {
		minute int
		want   int
	}{
		{0, 0},
		{1, 30},
		{29, 30},
		{30, 30},
		{59, 30},
	}
	for _, c := range cases {
		until := time.Date(2024, time.March, 1, 18, c.minute, 0, 0, time.Local)
		enc, err := encodeAwayEnd(until)
		if err != nil {
			t.Fatalf("encodeAwayEnd(:%02d) error = %v", c.minute, err)
		}
		dec, err := decodeAwayEnd(enc)
		if err != nil {
			t.Fatalf("decodeAwayEnd(%x) error = %v", enc, err)
		}
		if dec.Minute() != c.want {
			t.Errorf("minute %d decoded as :%02d, want :%02d", c.minute, dec.Minute(), c.want)
		}
	}
}

func TestAwayEndRoundTripsByteExact(t *testing.T) {
	enc, err := encodeAwayEnd(time.Date(2031, time.December, 24, 23, 45, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("encodeAwayEnd() error = %v", err)
	}
	dec, err := decodeAwayEnd(enc)
	if err != nil {
		t.Fatalf("decodeAwayEnd() error = %v", err)
	}
	again, err := encodeAwayEnd(dec)
	if err != nil {
		t.Fatalf("re-encode error = %v", err)
	}
	if !bytes.Equal(enc, again) {
		t.Errorf("decoded timestamp re-encoded to %x, want %x", again, enc)
	}
}

func TestEncodeAwayEndYearRange(t *testing.T) {
	for _, year := range []int{1999, 2100} {
		_, err := encodeAwayEnd(time.Date(year, time.June, 1, 12, 0, 0, 0, time.Local))
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("encodeAwayEnd(year %d) error = %v, want OutOfRangeError", year, err)
		}
	}
}

func TestDecodeAwayEndRejectsBadDates(t *testing.T) {
	cases := [][]byte{
		{0x01, 0x18, 0x24, 0x00}, // month 0
		{0x01, 0x18, 0x24, 0x0d}, // month 13
		{0x00, 0x18, 0x24, 0x03}, // day 0
		{0x20, 0x18, 0x24, 0x03}, // day 32
		{0x01, 0x18, 0x30, 0x03}, // hour 24
	}
	for _, data := range cases {
		_, err := decodeAwayEnd(data)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("decodeAwayEnd(%x) error = %v, want OutOfRangeError", data, err)
		}
	}
}

func TestDecodeAwayEndRejectsImpossibleCalendarDates(t *testing.T) {
	cases := [][]byte{
		{0x1f, 0x18, 0x24, 0x02}, // Feb 31, 2024 — would normalize to Mar 2
		{0x1e, 0x17, 0x24, 0x02}, // Feb 30, 2023
		{0x1d, 0x17, 0x24, 0x02}, // Feb 29 in a non-leap year
		{0x1f, 0x18, 0x24, 0x04}, // Apr 31
	}
	for _, data := range cases {
		_, err := decodeAwayEnd(data)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("decodeAwayEnd(%x) error = %v, want OutOfRangeError", data, err)
		}
	}

	// Feb 29 in a leap year is a real date and must still decode.
	leap := []byte{0x1d, 0x18, 0x24, 0x02}
	dec, err := decodeAwayEnd(leap)
	if err != nil {
		t.Fatalf("decodeAwayEnd(%x) error = %v", leap, err)
	}
	if dec.Day() != 29 || dec.Month() != time.February {
		t.Errorf("decodeAwayEnd(%x) = %v, want Feb 29", leap, dec)
	}
}
