package protocol

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestEncodeStatusRequest(t *testing.T) {
	now := time.Date(2024, time.March, 1, 18, 4, 5, 0, time.Local)
	got := EncodeStatusRequest(now)
	want := []byte{0x03, 24, 3, 1, 18, 4, 5}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeStatusRequest() = %v, want %v", got, want)
	}
}

func TestEncodeIDQuery(t *testing.T) {
	if got := EncodeIDQuery(); !bytes.Equal(got, []byte{0x00}) {
		t.Errorf("EncodeIDQuery() = %x, want 00", got)
	}
}

func TestEncodeTemperatureWrite(t *testing.T) {
	got, err := EncodeTemperatureWrite(21.0)
	if err != nil {
		t.Fatalf("EncodeTemperatureWrite() error = %v", err)
	}
	if !bytes.Equal(got, []byte{0x41, 42}) {
		t.Errorf("EncodeTemperatureWrite(21.0) = %x, want 412a", got)
	}

	for _, temp := range []float64{4.5, 30.0, 31.0, 2.0} {
		_, err := EncodeTemperatureWrite(temp)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Errorf("EncodeTemperatureWrite(%v) error = %v, want OutOfRangeError", temp, err)
		}
	}
}

func TestEncodeModeFrames(t *testing.T) {
	if got := EncodeModeAuto(); !bytes.Equal(got, []byte{0x40, 0x00}) {
		t.Errorf("EncodeModeAuto() = %x", got)
	}
	if got := EncodeModeClosed(); !bytes.Equal(got, []byte{0x40, 0x40 | 9}) {
		t.Errorf("EncodeModeClosed() = %x", got)
	}
	if got := EncodeModeOpen(); !bytes.Equal(got, []byte{0x40, 0x40 | 60}) {
		t.Errorf("EncodeModeOpen() = %x", got)
	}

	got, err := EncodeModeManual(21.0)
	if err != nil {
		t.Fatalf("EncodeModeManual() error = %v", err)
	}
	if !bytes.Equal(got, []byte{0x40, 0x40 | 42}) {
		t.Errorf("EncodeModeManual(21.0) = %x", got)
	}
	if _, err := EncodeModeManual(31.0); err == nil {
		t.Error("expected error for manual target out of range")
	}
}

func TestEncodeAway(t *testing.T) {
	until := time.Date(2024, time.March, 1, 18, 0, 0, 0, time.Local)
	got, err := EncodeAway(until, 18.0)
	if err != nil {
		t.Fatalf("EncodeAway() error = %v", err)
	}
	want := []byte{0x40, 0x80 | 36, 0x01, 0x18, 0x24, 0x03}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeAway() = %x, want %x", got, want)
	}

	if _, err := EncodeAway(time.Date(2150, 1, 1, 0, 0, 0, 0, time.Local), 18.0); err == nil {
		t.Error("expected error for unrepresentable year")
	}
	if _, err := EncodeAway(until, 99.0); err == nil {
		t.Error("expected error for away temperature out of range")
	}
}

// A status frame produced from an away command must decode back to the same
// half-hour-quantized timestamp and temperature.
func TestAwayFrameRoundTripsThroughStatus(t *testing.T) {
	until := time.Date(2024, time.March, 1, 18, 0, 0, 0, time.Local)
	frame, err := EncodeAway(until, 18.0)
	if err != nil {
		t.Fatalf("EncodeAway() error = %v", err)
	}

	// The device echoes the away end in its status report.
	status := []byte{0x02, 0x01, byte(FlagAway | FlagManual), 0x00, 0x04, frame[1] &^ 0x80}
	status = append(status, frame[2:]...)
	msg, err := Decode(status)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	st := msg.(*Status)
	if st.TargetTemperature != 18.0 {
		t.Errorf("TargetTemperature = %v, want 18.0", st.TargetTemperature)
	}
	if st.AwayEnd == nil || !st.AwayEnd.Equal(until) {
		t.Errorf("AwayEnd = %v, want %v", st.AwayEnd, until)
	}
}

func TestEncodeBoostLock(t *testing.T) {
	if got := EncodeBoost(true); !bytes.Equal(got, []byte{0x45, 0x01}) {
		t.Errorf("EncodeBoost(true) = %x", got)
	}
	if got := EncodeBoost(false); !bytes.Equal(got, []byte{0x45, 0x00}) {
		t.Errorf("EncodeBoost(false) = %x", got)
	}
	if got := EncodeLock(true); !bytes.Equal(got, []byte{0x80, 0x01}) {
		t.Errorf("EncodeLock(true) = %x", got)
	}
}

func TestEncodeOffsetFrame(t *testing.T) {
	got, err := EncodeOffset(-1.0)
	if err != nil {
		t.Fatalf("EncodeOffset() error = %v", err)
	}
	if !bytes.Equal(got, []byte{0x13, 0x05}) {
		t.Errorf("EncodeOffset(-1.0) = %x, want 1305", got)
	}
	if _, err := EncodeOffset(4.0); err == nil {
		t.Error("expected error for offset out of range")
	}
}

func TestEncodeWindowOpenConfigFrame(t *testing.T) {
	got, err := EncodeWindowOpenConfig(12.0, 15*time.Minute)
	if err != nil {
		t.Fatalf("EncodeWindowOpenConfig() error = %v", err)
	}
	if !bytes.Equal(got, []byte{0x14, 24, 3}) {
		t.Errorf("EncodeWindowOpenConfig() = %x", got)
	}
}

func TestEncodePresetsFrame(t *testing.T) {
	got, err := EncodePresets(21.0, 17.0)
	if err != nil {
		t.Fatalf("EncodePresets() error = %v", err)
	}
	if !bytes.Equal(got, []byte{0x11, 42, 34}) {
		t.Errorf("EncodePresets() = %x", got)
	}
	if _, err := EncodePresets(40.0, 17.0); err == nil {
		t.Error("expected error for comfort out of range")
	}
}

func TestEncodeComfortEcoActivate(t *testing.T) {
	if got := EncodeComfortActivate(); !bytes.Equal(got, []byte{0x43}) {
		t.Errorf("EncodeComfortActivate() = %x", got)
	}
	if got := EncodeEcoActivate(); !bytes.Equal(got, []byte{0x44}) {
		t.Errorf("EncodeEcoActivate() = %x", got)
	}
}
