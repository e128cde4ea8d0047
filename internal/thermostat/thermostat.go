// Package thermostat holds the in-memory state machine for a single EQ3
// thermostat and the operations a caller invokes on it. Frames are built by
// the protocol package and exchanged through an injected requester, so the
// device logic stays testable without any Bluetooth hardware.
package thermostat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chaz8081/eq3go/internal/protocol"
)

// Requester sends one command frame and returns the device's single reply.
// It is the connection manager's contract: blocking, one request in flight,
// reconnect-once semantics behind it.
type Requester interface {
	Request(ctx context.Context, frame []byte) ([]byte, error)
}

// Mode is the logical operating mode derived from the last status report.
type Mode int

const (
	ModeUnknown Mode = iota - 1
	ModeClosed
	ModeOpen
	ModeAuto
	ModeManual
	ModeAway
	ModeBoost
)

var modeNames = map[Mode]string{
	ModeUnknown: "unknown",
	ModeClosed:  "closed",
	ModeOpen:    "open",
	ModeAuto:    "auto",
	ModeManual:  "manual",
	ModeAway:    "away",
	ModeBoost:   "boost",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps the user-facing mode names onto Mode values.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if s == name && m != ModeUnknown {
			return m, nil
		}
	}
	return ModeUnknown, fmt.Errorf("thermostat: unknown mode %q", s)
}

// Defaults applied when away mode is enabled without explicit parameters,
// mirroring the device vendor's app.
const (
	DefaultAwayTemperature = 12.0
	DefaultAwayDuration    = 30 * 24 * time.Hour
)

// Thermostat owns the cached state of one device. Before the first
// successful Update the state is unknown and every getter reports absence.
// A new status decode replaces the whole cached status; device-info fields
// are only touched by id responses. Instances for different devices are
// independent.
type Thermostat struct {
	conn Requester
	now  func() time.Time

	mu       sync.Mutex
	status   *protocol.Status
	info     *protocol.DeviceInfo
	schedule map[protocol.Weekday]*protocol.ScheduleDay
}

// New creates a thermostat over an established requester.
func New(conn Requester) *Thermostat {
	return &Thermostat{
		conn:     conn,
		now:      time.Now,
		schedule: make(map[protocol.Weekday]*protocol.ScheduleDay),
	}
}

// exchange sends a frame and decodes the reply. The cached state is only
// touched by the callers, never here.
func (t *Thermostat) exchange(ctx context.Context, frame []byte) (protocol.Message, error) {
	resp, err := t.conn.Request(ctx, frame)
	if err != nil {
		return nil, err
	}
	return protocol.Decode(resp)
}

// exchangeStatus sends a frame whose reply must be a status report, and
// replaces the cached status with it.
func (t *Thermostat) exchangeStatus(ctx context.Context, frame []byte) error {
	msg, err := t.exchange(ctx, frame)
	if err != nil {
		return err
	}
	st, ok := msg.(*protocol.Status)
	if !ok {
		return &protocol.MalformedMessageError{Reason: fmt.Sprintf("expected status reply, got %T", msg)}
	}
	t.mu.Lock()
	t.status = st
	t.mu.Unlock()
	slog.Debug("status updated", "mode", st.Mode, "target", st.TargetTemperature, "valve", st.ValvePosition)
	return nil
}

// exchangeConfig sends a configuration frame. Firmware that supports the
// setting answers with a status report; anything else means the operation is
// not available on this device.
func (t *Thermostat) exchangeConfig(ctx context.Context, op string, frame []byte) error {
	msg, err := t.exchange(ctx, frame)
	if err != nil {
		return err
	}
	st, ok := msg.(*protocol.Status)
	if !ok {
		return &UnsupportedOperationError{Op: op}
	}
	t.mu.Lock()
	t.status = st
	t.mu.Unlock()
	return nil
}

// Update queries the device for a fresh status report. The request carries
// the current wall time, which keeps the device clock in sync.
func (t *Thermostat) Update(ctx context.Context) error {
	return t.exchangeStatus(ctx, protocol.EncodeStatusRequest(t.now()))
}

// QueryID fetches the serial number and firmware version.
func (t *Thermostat) QueryID(ctx context.Context) error {
	msg, err := t.exchange(ctx, protocol.EncodeIDQuery())
	if err != nil {
		return err
	}
	info, ok := msg.(*protocol.DeviceInfo)
	if !ok {
		return &protocol.MalformedMessageError{Reason: fmt.Sprintf("expected device info reply, got %T", msg)}
	}
	t.mu.Lock()
	t.info = info
	t.mu.Unlock()
	return nil
}

// SetTargetTemperature sets a new target. The OFF/ON sentinels route through
// the mode write, everything else through the plain temperature write; out of
// range values are rejected before anything is sent.
func (t *Thermostat) SetTargetTemperature(ctx context.Context, temp float64) error {
	switch temp {
	case protocol.OffTemperature:
		return t.exchangeStatus(ctx, protocol.EncodeModeClosed())
	case protocol.OnTemperature:
		return t.exchangeStatus(ctx, protocol.EncodeModeOpen())
	}
	frame, err := protocol.EncodeTemperatureWrite(temp)
	if err != nil {
		return err
	}
	return t.exchangeStatus(ctx, frame)
}

// SetMode switches the operating mode. Manual holds the last known target;
// away uses the default away temperature and duration (use SetAway for
// explicit values). Leaving boost mode clears boost first, since boost only
// overlays the stored mode.
func (t *Thermostat) SetMode(ctx context.Context, mode Mode) error {
	if t.Mode() == ModeBoost && mode != ModeBoost {
		if err := t.SetBoost(ctx, false); err != nil {
			return err
		}
	}

	switch mode {
	case ModeBoost:
		return t.SetBoost(ctx, true)
	case ModeAway:
		return t.SetAway(ctx, t.now().Add(DefaultAwayDuration), DefaultAwayTemperature)
	case ModeClosed:
		return t.exchangeStatus(ctx, protocol.EncodeModeClosed())
	case ModeOpen:
		return t.exchangeStatus(ctx, protocol.EncodeModeOpen())
	case ModeManual:
		target, ok := t.TargetTemperature()
		if !ok {
			return fmt.Errorf("thermostat: manual mode needs a known target temperature, call Update first")
		}
		target = min(max(target, protocol.MinTemperature), protocol.MaxTemperature)
		frame, err := protocol.EncodeModeManual(target)
		if err != nil {
			return err
		}
		return t.exchangeStatus(ctx, frame)
	case ModeAuto:
		return t.exchangeStatus(ctx, protocol.EncodeModeAuto())
	default:
		return fmt.Errorf("thermostat: cannot switch to mode %s", mode)
	}
}

// SetAway enables away mode holding the given temperature until the given
// end. The caller is responsible for picking an end in the future; only the
// encodable range is validated. Away and boost are treated as mutually
// exclusive: the device reports the resulting mode bits and they never carry
// both.
func (t *Thermostat) SetAway(ctx context.Context, until time.Time, temp float64) error {
	frame, err := protocol.EncodeAway(until, temp)
	if err != nil {
		return err
	}
	return t.exchangeStatus(ctx, frame)
}

// CancelAway ends away mode by returning to the schedule.
func (t *Thermostat) CancelAway(ctx context.Context) error {
	return t.exchangeStatus(ctx, protocol.EncodeModeAuto())
}

// SetBoost enables or disables boost mode. Boost does not change the stored
// target temperature; leaving boost restores the previous display.
func (t *Thermostat) SetBoost(ctx context.Context, on bool) error {
	return t.exchangeStatus(ctx, protocol.EncodeBoost(on))
}

// SetLocked engages or releases the physical button lock.
func (t *Thermostat) SetLocked(ctx context.Context, on bool) error {
	return t.exchangeStatus(ctx, protocol.EncodeLock(on))
}

// SetOffset sets the measured-temperature offset, [-3.5, +3.5] in half
// degrees.
func (t *Thermostat) SetOffset(ctx context.Context, offset float64) error {
	frame, err := protocol.EncodeOffset(offset)
	if err != nil {
		return err
	}
	return t.exchangeConfig(ctx, "set offset", frame)
}

// SetWindowOpenConfig configures the open-window reaction.
func (t *Thermostat) SetWindowOpenConfig(ctx context.Context, trigger float64, duration time.Duration) error {
	frame, err := protocol.EncodeWindowOpenConfig(trigger, duration)
	if err != nil {
		return err
	}
	return t.exchangeConfig(ctx, "set window-open config", frame)
}

// SetPresets sets the comfort and eco preset temperatures.
func (t *Thermostat) SetPresets(ctx context.Context, comfort, eco float64) error {
	frame, err := protocol.EncodePresets(comfort, eco)
	if err != nil {
		return err
	}
	return t.exchangeConfig(ctx, "set presets", frame)
}

// ActivateComfort switches the target to the comfort preset.
func (t *Thermostat) ActivateComfort(ctx context.Context) error {
	return t.exchangeStatus(ctx, protocol.EncodeComfortActivate())
}

// ActivateEco switches the target to the eco preset.
func (t *Thermostat) ActivateEco(ctx context.Context) error {
	return t.exchangeStatus(ctx, protocol.EncodeEcoActivate())
}

// QuerySchedule fetches one day's program and caches it. Days are cached
// lazily: only queried days are present.
func (t *Thermostat) QuerySchedule(ctx context.Context, day protocol.Weekday) (*protocol.ScheduleDay, error) {
	frame, err := protocol.EncodeScheduleQuery(day)
	if err != nil {
		return nil, err
	}
	msg, err := t.exchange(ctx, frame)
	if err != nil {
		return nil, err
	}
	sched, ok := msg.(*protocol.ScheduleDay)
	if !ok {
		return nil, &protocol.MalformedMessageError{Reason: fmt.Sprintf("expected schedule reply, got %T", msg)}
	}
	t.mu.Lock()
	t.schedule[sched.Day] = sched
	t.mu.Unlock()
	return sched, nil
}

// Schedule returns the cached program for a day, if it has been queried
// since the last write to that day.
func (t *Thermostat) Schedule(day protocol.Weekday) (*protocol.ScheduleDay, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	sched, ok := t.schedule[day]
	return sched, ok
}

// SetSchedule writes one day's program. A successful write invalidates that
// day's cache entry so the next read re-queries the device.
func (t *Thermostat) SetSchedule(ctx context.Context, day protocol.ScheduleDay) error {
	frame, err := protocol.EncodeScheduleWrite(day)
	if err != nil {
		return err
	}
	if _, err := t.exchange(ctx, frame); err != nil {
		return err
	}
	t.mu.Lock()
	delete(t.schedule, day.Day)
	t.mu.Unlock()
	return nil
}

// Status returns a copy of the last decoded status report.
func (t *Thermostat) Status() (protocol.Status, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == nil {
		return protocol.Status{}, false
	}
	return *t.status, true
}

// Mode derives the logical mode from the cached flags: boost wins the
// display, then away, then manual (with the valve sentinels mapped to
// closed/open), otherwise auto.
func (t *Thermostat) Mode() Mode {
	st, ok := t.Status()
	if !ok {
		return ModeUnknown
	}
	switch {
	case st.Mode.Boost():
		return ModeBoost
	case st.Mode.Away():
		return ModeAway
	case st.Mode.Manual() && st.TargetTemperature == protocol.OffTemperature:
		return ModeClosed
	case st.Mode.Manual() && st.TargetTemperature == protocol.OnTemperature:
		return ModeOpen
	case st.Mode.Manual():
		return ModeManual
	default:
		return ModeAuto
	}
}

// TargetTemperature reports the cached target, false before the first update.
func (t *Thermostat) TargetTemperature() (float64, bool) {
	st, ok := t.Status()
	if !ok {
		return 0, false
	}
	return st.TargetTemperature, true
}

// ValvePosition reports the cached valve opening in percent.
func (t *Thermostat) ValvePosition() (int, bool) {
	st, ok := t.Status()
	if !ok {
		return 0, false
	}
	return st.ValvePosition, true
}

// AwayEnd reports the away end timestamp while away mode is active.
func (t *Thermostat) AwayEnd() (time.Time, bool) {
	st, ok := t.Status()
	if !ok || st.AwayEnd == nil {
		return time.Time{}, false
	}
	return *st.AwayEnd, true
}

// Locked reports the button lock state.
func (t *Thermostat) Locked() (bool, bool) {
	st, ok := t.Status()
	return ok && st.Mode.Locked(), ok
}

// LowBattery reports the battery warning flag.
func (t *Thermostat) LowBattery() (bool, bool) {
	st, ok := t.Status()
	return ok && st.Mode.LowBattery(), ok
}

// WindowOpen reports whether the device detected an open window.
func (t *Thermostat) WindowOpen() (bool, bool) {
	st, ok := t.Status()
	return ok && st.Mode.WindowOpen(), ok
}

// Presets reports the cached comfort/eco presets on firmware that sends them.
func (t *Thermostat) Presets() (protocol.Presets, bool) {
	st, ok := t.Status()
	if !ok || st.Presets == nil {
		return protocol.Presets{}, false
	}
	return *st.Presets, true
}

// WindowOpenConfig reports the cached open-window configuration.
func (t *Thermostat) WindowOpenConfig() (protocol.WindowOpenConfig, bool) {
	st, ok := t.Status()
	if !ok || st.WindowOpen == nil {
		return protocol.WindowOpenConfig{}, false
	}
	return *st.WindowOpen, true
}

// Offset reports the cached temperature offset.
func (t *Thermostat) Offset() (float64, bool) {
	st, ok := t.Status()
	if !ok || st.Offset == nil {
		return 0, false
	}
	return *st.Offset, true
}

// DeviceInfo reports the cached serial/firmware after QueryID.
func (t *Thermostat) DeviceInfo() (protocol.DeviceInfo, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.info == nil {
		return protocol.DeviceInfo{}, false
	}
	return *t.info, true
}
