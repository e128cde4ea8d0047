package protocol

import "strings"

// ModeFlags is the raw mode byte of a status report. Auto is the absence of
// the manual bit, so the two cannot coexist. Boost overrides the displayed
// target temperature but does not clear the other bits.
type ModeFlags uint8

const (
	FlagManual     ModeFlags = 0x01
	FlagAway       ModeFlags = 0x02
	FlagBoost      ModeFlags = 0x04
	FlagDST        ModeFlags = 0x08
	FlagWindowOpen ModeFlags = 0x10
	FlagLocked     ModeFlags = 0x20
	FlagUnknown    ModeFlags = 0x40
	FlagLowBattery ModeFlags = 0x80
)

func (m ModeFlags) Auto() bool       { return m&FlagManual == 0 }
func (m ModeFlags) Manual() bool     { return m&FlagManual != 0 }
func (m ModeFlags) Away() bool       { return m&FlagAway != 0 }
func (m ModeFlags) Boost() bool      { return m&FlagBoost != 0 }
func (m ModeFlags) DST() bool        { return m&FlagDST != 0 }
func (m ModeFlags) WindowOpen() bool { return m&FlagWindowOpen != 0 }
func (m ModeFlags) Locked() bool     { return m&FlagLocked != 0 }
func (m ModeFlags) LowBattery() bool { return m&FlagLowBattery != 0 }

func (m ModeFlags) String() string {
	parts := []string{"auto"}
	if m.Manual() {
		parts[0] = "manual"
	}
	if m.Away() {
		parts = append(parts, "away")
	}
	if m.Boost() {
		parts = append(parts, "boost")
	}
	if m.DST() {
		parts = append(parts, "dst")
	}
	if m.WindowOpen() {
		parts = append(parts, "window")
	}
	if m.Locked() {
		parts = append(parts, "locked")
	}
	if m.LowBattery() {
		parts = append(parts, "low battery")
	}
	return strings.Join(parts, " ")
}
