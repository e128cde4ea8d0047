// Package protocol implements the binary codec for the EQ3 Bluetooth Smart
// thermostat characteristic protocol. All encoding and decoding is pure:
// no I/O, no state. Temperatures are in Celsius.
package protocol

// Command opcodes. The first byte of every frame exchanged over the
// write/notify characteristics.
const (
	cmdIDQuery          = 0x00
	cmdIDReturn         = 0x01
	cmdInfoReturn       = 0x02
	cmdInfoQuery        = 0x03
	cmdComfortEcoConfig = 0x11
	cmdOffsetConfig     = 0x13
	cmdWindowOpenConfig = 0x14
	cmdScheduleQuery    = 0x20
	cmdScheduleReturn   = 0x21
	cmdModeWrite        = 0x40
	cmdTemperatureWrite = 0x41
	cmdComfortActivate  = 0x43
	cmdEcoActivate      = 0x44
	cmdBoost            = 0x45
	cmdLock             = 0x80
)

// Message is a decoded notification payload. Concrete types are Status,
// DeviceInfo, ScheduleDay and Unknown.
type Message interface {
	message()
}

// Unknown carries a notification with an opcode this codec does not know.
// Unknown opcodes are not an error: newer firmware may add frames, and
// several write commands are acknowledged with short frames we have no
// structure for.
type Unknown struct {
	Opcode byte
	Raw    []byte
}

func (*Unknown) message() {}

// Decode parses a notification payload into its tagged message variant.
// Payloads shorter than the minimum for their opcode fail with
// MalformedMessageError; unknown opcodes decode to Unknown.
func Decode(data []byte) (Message, error) {
	if len(data) == 0 {
		return nil, &MalformedMessageError{Reason: "empty payload"}
	}
	switch data[0] {
	case cmdInfoReturn:
		return parseStatus(data)
	case cmdIDReturn:
		return parseDeviceInfo(data)
	case cmdScheduleReturn:
		return ParseScheduleDay(data)
	default:
		raw := make([]byte, len(data))
		copy(raw, data)
		return &Unknown{Opcode: data[0], Raw: raw}, nil
	}
}
