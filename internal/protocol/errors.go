package protocol

import "fmt"

// OutOfRangeError reports a value outside the protocol-representable domain,
// e.g. a temperature, time or date the byte encoding cannot carry. It is
// returned before any frame is built, so nothing is ever sent for such a
// request.
type OutOfRangeError struct {
	What   string
	Value  any
	Domain string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("protocol: %s %v outside %s", e.What, e.Value, e.Domain)
}

// MalformedMessageError reports a notification payload that is too short or
// structurally inconsistent for its opcode. Callers must leave any cached
// state unchanged when they see it.
type MalformedMessageError struct {
	Reason string
	Data   []byte
}

func (e *MalformedMessageError) Error() string {
	return fmt.Sprintf("protocol: malformed message (%s): %x", e.Reason, e.Data)
}
