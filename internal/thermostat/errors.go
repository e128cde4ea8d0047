package thermostat

import "fmt"

// UnsupportedOperationError means the firmware on the device does not
// implement the requested operation, inferred from the shape of its reply.
// It is surfaced as-is and never retried.
type UnsupportedOperationError struct {
	Op string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("thermostat: %s not supported by this firmware", e.Op)
}
