package ble

import "fmt"

// BackendError wraps a transport failure that survived the single
// reconnect-and-retry. The underlying transport cause is attached and
// available through errors.Unwrap.
type BackendError struct {
	Device string
	Err    error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("ble: request to %s failed: %v", e.Device, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
