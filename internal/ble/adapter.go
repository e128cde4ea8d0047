// Package ble provides the Bluetooth transport for EQ3 Smart thermostats:
// the pluggable adapter abstraction, the tinygo-bluetooth backend, and the
// connection manager that serializes request/response exchanges against the
// device's single GATT connection.
package ble

import "context"

// EQ3 Smart GATT UUIDs. Commands go to the write characteristic, the device
// answers on the notify characteristic.
const (
	ServiceUUID    = "3e135142-654f-9090-134a-a6ff5bb77046"
	WriteCharUUID  = "3fa4585a-ce4a-3bad-db4b-b8df8179ea09"
	NotifyCharUUID = "d0e8434d-cd29-0996-af41-6c90f4e0eb2a"
)

// Characteristic represents a BLE GATT characteristic.
type Characteristic interface {
	// Write sends data to the characteristic.
	Write(data []byte) error
	// Subscribe registers a callback for notifications on this characteristic.
	Subscribe(callback func(data []byte)) error
}

// Connection represents an active BLE connection to a peripheral.
type Connection interface {
	// DiscoverCharacteristic finds a characteristic by UUID within a service.
	DiscoverCharacteristic(serviceUUID, charUUID string) (Characteristic, error)
	// Disconnect terminates the connection.
	Disconnect() error
	// OnDisconnect registers a callback invoked when the connection drops.
	OnDisconnect(callback func())
}

// Adapter abstracts the BLE hardware adapter so the connection manager can
// be tested against a fake and the backend picked at construction time.
type Adapter interface {
	// Enable powers on the BLE adapter.
	Enable() error
	// Connect establishes a connection to the device with the given address.
	Connect(ctx context.Context, addr string) (Connection, error)
}
