package ble

import (
	"context"
	"fmt"
	"sync"

	"tinygo.org/x/bluetooth"
)

// NativeAdapter wraps tinygo-org/bluetooth over the host stack (BlueZ on
// Linux, CoreBluetooth on macOS). On Linux the address is the thermostat's
// MAC; on macOS it is the CoreBluetooth UUID assigned to the peripheral.
// tinygo-bluetooth only exposes the default HCI adapter, so an interface
// selection in the configuration is best-effort.
type NativeAdapter struct {
	adapter *bluetooth.Adapter

	// mu protects the connections map.
	mu          sync.Mutex
	connections map[string]*nativeConnection // keyed by device address
}

// NewNativeAdapter creates a BLE adapter using the host Bluetooth stack.
func NewNativeAdapter() *NativeAdapter {
	return &NativeAdapter{
		adapter:     bluetooth.DefaultAdapter,
		connections: make(map[string]*nativeConnection),
	}
}

func (a *NativeAdapter) Enable() error {
	if err := a.adapter.Enable(); err != nil {
		return err
	}

	// The adapter-level handler fires with connected=false when a peripheral
	// drops; route it to the matching connection's OnDisconnect callback.
	a.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		if connected {
			return
		}
		id := device.Address.String()
		a.mu.Lock()
		conn, ok := a.connections[id]
		a.mu.Unlock()
		if ok && conn.disconnectCb != nil {
			conn.disconnectCb()
		}
	})

	return nil
}

func (a *NativeAdapter) Connect(ctx context.Context, addr string) (Connection, error) {
	var address bluetooth.Address
	address.Set(addr)

	// tinygo/bluetooth's Connect blocks internally with its own timeout.
	// We wrap it to also respect our ctx cancellation.
	type connectResult struct {
		device bluetooth.Device
		err    error
	}
	ch := make(chan connectResult, 1)
	go func() {
		device, err := a.adapter.Connect(address, bluetooth.ConnectionParams{})
		ch <- connectResult{device, err}
	}()

	select {
	case <-ctx.Done():
		// The underlying Connect will eventually time out or succeed; we
		// cannot cancel it from here, but we return immediately.
		return nil, fmt.Errorf("ble: connect to %s: %w", addr, ctx.Err())
	case result := <-ch:
		if result.err != nil {
			return nil, fmt.Errorf("ble: connect to %s: %w", addr, result.err)
		}
		conn := &nativeConnection{device: &result.device}

		// Track this connection so the adapter-level disconnect handler can
		// find it and fire its OnDisconnect callback.
		a.mu.Lock()
		a.connections[addr] = conn
		a.mu.Unlock()

		return conn, nil
	}
}

// Compile-time check that NativeAdapter implements Adapter.
var _ Adapter = (*NativeAdapter)(nil)

type nativeConnection struct {
	device       *bluetooth.Device
	disconnectCb func()
}

func (c *nativeConnection) DiscoverCharacteristic(serviceUUID, charUUID string) (Characteristic, error) {
	svcUUID, err := bluetooth.ParseUUID(serviceUUID)
	if err != nil {
		return nil, err
	}
	charUUIDParsed, err := bluetooth.ParseUUID(charUUID)
	if err != nil {
		return nil, err
	}

	svcs, err := c.device.DiscoverServices([]bluetooth.UUID{svcUUID})
	if err != nil {
		return nil, fmt.Errorf("ble: discover services: %w", err)
	}
	if len(svcs) == 0 {
		return nil, fmt.Errorf("ble: service %s not found", serviceUUID)
	}

	chars, err := svcs[0].DiscoverCharacteristics([]bluetooth.UUID{charUUIDParsed})
	if err != nil {
		return nil, fmt.Errorf("ble: discover characteristics: %w", err)
	}
	if len(chars) == 0 {
		return nil, fmt.Errorf("ble: characteristic %s not found", charUUID)
	}

	return &nativeCharacteristic{char: &chars[0]}, nil
}

func (c *nativeConnection) Disconnect() error {
	return c.device.Disconnect()
}

func (c *nativeConnection) OnDisconnect(cb func()) {
	c.disconnectCb = cb
}

type nativeCharacteristic struct {
	char *bluetooth.DeviceCharacteristic
}

func (c *nativeCharacteristic) Write(data []byte) error {
	_, err := c.char.WriteWithoutResponse(data)
	return err
}

func (c *nativeCharacteristic) Subscribe(cb func([]byte)) error {
	return c.char.EnableNotifications(func(buf []byte) {
		cb(buf)
	})
}
