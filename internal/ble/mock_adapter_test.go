package ble

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// mockDevice is the scripted peripheral behind the mock adapter: it decides
// how writes fail and what the notify characteristic answers.
type mockDevice struct {
	mu         sync.Mutex
	writes     [][]byte
	failWrites int                 // fail this many writes before succeeding
	reply      func([]byte) []byte // nil means stay silent
	onWrite    func()              // observation hook for concurrency tests
}

func (d *mockDevice) write(data []byte, notify func([]byte)) error {
	d.mu.Lock()
	cp := make([]byte, len(data))
	copy(cp, data)
	d.writes = append(d.writes, cp)
	fail := d.failWrites > 0
	if fail {
		d.failWrites--
	}
	reply := d.reply
	hook := d.onWrite
	d.mu.Unlock()

	if hook != nil {
		hook()
	}
	if fail {
		return errors.New("mock: write failed")
	}
	if reply != nil && notify != nil {
		if resp := reply(cp); resp != nil {
			notify(resp)
		}
	}
	return nil
}

func (d *mockDevice) writeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.writes)
}

// mockCharacteristic wires one GATT characteristic to the device script.
type mockCharacteristic struct {
	conn    *mockConnection
	isWrite bool
}

func (c *mockCharacteristic) Write(data []byte) error {
	if !c.isWrite {
		return errors.New("mock: write to notify characteristic")
	}
	c.conn.mu.Lock()
	notify := c.conn.notifyCb
	c.conn.mu.Unlock()
	return c.conn.device.write(data, notify)
}

func (c *mockCharacteristic) Subscribe(cb func(data []byte)) error {
	c.conn.mu.Lock()
	defer c.conn.mu.Unlock()
	c.conn.notifyCb = cb
	return nil
}

// mockConnection simulates a BLE connection to the scripted device.
type mockConnection struct {
	device *mockDevice

	mu           sync.Mutex
	notifyCb     func([]byte)
	disconnectCb func()
	disconnected bool
}

func (c *mockConnection) DiscoverCharacteristic(serviceUUID, charUUID string) (Characteristic, error) {
	switch charUUID {
	case WriteCharUUID:
		return &mockCharacteristic{conn: c, isWrite: true}, nil
	case NotifyCharUUID:
		return &mockCharacteristic{conn: c}, nil
	default:
		return nil, fmt.Errorf("mock: unknown characteristic UUID %q", charUUID)
	}
}

func (c *mockConnection) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected = true
	return nil
}

func (c *mockConnection) OnDisconnect(cb func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectCb = cb
}

// mockAdapter simulates the BLE adapter and counts connection attempts.
type mockAdapter struct {
	device *mockDevice

	mu          sync.Mutex
	connects    int
	failConnect int // fail this many Connect calls before succeeding
}

func newMockAdapter() *mockAdapter {
	return &mockAdapter{device: &mockDevice{}}
}

func (a *mockAdapter) Enable() error { return nil }

func (a *mockAdapter) Connect(_ context.Context, _ string) (Connection, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connects++
	if a.failConnect > 0 {
		a.failConnect--
		return nil, errors.New("mock: connect failed")
	}
	return &mockConnection{device: a.device}, nil
}

func (a *mockAdapter) connectCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connects
}

func TestMockAdapterImplementsInterface(t *testing.T) {
	var _ Adapter = (*mockAdapter)(nil)
}

func TestMockConnectionImplementsInterface(t *testing.T) {
	var _ Connection = (*mockConnection)(nil)
}

func TestMockCharacteristicImplementsInterface(t *testing.T) {
	var _ Characteristic = (*mockCharacteristic)(nil)
}
