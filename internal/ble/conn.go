package ble

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTimeout bounds the wait for the device's reply notification.
const DefaultTimeout = 2 * time.Second

// Conn owns the single logical session to one thermostat. Every logical
// operation is one write followed by one reply notification; the protocol
// has no request ids, so requests are strictly serialized and at most one is
// in flight. On a transport failure the same operation is retried after
// exactly one reconnect; a second failure surfaces as BackendError.
type Conn struct {
	adapter Adapter
	addr    string
	timeout time.Duration

	// mu serializes requests and guards the session fields.
	mu            sync.Mutex
	session       Connection
	writeChar     Characteristic
	notifications chan []byte

	dropped atomic.Bool
}

// NewConn creates a connection manager for the device at addr. The session
// is established lazily on the first request. A timeout of zero means
// DefaultTimeout.
func NewConn(adapter Adapter, addr string, timeout time.Duration) *Conn {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Conn{
		adapter: adapter,
		addr:    addr,
		timeout: timeout,
	}
}

// Request writes one command frame and returns the device's reply. Safe for
// concurrent use; callers are serialized.
func (c *Conn) Request(ctx context.Context, frame []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.attempt(ctx, frame)
	if err == nil {
		return resp, nil
	}
	if ctx.Err() != nil {
		return nil, &BackendError{Device: c.addr, Err: err}
	}

	slog.Warn("request failed, reconnecting once", "device", c.addr, "error", err)
	c.teardown()
	resp, err = c.attempt(ctx, frame)
	if err != nil {
		c.teardown()
		return nil, &BackendError{Device: c.addr, Err: err}
	}
	return resp, nil
}

// attempt performs one write/notify exchange over the current session,
// connecting first if needed. Caller holds mu.
func (c *Conn) attempt(ctx context.Context, frame []byte) ([]byte, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	// Drop stale notifications from earlier exchanges so the reply we wait
	// for belongs to this write.
	for {
		select {
		case <-c.notifications:
			continue
		default:
		}
		break
	}

	if err := c.writeChar.Write(frame); err != nil {
		return nil, fmt.Errorf("write characteristic: %w", err)
	}

	select {
	case data := <-c.notifications:
		return data, nil
	case <-time.After(c.timeout):
		return nil, fmt.Errorf("no notification within %v", c.timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ensureSession connects and discovers the characteristics if there is no
// live session. Caller holds mu.
func (c *Conn) ensureSession(ctx context.Context) error {
	if c.dropped.Swap(false) {
		c.teardown()
	}
	if c.session != nil {
		return nil
	}

	conn, err := c.adapter.Connect(ctx, c.addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", c.addr, err)
	}

	writeChar, err := conn.DiscoverCharacteristic(ServiceUUID, WriteCharUUID)
	if err != nil {
		conn.Disconnect()
		return fmt.Errorf("discover write characteristic: %w", err)
	}
	notifyChar, err := conn.DiscoverCharacteristic(ServiceUUID, NotifyCharUUID)
	if err != nil {
		conn.Disconnect()
		return fmt.Errorf("discover notify characteristic: %w", err)
	}

	notifications := make(chan []byte, 4)
	err = notifyChar.Subscribe(func(data []byte) {
		cp := make([]byte, len(data))
		copy(cp, data)
		select {
		case notifications <- cp:
		default:
			slog.Warn("dropping notification, buffer full", "device", c.addr)
		}
	})
	if err != nil {
		conn.Disconnect()
		return fmt.Errorf("subscribe notifications: %w", err)
	}

	conn.OnDisconnect(func() {
		slog.Debug("device disconnected", "device", c.addr)
		c.dropped.Store(true)
	})

	c.session = conn
	c.writeChar = writeChar
	c.notifications = notifications
	slog.Debug("connected", "device", c.addr)
	return nil
}

// teardown drops the current session. Caller holds mu.
func (c *Conn) teardown() {
	if c.session != nil {
		c.session.Disconnect()
	}
	c.session = nil
	c.writeChar = nil
	c.notifications = nil
}

// Close disconnects the session, if any.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardown()
	return nil
}

// Address returns the device address this manager talks to.
func (c *Conn) Address() string {
	return c.addr
}
