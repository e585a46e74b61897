package transport

import (
	"errors"
	"net"
	"sync"

	"github.com/arena-protocol/arena-go/pkg/log"
	"github.com/google/uuid"
)

// ErrConnClosed is returned by operations on a closed connection.
var ErrConnClosed = errors.New("connection closed")

// Conn wraps an established secure transport with line framing.
// It is owned exclusively by one client; the client's read loop is the
// only reader, and WriteFrame serializes writers internally.
type Conn struct {
	conn   net.Conn
	framer *Framer
	id     string

	closeOnce sync.Once
	closeCh   chan struct{}
}

// NewConn wraps an established transport connection. Each Conn gets a
// fresh UUID used to correlate its protocol log events.
func NewConn(conn net.Conn, logger log.Logger) *Conn {
	c := &Conn{
		conn:    conn,
		framer:  NewFramer(conn),
		id:      uuid.NewString(),
		closeCh: make(chan struct{}),
	}
	if logger != nil {
		remote := ""
		if addr := conn.RemoteAddr(); addr != nil {
			remote = addr.String()
		}
		c.framer.SetLogger(logger, c.id, remote)
	}
	return c
}

// ID returns the connection's UUID.
func (c *Conn) ID() string { return c.id }

// RemoteAddr returns the peer address, or nil for synthetic transports.
func (c *Conn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// WriteFrame sends one frame. Fails with ErrConnClosed after Close.
func (c *Conn) WriteFrame(data []byte) error {
	select {
	case <-c.closeCh:
		return ErrConnClosed
	default:
	}
	return c.framer.WriteFrame(data)
}

// ReadFrame reads the next frame. Only the owning read loop calls this.
func (c *Conn) ReadFrame() ([]byte, error) {
	select {
	case <-c.closeCh:
		return nil, ErrConnClosed
	default:
	}
	return c.framer.ReadFrame()
}

// Close tears down the transport. Safe to call multiple times.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.conn.Close()
	})
	return err
}
