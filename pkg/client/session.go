package client

import (
	"github.com/arena-protocol/arena-go/pkg/bus"
	"github.com/arena-protocol/arena-go/pkg/log"
	"github.com/arena-protocol/arena-go/pkg/wire"
)

// registerSessionObservers wires the session flags to the message
// buses. Called with both buses freshly reset, at the start of every
// connection lifecycle.
//
// The login flag is derived: it turns on only when a login response
// with a success indicator is observed, and turns off as soon as a
// disconnect request is sent — without waiting for the close.
func (c *Client) registerSessionObservers() {
	c.responses.Subscribe(wire.TagLogin, func(msg wire.Message) {
		if !msg.IsSuccess() {
			return
		}
		c.mu.Lock()
		was := c.loggedIn
		c.loggedIn = true
		connID := ""
		if c.conn != nil {
			connID = c.conn.ID()
		}
		c.mu.Unlock()
		if !was {
			c.logState(connID, log.StateEntitySession, "logged_out", "logged_in", "login succeeded")
		}
	})

	c.requests.Subscribe(wire.TagDisconnect, func(wire.Message) {
		c.mu.Lock()
		was := c.loggedIn
		c.loggedIn = false
		connID := ""
		if c.conn != nil {
			connID = c.conn.ID()
		}
		c.mu.Unlock()
		if was {
			c.logState(connID, log.StateEntitySession, "logged_in", "logged_out", "disconnect requested")
		}
	})
}

// IsConnected reports whether the transport is currently up.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// IsLoggedIn reports whether a successful login has been observed on
// the current connection.
func (c *Client) IsLoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loggedIn
}

// OnRequest subscribes to outgoing requests with the given tag. The
// subscription is valid for the current connection only: Connect
// resets both buses.
func (c *Client) OnRequest(tag string, fn func(wire.Message)) *bus.Subscription[wire.Message] {
	return c.requests.Subscribe(tag, fn)
}

// OnResponse subscribes to inbound messages with the given tag.
func (c *Client) OnResponse(tag string, fn func(wire.Message)) *bus.Subscription[wire.Message] {
	return c.responses.Subscribe(tag, fn)
}

// OnClose registers fn to run after the connection closes and all
// pending calls have settled. Unlike bus subscriptions, close
// observers survive reconnects.
func (c *Client) OnClose(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeObs = append(c.closeObs, fn)
}
