package client

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/arena-protocol/arena-go/pkg/bus"
	"github.com/arena-protocol/arena-go/pkg/log"
	"github.com/arena-protocol/arena-go/pkg/transport"
	"github.com/arena-protocol/arena-go/pkg/wire"
)

// Client is an Arena lobby client. Create one with New, connect with
// Connect, then issue commands. Safe for concurrent use.
type Client struct {
	opts Options

	// connectMu serializes Connect and Close so two racing Connect
	// calls cannot open two transports.
	connectMu sync.Mutex

	mu        sync.Mutex
	conn      *transport.Conn
	keepalive *transport.Keepalive
	connected bool
	loggedIn  bool

	// pending is keyed by the tag that settles the call: the expected
	// response tag, or the request tag for close-settled commands.
	pending map[string]*pendingCall

	requests  *bus.Bus[wire.Message]
	responses *bus.Bus[wire.Message]
	closeObs  []func()
}

// pendingCall is one in-flight command awaiting settlement.
type pendingCall struct {
	request string
	ch      chan callResult
}

type callResult struct {
	msg wire.Message
	err error
}

// New creates a client. Options are merged with defaults once, here.
func New(opts Options) *Client {
	return &Client{
		opts:      opts.withDefaults(),
		requests:  bus.New[wire.Message](),
		responses: bus.New[wire.Message](),
	}
}

// Connect establishes the TLS connection and starts the read loop and
// keepalive. Connecting an already-connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.connectMu.Lock()
	defer c.connectMu.Unlock()

	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	// Fresh lifecycle: listeners from the previous connection must not
	// observe the new one.
	c.requests.Reset()
	c.responses.Reset()
	c.registerSessionObservers()

	addr := net.JoinHostPort(c.opts.Host, strconv.Itoa(c.opts.Port))
	raw, err := c.opts.Dialer.Dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	conn := transport.NewConn(raw, c.opts.Logger)

	ka := transport.NewKeepalive(c.opts.PingInterval, func() error {
		return c.sendRaw(wire.NewMessage(wire.TagPing, nil))
	})

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.keepalive = ka
	c.pending = make(map[string]*pendingCall)
	c.mu.Unlock()

	c.logState(conn.ID(), log.StateEntityConnection, "disconnected", "connected", "")

	ka.Start(context.Background())
	go c.readLoop(conn)
	return nil
}

// Close tears the connection down and settles all pending calls.
// Closing a disconnected client is a no-op.
func (c *Client) Close() error {
	c.connectMu.Lock()
	defer c.connectMu.Unlock()

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	c.handleClose(conn, "closed by caller")
	return nil
}

// readLoop consumes frames until the transport fails, then runs the
// close sequence. Decode failures are local to the frame: they are
// logged and the loop continues.
func (c *Client) readLoop(conn *transport.Conn) {
	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			c.handleClose(conn, err.Error())
			return
		}

		msg, err := wire.Decode(frame)
		if err != nil {
			c.logError(conn.ID(), log.LayerWire, err, "decoding inbound frame")
			continue
		}

		c.logMessage(conn.ID(), log.DirectionIn, msg)
		c.responses.Publish(msg.Cmd, msg)
		c.settle(msg)
	}
}

// settle resolves or rejects the pending call awaiting msg's tag.
func (c *Client) settle(msg wire.Message) {
	c.mu.Lock()
	pc, ok := c.pending[msg.Cmd]
	if ok {
		delete(c.pending, msg.Cmd)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	if msg.IsFailure() {
		result, _ := msg.Result()
		pc.ch <- callResult{err: &ResponseError{
			Tag:     msg.Cmd,
			Result:  result,
			Message: msg.ErrorText(),
		}}
		return
	}
	pc.ch <- callResult{msg: msg}
}

// handleClose runs the close sequence exactly once per connection:
// stop the keepalive, drop the session flags, settle every pending
// call, and notify close observers. Later calls for the same (now
// stale) connection are no-ops.
func (c *Client) handleClose(conn *transport.Conn, reason string) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.connected = false
	c.loggedIn = false
	ka := c.keepalive
	c.keepalive = nil
	pending := c.pending
	c.pending = nil
	observers := append([]func(){}, c.closeObs...)
	c.mu.Unlock()

	if ka != nil {
		ka.Stop()
	}
	conn.Close()

	// Every outstanding call settles on close. A waiting disconnect is
	// the one command for which close is the expected outcome.
	for _, pc := range pending {
		if pc.request == wire.TagDisconnect {
			pc.ch <- callResult{}
		} else {
			pc.ch <- callResult{err: ErrServerClosed}
		}
	}

	c.logState(conn.ID(), log.StateEntityConnection, "connected", "closed", reason)
	for _, fn := range observers {
		fn()
	}
}

// call sends a request per its descriptor and waits for settlement.
//
// Send-only commands resolve once the frame is written. Commands with
// a response tag — and disconnect, which is settled by the close —
// register a pending call first, so a response racing the send cannot
// be missed.
func (c *Client) call(ctx context.Context, desc Descriptor, fields map[string]any) (wire.Message, error) {
	msg := wire.NewMessage(desc.Request, fields)

	settleTag := desc.Response
	if settleTag == "" && desc.CloseExpected() {
		settleTag = desc.Request
	}

	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return wire.Message{}, ErrNotConnected
	}
	var pc *pendingCall
	if settleTag != "" {
		if _, exists := c.pending[settleTag]; exists {
			c.mu.Unlock()
			return wire.Message{}, fmt.Errorf("%s: %w", desc.Name, ErrCallInFlight)
		}
		pc = &pendingCall{request: desc.Request, ch: make(chan callResult, 1)}
		c.pending[settleTag] = pc
	}
	c.mu.Unlock()

	if err := c.send(conn, msg); err != nil {
		if pc != nil {
			c.removePending(settleTag, pc)
		}
		return wire.Message{}, err
	}
	if pc == nil {
		return wire.Message{}, nil
	}

	select {
	case res := <-pc.ch:
		return res.msg, res.err
	case <-ctx.Done():
		c.removePending(settleTag, pc)
		return wire.Message{}, ctx.Err()
	}
}

// removePending drops pc if it is still the registered call for tag.
// A settlement racing the removal wins: the buffered channel already
// holds the result and the caller has returned.
func (c *Client) removePending(tag string, pc *pendingCall) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.pending[tag]; ok && cur == pc {
		delete(c.pending, tag)
	}
}

// send encodes msg, writes the frame, and publishes the request event.
func (c *Client) send(conn *transport.Conn, msg wire.Message) error {
	data, err := wire.Encode(msg)
	if err != nil {
		return err
	}
	if err := conn.WriteFrame(data); err != nil {
		return fmt.Errorf("sending %s: %w", msg.Cmd, err)
	}
	c.logMessage(conn.ID(), log.DirectionOut, msg)
	c.requests.Publish(msg.Cmd, msg)
	return nil
}

// sendRaw writes a message outside the pending-call machinery. Used by
// the keepalive, whose pings are fire-and-forget.
func (c *Client) sendRaw(msg wire.Message) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	return c.send(conn, msg)
}

// KeepaliveStats reports keepalive activity for the current
// connection, or zero values when disconnected.
func (c *Client) KeepaliveStats() transport.KeepaliveStats {
	c.mu.Lock()
	ka := c.keepalive
	c.mu.Unlock()
	if ka == nil {
		return transport.KeepaliveStats{}
	}
	return ka.Stats()
}

// ConnectionID returns the current connection's ID, or "" when
// disconnected.
func (c *Client) ConnectionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ""
	}
	return c.conn.ID()
}

func (c *Client) logMessage(connID string, dir log.Direction, msg wire.Message) {
	result, _ := msg.Result()
	c.opts.Logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    dir,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		Message: &log.MessageEvent{
			Tag:    msg.Cmd,
			Result: result,
			Error:  msg.ErrorText(),
		},
	})
}

func (c *Client) logState(connID string, entity log.StateEntity, from, to, reason string) {
	c.opts.Logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Layer:        log.LayerSession,
		Category:     log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   entity,
			OldState: from,
			NewState: to,
			Reason:   reason,
		},
	})
}

func (c *Client) logError(connID string, layer log.Layer, err error, context string) {
	c.opts.Logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionIn,
		Layer:        layer,
		Category:     log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   layer,
			Message: err.Error(),
			Context: context,
		},
	})
}
