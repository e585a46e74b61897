package client

import (
	"context"
	"fmt"

	"github.com/arena-protocol/arena-go/pkg/wire"
)

// Call invokes a command from the catalog by name. Field schemas are
// owned by the protocol contract; the client passes them through
// untouched. The returned message is the zero value for send-only
// commands and for disconnect.
func (c *Client) Call(ctx context.Context, name string, fields map[string]any) (wire.Message, error) {
	desc, ok := descriptorByName(name)
	if !ok {
		return wire.Message{}, fmt.Errorf("%q: %w", name, ErrUnknownCommand)
	}
	return c.call(ctx, desc, fields)
}

// Ping sends a system.ping and waits for the system.pong reply.
func (c *Client) Ping(ctx context.Context) (wire.Message, error) {
	return c.Call(ctx, "ping", nil)
}

// Register sends an account registration request.
func (c *Client) Register(ctx context.Context, fields map[string]any) (wire.Message, error) {
	return c.Call(ctx, "register", fields)
}

// GetToken requests an authentication token.
func (c *Client) GetToken(ctx context.Context, fields map[string]any) (wire.Message, error) {
	return c.Call(ctx, "getToken", fields)
}

// Login authenticates the session. A success response flips
// IsLoggedIn to true.
func (c *Client) Login(ctx context.Context, fields map[string]any) (wire.Message, error) {
	return c.Call(ctx, "login", fields)
}

// Verify sends an account verification request.
func (c *Client) Verify(ctx context.Context, fields map[string]any) (wire.Message, error) {
	return c.Call(ctx, "verify", fields)
}

// Disconnect asks the server for a graceful shutdown. The server
// answers by closing the connection, so the call resolves when the
// close completes. IsLoggedIn turns false as soon as the request is
// sent.
func (c *Client) Disconnect(ctx context.Context) error {
	_, err := c.Call(ctx, "disconnect", nil)
	return err
}

// GetBattles queries the lobby's battle list.
func (c *Client) GetBattles(ctx context.Context, fields map[string]any) (wire.Message, error) {
	return c.Call(ctx, "getBattles", fields)
}
