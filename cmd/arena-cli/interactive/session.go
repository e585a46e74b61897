// Package interactive provides the interactive command-line interface
// for arena-cli.
package interactive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/arena-protocol/arena-go/pkg/client"
	"github.com/arena-protocol/arena-go/pkg/discovery"
	"github.com/arena-protocol/arena-go/pkg/persistence"
	"github.com/arena-protocol/arena-go/pkg/wire"
)

// commandTimeout bounds each interactive call. The protocol itself
// has no per-call timeout; a stuck command should not wedge the shell.
const commandTimeout = 30 * time.Second

// Session handles interactive mode for arena-cli.
type Session struct {
	client *client.Client
	store  *persistence.Store
	host   string
	rl     *readline.Instance
}

// New creates an interactive session. store may be nil when no state
// directory is configured.
func New(c *client.Client, store *persistence.Store, host string) (*Session, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "arena> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := &Session{client: c, store: store, host: host, rl: rl}
	c.OnClose(func() {
		fmt.Fprintln(rl.Stdout(), "Connection closed.")
	})
	return s, nil
}

// Stdout returns a writer that coordinates with the readline prompt.
// Use it for log output to avoid clobbering the input line.
func (s *Session) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run starts the interactive command loop.
func (s *Session) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "connect", "c":
			s.cmdConnect(ctx)

		case "ping":
			s.cmdPing(ctx)

		case "register":
			s.cmdRegister(ctx, args)

		case "token":
			s.cmdToken(ctx, args)

		case "login", "l":
			s.cmdLogin(ctx, args)

		case "verify":
			s.cmdVerify(ctx, args)

		case "battles", "b":
			s.cmdBattles(ctx)

		case "discover":
			s.cmdDiscover(ctx)

		case "status":
			s.cmdStatus()

		case "forget":
			s.cmdForget()

		case "disconnect", "d":
			s.cmdDisconnect(ctx)

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Arena Lobby Commands:
  Connection:
    connect                - Connect to the lobby
    disconnect             - Graceful disconnect
    status                 - Show connection and session state
    ping                   - Round-trip a keepalive ping

  Account:
    register <user> <pass> - Register a new account
    token <user> <pass>    - Fetch and store an auth token
    login <user> [pass]    - Log in (stored token used when pass omitted)
    verify <user> <code>   - Verify an account
    forget                 - Delete stored credentials

  Lobby:
    battles                - List open battles
    discover               - Find lobbies on the local network

  General:
    help                   - Show this help
    quit                   - Exit`)
}

func (s *Session) cmdConnect(ctx context.Context) {
	callCtx, done := context.WithTimeout(ctx, commandTimeout)
	defer done()

	if err := s.client.Connect(callCtx); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Connect failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Connected (conn %s)\n", s.client.ConnectionID())
}

func (s *Session) cmdPing(ctx context.Context) {
	callCtx, done := context.WithTimeout(ctx, commandTimeout)
	defer done()

	start := time.Now()
	resp, err := s.client.Ping(callCtx)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Ping failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Pong in %s\n", time.Since(start).Round(time.Millisecond))
	s.printFields(resp)
}

func (s *Session) cmdRegister(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: register <user> <pass>")
		return
	}
	callCtx, done := context.WithTimeout(ctx, commandTimeout)
	defer done()

	resp, err := s.client.Register(callCtx, map[string]any{
		"user": args[0],
		"pass": args[1],
	})
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Register failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "Registered.")
	s.printFields(resp)
}

func (s *Session) cmdToken(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: token <user> <pass>")
		return
	}
	callCtx, done := context.WithTimeout(ctx, commandTimeout)
	defer done()

	resp, err := s.client.GetToken(callCtx, map[string]any{
		"user": args[0],
		"pass": args[1],
	})
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Token request failed: %v\n", err)
		return
	}

	token := resp.StringField("token")
	if token == "" {
		fmt.Fprintln(s.rl.Stdout(), "Response carried no token:")
		s.printFields(resp)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "Token received.")

	if s.store == nil {
		fmt.Fprintln(s.rl.Stdout(), "No state directory configured; token not persisted.")
		return
	}
	err = s.store.Save(&persistence.Credentials{
		Host:     s.host,
		Username: args[0],
		Token:    token,
	})
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Failed to save credentials: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Credentials saved to %s\n", s.store.Path())
}

func (s *Session) cmdLogin(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: login <user> [pass]")
		return
	}

	fields := map[string]any{"user": args[0]}
	if len(args) == 2 {
		fields["pass"] = args[1]
	} else {
		creds := s.loadCredentials(args[0])
		if creds == nil {
			fmt.Fprintln(s.rl.Stdout(), "No stored token for this user; supply a password.")
			return
		}
		fields["token"] = creds.Token
	}

	callCtx, done := context.WithTimeout(ctx, commandTimeout)
	defer done()

	resp, err := s.client.Login(callCtx, fields)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Login failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "Logged in.")
	s.printFields(resp)
}

func (s *Session) cmdVerify(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: verify <user> <code>")
		return
	}
	callCtx, done := context.WithTimeout(ctx, commandTimeout)
	defer done()

	resp, err := s.client.Verify(callCtx, map[string]any{
		"user": args[0],
		"code": args[1],
	})
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Verify failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "Verified.")
	s.printFields(resp)

	if s.store != nil {
		if creds, err := s.store.Load(); err == nil && creds != nil && creds.Username == args[0] {
			creds.Verified = true
			_ = s.store.Save(creds)
		}
	}
}

func (s *Session) cmdBattles(ctx context.Context) {
	callCtx, done := context.WithTimeout(ctx, commandTimeout)
	defer done()

	resp, err := s.client.GetBattles(callCtx, nil)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Query failed: %v\n", err)
		return
	}
	s.printFields(resp)
}

func (s *Session) cmdDiscover(ctx context.Context) {
	fmt.Fprintln(s.rl.Stdout(), "Browsing for lobbies (5s)...")

	browseCtx, done := context.WithTimeout(ctx, 5*time.Second)
	defer done()

	browser := &discovery.Browser{}
	servers, err := browser.Browse(browseCtx)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Discovery failed: %v\n", err)
		return
	}

	found := 0
	for srv := range servers {
		found++
		fmt.Fprintf(s.rl.Stdout(), "  %s  %s  (name: %s", srv.InstanceName, srv.Addr(), srv.Name)
		if srv.Region != "" {
			fmt.Fprintf(s.rl.Stdout(), ", region: %s", srv.Region)
		}
		fmt.Fprintln(s.rl.Stdout(), ")")
	}
	if found == 0 {
		fmt.Fprintln(s.rl.Stdout(), "No lobbies found.")
	}
}

func (s *Session) cmdStatus() {
	out := s.rl.Stdout()
	fmt.Fprintf(out, "Connected: %v\n", s.client.IsConnected())
	fmt.Fprintf(out, "Logged in: %v\n", s.client.IsLoggedIn())
	if s.client.IsConnected() {
		fmt.Fprintf(out, "Conn ID:   %s\n", s.client.ConnectionID())
		stats := s.client.KeepaliveStats()
		fmt.Fprintf(out, "Pings:     %d", stats.Sent)
		if !stats.LastSendTime.IsZero() {
			fmt.Fprintf(out, " (last %s ago)", time.Since(stats.LastSendTime).Round(time.Second))
		}
		fmt.Fprintln(out)
	}
	if s.store != nil {
		if creds, err := s.store.Load(); err == nil && creds != nil {
			fmt.Fprintf(out, "Stored:    %s@%s (verified: %v)\n", creds.Username, creds.Host, creds.Verified)
		}
	}
}

func (s *Session) cmdForget() {
	if s.store == nil {
		fmt.Fprintln(s.rl.Stdout(), "No state directory configured.")
		return
	}
	if err := s.store.Clear(); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Failed to clear credentials: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "Credentials cleared.")
}

func (s *Session) cmdDisconnect(ctx context.Context) {
	callCtx, done := context.WithTimeout(ctx, commandTimeout)
	defer done()

	if err := s.client.Disconnect(callCtx); err != nil {
		if errors.Is(err, client.ErrNotConnected) {
			fmt.Fprintln(s.rl.Stdout(), "Not connected.")
			return
		}
		fmt.Fprintf(s.rl.Stdout(), "Disconnect failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "Disconnected.")
}

// loadCredentials returns stored credentials for user, or nil.
func (s *Session) loadCredentials(user string) *persistence.Credentials {
	if s.store == nil {
		return nil
	}
	creds, err := s.store.Load()
	if err != nil || creds == nil || creds.Username != user || creds.Token == "" {
		return nil
	}
	return creds
}

// printFields pretty-prints a response's payload fields.
func (s *Session) printFields(msg wire.Message) {
	if len(msg.Fields) == 0 {
		return
	}
	data, err := json.MarshalIndent(msg.Fields, "", "  ")
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "%v\n", msg.Fields)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), string(data))
}
