// Command arena-cli is an interactive client for Arena lobby servers.
//
// Usage:
//
//	arena-cli [flags]
//
// Flags:
//
//	-config string        Configuration file path (YAML)
//	-host string          Lobby host (default "localhost")
//	-port int             Lobby port (default 8200)
//	-no-verify            Disable server certificate verification
//	-verbose              Log every protocol event to stderr
//	-protocol-log string  Write protocol events to a .alog file
//	-state-dir string     Directory for persisted credentials
//	-auto-reconnect       Redial automatically when the connection drops
//
// Examples:
//
//	# Connect to a local development lobby
//	arena-cli
//
//	# Connect to a production lobby with a protocol log
//	arena-cli -host lobby.example.com -protocol-log session.alog
//
//	# Load settings from a config file
//	arena-cli -config ~/.config/arena/config.yaml
//
// Interactive Commands:
//
//	connect                - Connect to the lobby
//	ping                   - Round-trip a keepalive ping
//	register <user> <pass> - Register a new account
//	token <user> <pass>    - Fetch and store an auth token
//	login <user> [pass]    - Log in (stored token used when pass omitted)
//	verify <user> <code>   - Verify an account
//	battles                - List open battles
//	discover               - Find lobbies on the local network
//	status                 - Show connection and session state
//	disconnect             - Graceful disconnect
//	quit                   - Exit
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/arena-protocol/arena-go/cmd/arena-cli/interactive"
	"github.com/arena-protocol/arena-go/pkg/client"
	"github.com/arena-protocol/arena-go/pkg/log"
	"github.com/arena-protocol/arena-go/pkg/persistence"
	"github.com/arena-protocol/arena-go/pkg/reconnect"
)

func main() {
	var (
		configPath    = flag.String("config", "", "Configuration file path (YAML)")
		host          = flag.String("host", "", "Lobby host")
		port          = flag.Int("port", 0, "Lobby port")
		noVerify      = flag.Bool("no-verify", false, "Disable server certificate verification")
		verbose       = flag.Bool("verbose", false, "Log every protocol event to stderr")
		protocolLog   = flag.String("protocol-log", "", "Write protocol events to a .alog file")
		stateDir      = flag.String("state-dir", "", "Directory for persisted credentials")
		autoReconnect = flag.Bool("auto-reconnect", false, "Redial automatically when the connection drops")
	)
	flag.Parse()

	stdlog.SetFlags(stdlog.Ltime)

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	// Flags override the config file.
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *noVerify {
		verify := false
		cfg.VerifyCertificates = &verify
	}
	if *verbose {
		cfg.Verbose = true
	}
	if *protocolLog != "" {
		cfg.ProtocolLog = *protocolLog
	}
	if *stateDir != "" {
		cfg.StateDir = *stateDir
	}

	if cfg.Host == "" {
		cfg.Host = "localhost"
	}

	opts, err := cfg.ClientOptions()
	if err != nil {
		stdlog.Fatalf("Invalid config: %v", err)
	}

	var fileLogger *log.FileLogger
	if cfg.ProtocolLog != "" {
		fileLogger, err = log.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			stdlog.Fatalf("Failed to open protocol log: %v", err)
		}
		defer fileLogger.Close()
		opts.Logger = fileLogger
		fmt.Printf("Protocol log: %s\n", cfg.ProtocolLog)
	}

	c := client.New(opts)

	var store *persistence.Store
	if cfg.StateDir != "" {
		store = persistence.NewStore(filepath.Join(cfg.StateDir, "credentials.json"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runner *reconnect.Runner
	if *autoReconnect {
		runner = reconnect.NewRunner(c, nil)
		runner.OnAttempt = func(attempt int, delay time.Duration) {
			stdlog.Printf("Reconnect attempt %d (waited %s)", attempt, delay)
		}
		runner.Start()
		defer runner.Stop()
	}

	session, err := interactive.New(c, store, cfg.Host)
	if err != nil {
		stdlog.Fatalf("Failed to start interactive session: %v", err)
	}
	// Route log output through readline so it does not clobber the prompt.
	stdlog.SetOutput(session.Stdout())
	go session.Run(ctx, cancel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		stdlog.Printf("Received signal: %v", sig)
	case <-ctx.Done():
	}

	cancel()
	if err := c.Close(); err != nil {
		stdlog.Printf("Error closing client: %v", err)
	}
}
