package client

import (
	"log/slog"
	"time"

	"github.com/arena-protocol/arena-go/pkg/log"
	"github.com/arena-protocol/arena-go/pkg/transport"
)

// Options configures a Client. The zero value connects to
// localhost:8200 with certificate verification disabled (see
// VerifyCertificates).
type Options struct {
	// Host is the server hostname or IP (default: "localhost").
	Host string

	// Port is the server port (default: transport.DefaultPort).
	Port int

	// TLS holds TLS settings. Nil uses defaults.
	TLS *transport.TLSConfig

	// VerifyCertificates controls server certificate verification.
	// When nil, verification is enabled except for loopback hosts,
	// which typically run with self-signed development certificates.
	VerifyCertificates *bool

	// PingInterval is the keepalive interval
	// (default: transport.DefaultPingInterval).
	PingInterval time.Duration

	// ConnectTimeout bounds dial plus handshake when the Connect
	// context carries no deadline (default: transport.DefaultConnectTimeout).
	ConnectTimeout time.Duration

	// Verbose additionally mirrors every protocol event to slog at
	// debug level.
	Verbose bool

	// Logger receives protocol events (default: log.NoopLogger).
	Logger log.Logger

	// Dialer establishes the transport. Nil uses a TLSDialer built
	// from the options above. Mainly a test seam.
	Dialer transport.Dialer
}

// withDefaults returns a copy of o with defaults merged in. The TLS
// config is cloned before the loopback adjustment so the caller's
// struct is never mutated.
func (o Options) withDefaults() Options {
	if o.Host == "" {
		o.Host = "localhost"
	}
	if o.Port == 0 {
		o.Port = transport.DefaultPort
	}
	if o.PingInterval == 0 {
		o.PingInterval = transport.DefaultPingInterval
	}
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = transport.DefaultConnectTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NoopLogger{}
	}
	if o.Verbose {
		o.Logger = log.NewMultiLogger(o.Logger, log.NewSlogAdapter(slog.Default()))
	}

	tlsCfg := transport.TLSConfig{}
	if o.TLS != nil {
		tlsCfg = *o.TLS
	}
	if o.VerifyCertificates != nil {
		tlsCfg.InsecureSkipVerify = !*o.VerifyCertificates
	} else if transport.IsLoopbackHost(o.Host) {
		tlsCfg.InsecureSkipVerify = true
	}
	o.TLS = &tlsCfg

	if o.Dialer == nil {
		o.Dialer = &transport.TLSDialer{
			Config:  transport.NewClientTLSConfig(o.TLS),
			Timeout: o.ConnectTimeout,
		}
	}
	return o
}
