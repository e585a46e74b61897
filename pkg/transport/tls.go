package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"time"
)

// Transport constants.
const (
	// DefaultPort is the default Arena lobby port.
	DefaultPort = 8200

	// DefaultConnectTimeout bounds dial plus TLS handshake.
	DefaultConnectTimeout = 30 * time.Second
)

// TLSConfig holds the TLS settings for a client connection.
type TLSConfig struct {
	// RootCAs is the pool of trusted CA certificates. Nil uses the
	// system pool.
	RootCAs *x509.CertPool

	// ServerName is the expected server name for certificate
	// verification. Defaults to the dialed host.
	ServerName string

	// Certificates optionally holds a client certificate chain.
	Certificates []tls.Certificate

	// InsecureSkipVerify disables certificate verification. The
	// client enables this automatically when connecting to the
	// loopback host without an explicit verification policy.
	InsecureSkipVerify bool
}

// NewClientTLSConfig builds a tls.Config for connecting to a lobby server.
func NewClientTLSConfig(cfg *TLSConfig) *tls.Config {
	if cfg == nil {
		cfg = &TLSConfig{}
	}
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		RootCAs:            cfg.RootCAs,
		ServerName:         cfg.ServerName,
		Certificates:       cfg.Certificates,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
}

// IsLoopbackHost reports whether host names the local machine:
// "localhost" or a loopback IP address.
func IsLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

// Dialer establishes the secure transport for a client connection.
// The returned net.Conn is ready for framed traffic: any handshake has
// already completed.
type Dialer interface {
	Dial(ctx context.Context, addr string) (net.Conn, error)
}

// TLSDialer dials TCP and performs the TLS handshake.
type TLSDialer struct {
	// Config is the TLS configuration. Required.
	Config *tls.Config

	// Timeout bounds the dial and handshake when the context carries
	// no deadline. Zero means DefaultConnectTimeout.
	Timeout time.Duration
}

// Dial connects to addr and completes the TLS handshake.
func (d *TLSDialer) Dial(ctx context.Context, addr string) (net.Conn, error) {
	timeout := d.Timeout
	if timeout == 0 {
		timeout = DefaultConnectTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	tlsConn := tls.Client(conn, d.Config)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("TLS handshake failed: %w", err)
	}
	return tlsConn, nil
}

var _ Dialer = (*TLSDialer)(nil)
