package transport

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"testing"
	"time"
)

func TestIsLoopbackHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"127.0.0.1", true},
		{"127.0.0.53", true},
		{"::1", true},
		{"192.168.1.10", false},
		{"10.0.0.1", false},
		{"arena.example.com", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := IsLoopbackHost(tc.host); got != tc.want {
			t.Errorf("IsLoopbackHost(%q) = %v, want %v", tc.host, got, tc.want)
		}
	}
}

func TestNewClientTLSConfig(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		cfg := NewClientTLSConfig(nil)
		if cfg.MinVersion != tls.VersionTLS12 {
			t.Errorf("MinVersion = %x, want TLS 1.2", cfg.MinVersion)
		}
		if cfg.InsecureSkipVerify {
			t.Errorf("InsecureSkipVerify defaulted to true")
		}
	})

	t.Run("settings carried over", func(t *testing.T) {
		pool := x509.NewCertPool()
		cfg := NewClientTLSConfig(&TLSConfig{
			RootCAs:            pool,
			ServerName:         "lobby.example.com",
			InsecureSkipVerify: true,
		})
		if cfg.RootCAs != pool {
			t.Errorf("RootCAs not carried over")
		}
		if cfg.ServerName != "lobby.example.com" {
			t.Errorf("ServerName = %q", cfg.ServerName)
		}
		if !cfg.InsecureSkipVerify {
			t.Errorf("InsecureSkipVerify not carried over")
		}
	})
}

// newTestServerCert creates a self-signed certificate for loopback tests.
func newTestServerCert(t *testing.T) tls.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "arena-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
		DNSNames:     []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("creating certificate: %v", err)
	}
	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
	}
}

func TestTLSDialerHandshake(t *testing.T) {
	cert := newTestServerCert(t)
	listener, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		t.Fatalf("starting listener: %v", err)
	}
	defer listener.Close()

	accepted := make(chan error, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			accepted <- err
			return
		}
		defer conn.Close()
		buf := make([]byte, 5)
		if _, err := conn.Read(buf); err != nil {
			accepted <- err
			return
		}
		_, err = conn.Write(buf)
		accepted <- err
	}()

	dialer := &TLSDialer{
		Config: NewClientTLSConfig(&TLSConfig{InsecureSkipVerify: true}),
	}
	conn, err := dialer.Dial(context.Background(), listener.Addr().String())
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("hello")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	buf := make([]byte, 5)
	if _, err := conn.Read(buf); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(buf) != "hello" {
		t.Errorf("echo mismatch: %q", buf)
	}
	if err := <-accepted; err != nil {
		t.Fatalf("server side: %v", err)
	}
}

func TestTLSDialerVerificationFailure(t *testing.T) {
	cert := newTestServerCert(t)
	listener, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		t.Fatalf("starting listener: %v", err)
	}
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		// Drive the handshake so the client observes the failure.
		conn.Read(make([]byte, 1))
		conn.Close()
	}()

	// Self-signed cert with verification on must be rejected.
	dialer := &TLSDialer{Config: NewClientTLSConfig(&TLSConfig{ServerName: "localhost"})}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := dialer.Dial(ctx, listener.Addr().String()); err == nil {
		t.Fatalf("expected handshake failure for untrusted certificate")
	}
}

func TestTLSDialerConnectionRefused(t *testing.T) {
	// Bind a port, then close it so nothing is listening there.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserving port: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	dialer := &TLSDialer{
		Config:  NewClientTLSConfig(&TLSConfig{InsecureSkipVerify: true}),
		Timeout: 2 * time.Second,
	}
	if _, err := dialer.Dial(context.Background(), addr); err == nil {
		t.Fatalf("expected dial error")
	}
}
