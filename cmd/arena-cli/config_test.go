package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Host != "" || cfg.Port != 0 || cfg.VerifyCertificates != nil {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
host: lobby.example.com
port: 9300
verify_certificates: false
ping_interval: 45s
verbose: true
state_dir: /var/lib/arena
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Host != "lobby.example.com" {
		t.Errorf("host: got %q", cfg.Host)
	}
	if cfg.Port != 9300 {
		t.Errorf("port: got %d", cfg.Port)
	}
	if cfg.VerifyCertificates == nil || *cfg.VerifyCertificates {
		t.Errorf("verify_certificates: got %v", cfg.VerifyCertificates)
	}
	if cfg.StateDir != "/var/lib/arena" {
		t.Errorf("state_dir: got %q", cfg.StateDir)
	}

	opts, err := cfg.ClientOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Host != "lobby.example.com" || opts.Port != 9300 {
		t.Errorf("options: got %+v", opts)
	}
	if opts.PingInterval != 45*time.Second {
		t.Errorf("ping interval: got %v", opts.PingInterval)
	}
	if !opts.Verbose {
		t.Error("verbose: expected true")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("host: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestClientOptionsBadPingInterval(t *testing.T) {
	cfg := &Config{PingInterval: "soon"}
	if _, err := cfg.ClientOptions(); err == nil {
		t.Fatal("expected duration parse error")
	}
}
