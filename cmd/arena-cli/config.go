package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arena-protocol/arena-go/pkg/client"
)

// Config holds the arena-cli configuration. Every field can also be
// set by a flag; flags win.
type Config struct {
	// Host is the lobby hostname or IP.
	Host string `yaml:"host"`

	// Port is the lobby port.
	Port int `yaml:"port"`

	// VerifyCertificates controls server certificate verification.
	// Unset means the client default (verification off for loopback).
	VerifyCertificates *bool `yaml:"verify_certificates"`

	// PingInterval is the keepalive interval as a duration string,
	// e.g. "30s".
	PingInterval string `yaml:"ping_interval"`

	// Verbose mirrors protocol events to stderr.
	Verbose bool `yaml:"verbose"`

	// ProtocolLog is the path of the .alog protocol log to write.
	ProtocolLog string `yaml:"protocol_log"`

	// StateDir is the directory for persisted credentials.
	StateDir string `yaml:"state_dir"`
}

// LoadConfig reads a YAML config file. An empty path yields a zero
// config (defaults come from the client).
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// ClientOptions converts the config to client options.
func (c *Config) ClientOptions() (client.Options, error) {
	opts := client.Options{
		Host:               c.Host,
		Port:               c.Port,
		VerifyCertificates: c.VerifyCertificates,
		Verbose:            c.Verbose,
	}
	if c.PingInterval != "" {
		interval, err := time.ParseDuration(c.PingInterval)
		if err != nil {
			return client.Options{}, fmt.Errorf("ping_interval: %w", err)
		}
		opts.PingInterval = interval
	}
	return opts, nil
}
