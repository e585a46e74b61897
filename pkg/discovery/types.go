package discovery

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// mDNS service parameters.
const (
	// ServiceType is the DNS-SD service type lobby servers announce.
	ServiceType = "_arena-lobby._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// BrowseTimeout is the default timeout for browse operations.
	BrowseTimeout = 10 * time.Second
)

// TXT record keys.
const (
	// TXTKeyName is the human-readable lobby name.
	TXTKeyName = "name"

	// TXTKeyRegion is the lobby's region code.
	TXTKeyRegion = "region"

	// TXTKeyVersion is the protocol version the lobby speaks.
	TXTKeyVersion = "ver"
)

// ErrMissingRequired indicates a TXT record lacks a required key.
var ErrMissingRequired = errors.New("missing required TXT key")

// Server describes a discovered lobby server.
type Server struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Host is the announced hostname.
	Host string

	// Port is the lobby port.
	Port int

	// Addresses holds the server's IPv4 and IPv6 addresses.
	Addresses []string

	// Name is the human-readable lobby name from the TXT record.
	Name string

	// Region is the lobby's region code, when announced.
	Region string

	// Version is the announced protocol version, when present.
	Version string
}

// Addr returns the preferred dial address, hostname over raw IP.
func (s *Server) Addr() string {
	host := strings.TrimSuffix(s.Host, ".")
	if host == "" && len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	return fmt.Sprintf("%s:%d", host, s.Port)
}

// LobbyInfo is the TXT record payload of a lobby announcement.
type LobbyInfo struct {
	Name    string
	Region  string
	Version string
}

// DecodeLobbyTXT parses "key=value" TXT strings into a LobbyInfo.
// The name key is required; everything else is optional.
func DecodeLobbyTXT(txt []string) (*LobbyInfo, error) {
	records := make(map[string]string, len(txt))
	for _, s := range txt {
		key, value, found := strings.Cut(s, "=")
		if !found || key == "" {
			continue
		}
		records[key] = value
	}

	name, ok := records[TXTKeyName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyName)
	}
	return &LobbyInfo{
		Name:    name,
		Region:  records[TXTKeyRegion],
		Version: records[TXTKeyVersion],
	}, nil
}

// EncodeLobbyTXT renders a LobbyInfo as "key=value" TXT strings.
func EncodeLobbyTXT(info *LobbyInfo) []string {
	txt := []string{TXTKeyName + "=" + info.Name}
	if info.Region != "" {
		txt = append(txt, TXTKeyRegion+"="+info.Region)
	}
	if info.Version != "" {
		txt = append(txt, TXTKeyVersion+"="+info.Version)
	}
	return txt
}
