package discovery

import (
	"context"
	"net"

	"github.com/enbility/zeroconf/v3"
)

// Browser searches the local network for lobby servers.
type Browser struct {
	// Interface restricts browsing to one network interface.
	// Empty means all interfaces.
	Interface string
}

// Browse streams lobby servers as they are discovered. Announcements
// for the same instance on multiple interfaces are merged: each
// instance is emitted once, with later addresses folded into the
// already-emitted entry. The channel closes when ctx is cancelled.
func (b *Browser) Browse(ctx context.Context) (<-chan *Server, error) {
	out := make(chan *Server)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer close(out)

		seen := make(map[string]*Server)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				srv := entryToServer(entry)
				if srv == nil {
					continue
				}
				if existing, found := seen[srv.InstanceName]; found {
					existing.Addresses = mergeAddresses(existing.Addresses, srv.Addresses)
					continue
				}
				seen[srv.InstanceName] = srv
				select {
				case out <- srv:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				delete(seen, entry.Instance)

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed, b.options()...)
	}()

	return out, nil
}

// FindFirst browses until one lobby appears or ctx expires.
func (b *Browser) FindFirst(ctx context.Context) (*Server, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	servers, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}
	select {
	case srv, ok := <-servers:
		if !ok {
			return nil, ctx.Err()
		}
		return srv, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *Browser) options() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption
	if b.Interface != "" {
		if iface, err := net.InterfaceByName(b.Interface); err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}
	return opts
}

// entryToServer converts a zeroconf entry, or returns nil when the
// TXT record is not a lobby announcement.
func entryToServer(entry *zeroconf.ServiceEntry) *Server {
	info, err := DecodeLobbyTXT(entry.Text)
	if err != nil {
		return nil
	}

	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &Server{
		InstanceName: entry.Instance,
		Host:         entry.HostName,
		Port:         entry.Port,
		Addresses:    addrs,
		Name:         info.Name,
		Region:       info.Region,
		Version:      info.Version,
	}
}

func mergeAddresses(existing, incoming []string) []string {
	have := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		have[a] = struct{}{}
	}
	for _, a := range incoming {
		if _, ok := have[a]; !ok {
			existing = append(existing, a)
		}
	}
	return existing
}
