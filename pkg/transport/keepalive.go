package transport

import (
	"context"
	"sync"
	"time"
)

// DefaultPingInterval is the default interval between keepalive pings.
const DefaultPingInterval = 30 * time.Second

// Keepalive periodically invokes a send function while running.
// Sends are fire-and-forget: a failed send does not stop the timer —
// only Stop (or context cancellation) does. Connection loss surfaces
// through the owning client's read loop, not through the keepalive.
type Keepalive struct {
	interval time.Duration
	send     func() error

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	sent     uint64
	lastSend time.Time
}

// KeepaliveStats reports keepalive activity.
type KeepaliveStats struct {
	// Sent is the number of pings issued since Start.
	Sent uint64

	// LastSendTime is when the most recent ping was issued.
	LastSendTime time.Time
}

// NewKeepalive creates a keepalive driver. A non-positive interval
// falls back to DefaultPingInterval.
func NewKeepalive(interval time.Duration, send func() error) *Keepalive {
	if interval <= 0 {
		interval = DefaultPingInterval
	}
	return &Keepalive{
		interval: interval,
		send:     send,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the ping loop. Starting a running keepalive is a no-op.
func (k *Keepalive) Start(ctx context.Context) {
	k.mu.Lock()
	if k.running {
		k.mu.Unlock()
		return
	}
	k.running = true
	k.stopCh = make(chan struct{})
	stopCh := k.stopCh
	k.mu.Unlock()

	go k.loop(ctx, stopCh)
}

// Stop halts the ping loop. Safe to call multiple times.
func (k *Keepalive) Stop() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.running {
		return
	}
	k.running = false
	close(k.stopCh)
}

// IsRunning reports whether the ping loop is active.
func (k *Keepalive) IsRunning() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.running
}

// Stats returns current keepalive statistics.
func (k *Keepalive) Stats() KeepaliveStats {
	k.mu.Lock()
	defer k.mu.Unlock()
	return KeepaliveStats{Sent: k.sent, LastSendTime: k.lastSend}
}

func (k *Keepalive) loop(ctx context.Context, stopCh chan struct{}) {
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			k.mu.Lock()
			k.sent++
			k.lastSend = time.Now()
			k.mu.Unlock()

			// Outcome ignored: the read loop detects dead connections.
			_ = k.send()
		}
	}
}
