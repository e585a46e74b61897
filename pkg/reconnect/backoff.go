package reconnect

import (
	"math/rand"
	"sync"
	"time"
)

// Backoff defaults.
const (
	// InitialDelay is the first reconnection delay.
	InitialDelay = 1 * time.Second

	// MaxDelay caps the reconnection delay.
	MaxDelay = 60 * time.Second

	// Multiplier is the factor by which the delay grows per attempt.
	Multiplier = 2.0

	// Jitter is the maximum random extension as a fraction of the
	// base delay. Keeps a fleet of clients from redialing in lockstep.
	Jitter = 0.25
)

// Backoff produces exponentially growing, jittered delays.
type Backoff struct {
	mu       sync.Mutex
	current  time.Duration
	attempts int

	initial    time.Duration
	max        time.Duration
	multiplier float64
	jitter     float64
	rng        *rand.Rand
}

// Config customizes a Backoff. Zero fields use the package defaults.
type Config struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

// NewBackoff creates a backoff generator with default settings.
func NewBackoff() *Backoff {
	return NewBackoffWithConfig(Config{})
}

// NewBackoffWithConfig creates a backoff generator with custom settings.
func NewBackoffWithConfig(cfg Config) *Backoff {
	if cfg.Initial <= 0 {
		cfg.Initial = InitialDelay
	}
	if cfg.Max <= 0 {
		cfg.Max = MaxDelay
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = Multiplier
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}
	return &Backoff{
		current:    cfg.Initial,
		initial:    cfg.Initial,
		max:        cfg.Max,
		multiplier: cfg.Multiplier,
		jitter:     cfg.Jitter,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the delay to wait before the next attempt and advances
// the sequence.
func (b *Backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	delay := b.withJitter(b.current)
	b.attempts++

	next := time.Duration(float64(b.current) * b.multiplier)
	if next > b.max {
		next = b.max
	}
	b.current = next
	return delay
}

// Reset restores the initial delay. Call after a successful connect.
func (b *Backoff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.initial
	b.attempts = 0
}

// Attempts returns the number of delays issued since the last reset.
func (b *Backoff) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

func (b *Backoff) withJitter(d time.Duration) time.Duration {
	if b.jitter <= 0 {
		return d
	}
	return d + time.Duration(float64(d)*b.jitter*b.rng.Float64())
}
