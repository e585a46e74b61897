package reconnect

import (
	"context"
	"sync"
	"time"
)

// Connector is the subset of the lobby client the runner drives.
type Connector interface {
	Connect(ctx context.Context) error
	IsConnected() bool
	OnClose(fn func())
}

// Runner redials a Connector whenever its connection drops, with
// exponential backoff between attempts. It never initiates the first
// connection; call Connect on the client yourself, then Start the
// runner to keep it alive.
type Runner struct {
	target  Connector
	backoff *Backoff

	// OnAttempt, when set, is called before each redial with the
	// attempt number and the delay that preceded it.
	OnAttempt func(attempt int, delay time.Duration)

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wakeCh  chan struct{}
	doneCh  chan struct{}
}

// NewRunner creates a runner for target using the given backoff.
// A nil backoff uses defaults.
func NewRunner(target Connector, backoff *Backoff) *Runner {
	if backoff == nil {
		backoff = NewBackoff()
	}
	return &Runner{
		target:  target,
		backoff: backoff,
		wakeCh:  make(chan struct{}, 1),
	}
}

// Start begins watching for closes. Starting twice is a no-op.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.doneCh = make(chan struct{})

	r.target.OnClose(r.wake)
	go r.loop(ctx)
}

// Stop halts the runner. Any in-progress dial attempt is cancelled.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.started = false
	cancel := r.cancel
	done := r.doneCh
	r.mu.Unlock()

	cancel()
	<-done
}

// wake nudges the loop; coalesces when a redial is already pending.
func (r *Runner) wake() {
	select {
	case r.wakeCh <- struct{}{}:
	default:
	}
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.wakeCh:
			r.redial(ctx)
		}
	}
}

// redial attempts to reconnect until it succeeds or the runner stops.
func (r *Runner) redial(ctx context.Context) {
	for !r.target.IsConnected() {
		delay := r.backoff.Next()
		if r.OnAttempt != nil {
			r.OnAttempt(r.backoff.Attempts(), delay)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		if err := r.target.Connect(ctx); err == nil {
			r.backoff.Reset()
			return
		}
	}
}
