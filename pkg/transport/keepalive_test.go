package transport

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestKeepaliveSendsPeriodically(t *testing.T) {
	var sends atomic.Int32
	ka := NewKeepalive(20*time.Millisecond, func() error {
		sends.Add(1)
		return nil
	})

	ka.Start(context.Background())
	defer ka.Stop()

	waitFor(t, 2*time.Second, func() bool { return sends.Load() >= 3 })

	stats := ka.Stats()
	if stats.Sent < 3 {
		t.Errorf("stats.Sent = %d, want >= 3", stats.Sent)
	}
	if stats.LastSendTime.IsZero() {
		t.Errorf("stats.LastSendTime not recorded")
	}
}

func TestKeepaliveSendErrorsDoNotStopTimer(t *testing.T) {
	var sends atomic.Int32
	ka := NewKeepalive(20*time.Millisecond, func() error {
		sends.Add(1)
		return errors.New("write failed")
	})

	ka.Start(context.Background())
	defer ka.Stop()

	waitFor(t, 2*time.Second, func() bool { return sends.Load() >= 3 })
}

func TestKeepaliveStop(t *testing.T) {
	var sends atomic.Int32
	ka := NewKeepalive(10*time.Millisecond, func() error {
		sends.Add(1)
		return nil
	})

	ka.Start(context.Background())
	if !ka.IsRunning() {
		t.Fatalf("keepalive not running after Start")
	}

	waitFor(t, 2*time.Second, func() bool { return sends.Load() >= 1 })
	ka.Stop()
	if ka.IsRunning() {
		t.Fatalf("keepalive still running after Stop")
	}

	count := sends.Load()
	time.Sleep(50 * time.Millisecond)
	if got := sends.Load(); got > count+1 {
		t.Errorf("sends continued after Stop: %d -> %d", count, got)
	}

	// Stop is idempotent.
	ka.Stop()
}

func TestKeepaliveStartWhileRunning(t *testing.T) {
	ka := NewKeepalive(time.Hour, func() error { return nil })
	ka.Start(context.Background())
	ka.Start(context.Background())
	defer ka.Stop()

	if !ka.IsRunning() {
		t.Fatalf("keepalive not running")
	}
}

func TestKeepaliveContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var sends atomic.Int32
	ka := NewKeepalive(5*time.Millisecond, func() error {
		sends.Add(1)
		return nil
	})
	ka.Start(ctx)
	defer ka.Stop()

	waitFor(t, 2*time.Second, func() bool { return sends.Load() >= 1 })
	cancel()

	count := sends.Load()
	time.Sleep(30 * time.Millisecond)
	if got := sends.Load(); got > count+1 {
		t.Errorf("sends continued after context cancel: %d -> %d", count, got)
	}
}
