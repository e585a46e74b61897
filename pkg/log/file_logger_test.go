package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func writeTestLog(t *testing.T, path string, events []Event) {
	t.Helper()

	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		fl.Log(e)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestFileLoggerRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.alog")

	events := []Event{
		{
			Timestamp:    time.Now(),
			ConnectionID: "c1",
			Direction:    DirectionOut,
			Layer:        LayerWire,
			Category:     CategoryMessage,
			Message:      &MessageEvent{Tag: "system.ping"},
		},
		{
			Timestamp:    time.Now(),
			ConnectionID: "c1",
			Direction:    DirectionIn,
			Layer:        LayerWire,
			Category:     CategoryMessage,
			Message:      &MessageEvent{Tag: "system.pong"},
		},
	}
	writeTestLog(t, path, events)

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	var got []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		got = append(got, e)
	}

	if len(got) != len(events) {
		t.Fatalf("read %d events, want %d", len(got), len(events))
	}
	for i := range got {
		if got[i].Message.Tag != events[i].Message.Tag {
			t.Errorf("event %d tag = %q, want %q", i, got[i].Message.Tag, events[i].Message.Tag)
		}
	}
}

func TestFileLoggerCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "close.alog")

	fl, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	// Logging after close is silently ignored.
	fl.Log(Event{ConnectionID: "ignored"})
}

func TestFilteredReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtered.alog")

	in := DirectionIn
	events := []Event{
		{Timestamp: time.Now(), ConnectionID: "a", Direction: DirectionOut, Layer: LayerWire, Category: CategoryMessage, Message: &MessageEvent{Tag: "auth.login"}},
		{Timestamp: time.Now(), ConnectionID: "a", Direction: DirectionIn, Layer: LayerWire, Category: CategoryMessage, Message: &MessageEvent{Tag: "auth.login", Result: "success"}},
		{Timestamp: time.Now(), ConnectionID: "b", Direction: DirectionIn, Layer: LayerWire, Category: CategoryMessage, Message: &MessageEvent{Tag: "system.pong"}},
	}
	writeTestLog(t, path, events)

	r, err := NewFilteredReader(path, Filter{ConnectionID: "a", Direction: &in})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer r.Close()

	e, err := r.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if e.Message.Tag != "auth.login" || e.Message.Result != "success" {
		t.Errorf("unexpected event: %+v", e.Message)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestFilterByTag(t *testing.T) {
	f := Filter{Tag: "lobby.query"}

	match := Event{Message: &MessageEvent{Tag: "lobby.query"}}
	if !f.matches(match) {
		t.Errorf("expected match")
	}

	other := Event{Message: &MessageEvent{Tag: "system.ping"}}
	if f.matches(other) {
		t.Errorf("unexpected match for other tag")
	}

	noMessage := Event{StateChange: &StateChangeEvent{NewState: "CONNECTED"}}
	if f.matches(noMessage) {
		t.Errorf("unexpected match for non-message event")
	}
}
