package client

import (
	"errors"
	"fmt"
)

// Client errors.
var (
	// ErrNotConnected is returned when a command is issued while the
	// transport is not writable.
	ErrNotConnected = errors.New("not connected")

	// ErrServerClosed rejects pending calls when the connection closes
	// before their response arrives.
	ErrServerClosed = errors.New("server closed the connection")

	// ErrCallInFlight is returned when a command is issued while an
	// earlier call awaiting the same response tag is still pending.
	// Correlation is by tag alone, so overlapping calls of one command
	// type would lose track of which response belongs to which call.
	ErrCallInFlight = errors.New("call already in flight for this command")

	// ErrUnknownCommand is returned by Call for a name with no descriptor.
	ErrUnknownCommand = errors.New("unknown command")
)

// ResponseError is a failure response from the server: the frame
// carried an error field or a non-success result indicator.
type ResponseError struct {
	// Tag is the command tag of the failing response.
	Tag string

	// Result is the result indicator, when present.
	Result string

	// Message is the server's error text, when present.
	Message string
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s failed: %s", e.Tag, e.Message)
	}
	if e.Result != "" {
		return fmt.Sprintf("%s failed: result %q", e.Tag, e.Result)
	}
	return fmt.Sprintf("%s failed", e.Tag)
}
