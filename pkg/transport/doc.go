// Package transport provides the Arena transport layer: TLS client
// connections carrying newline-delimited frames, plus the keepalive
// driver.
//
// The transport layer handles:
//   - TLS connections to lobby servers
//   - Line framing (one encoded message per line)
//   - Periodic fire-and-forget keepalive pings
//
// It does not interpret frame contents; encoding and decoding live in
// package wire, and connection lifecycle policy lives in package
// client. A Conn is owned exclusively by one client: writes are
// serialized internally so each WriteFrame emits exactly one
// well-formed frame.
package transport
