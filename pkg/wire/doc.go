// Package wire implements the Arena frame codec.
//
// Every Arena message is a JSON object carrying a string "cmd" field
// plus command-specific fields owned by the external schema catalog.
// On the wire a message becomes exactly one line:
//
//	compact JSON -> zlib deflate -> base64 -> "\n"
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│      JSON Messages             │
//	├────────────────────────────────┤
//	│   zlib + base64, one per line  │
//	├────────────────────────────────┤
//	│         TLS                    │
//	├────────────────────────────────┤
//	│           TCP                  │
//	└────────────────────────────────┘
//
// Encode and Decode are pure functions: Decode(Encode(m)) == m for any
// structurally valid message m. Decoding failures are reported as
// *ProtocolError and never terminate the caller's read loop.
//
// The codec does not validate command payload shapes. Responses may
// carry a "result" indicator and an "error" text consulted by the
// command invoker; Message exposes helpers for both.
package wire
