// Package log provides structured protocol event logging for Arena
// connections.
//
// Unlike application logging, protocol logging captures every frame,
// decoded message, state change and error on a connection as a typed
// Event. Events can be written to a compact CBOR log file (FileLogger,
// conventionally *.alog), mirrored to the console via log/slog
// (SlogAdapter), fanned out (MultiLogger), or discarded (NoopLogger).
//
// Log files are analyzed with the arena-log command or replayed
// programmatically with Reader.
package log
