// Package client implements the Arena lobby client: a single persistent
// TLS connection carrying line-delimited compressed-JSON commands.
//
// A Client owns at most one physical connection at a time. Commands are
// correlated to their responses by command tag alone, so at most one
// call per tag may be in flight; a second overlapping call of the same
// tag is rejected with ErrCallInFlight. Closing the connection settles
// every outstanding call.
package client
