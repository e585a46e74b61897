// Package reconnect keeps a lobby client connected. The client core
// performs no retries of its own; a Runner watches for closes and
// redials with exponential backoff.
package reconnect
