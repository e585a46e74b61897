// Package persistence stores lobby credentials on disk so a client
// can log back in across restarts.
package persistence
