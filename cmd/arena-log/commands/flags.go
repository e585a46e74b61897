// Package commands implements the arena-log CLI commands.
package commands

import (
	"fmt"
	"strings"

	"github.com/arena-protocol/arena-go/pkg/log"
)

// ParseLayerFlag converts a -layer flag value to a layer filter.
func ParseLayerFlag(s string) (*log.Layer, error) {
	var l log.Layer
	switch strings.ToLower(s) {
	case "transport":
		l = log.LayerTransport
	case "wire":
		l = log.LayerWire
	case "session":
		l = log.LayerSession
	default:
		return nil, fmt.Errorf("unknown layer %q (use: transport, wire, session)", s)
	}
	return &l, nil
}

// ParseDirectionFlag converts a -direction flag value to a direction filter.
func ParseDirectionFlag(s string) (*log.Direction, error) {
	var d log.Direction
	switch strings.ToLower(s) {
	case "in":
		d = log.DirectionIn
	case "out":
		d = log.DirectionOut
	default:
		return nil, fmt.Errorf("unknown direction %q (use: in, out)", s)
	}
	return &d, nil
}

// ParseCategoryFlag converts a -category flag value to a category filter.
func ParseCategoryFlag(s string) (*log.Category, error) {
	var c log.Category
	switch strings.ToLower(s) {
	case "message":
		c = log.CategoryMessage
	case "state":
		c = log.CategoryState
	case "error":
		c = log.CategoryError
	default:
		return nil, fmt.Errorf("unknown category %q (use: message, state, error)", s)
	}
	return &c, nil
}
