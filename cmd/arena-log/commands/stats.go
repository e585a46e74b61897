package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/arena-protocol/arena-go/pkg/log"
)

// RunStats summarizes the log file: totals, time span, traffic per
// layer and direction, message counts per tag, and error count.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	var (
		total       int
		first, last time.Time
		connections = map[string]struct{}{}
		byLayer     = map[log.Layer]int{}
		byDirection = map[log.Direction]int{}
		byTag       = map[string]int{}
		errorCount  int
	)

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading log: %w", err)
		}

		total++
		if first.IsZero() || event.Timestamp.Before(first) {
			first = event.Timestamp
		}
		if event.Timestamp.After(last) {
			last = event.Timestamp
		}
		if event.ConnectionID != "" {
			connections[event.ConnectionID] = struct{}{}
		}
		byLayer[event.Layer]++
		if event.Category == log.CategoryMessage {
			byDirection[event.Direction]++
		}
		if event.Message != nil {
			byTag[event.Message.Tag]++
		}
		if event.Category == log.CategoryError {
			errorCount++
		}
	}

	fmt.Fprintf(w, "Events:      %d\n", total)
	if total == 0 {
		return nil
	}
	fmt.Fprintf(w, "Connections: %d\n", len(connections))
	fmt.Fprintf(w, "Time span:   %s to %s (%s)\n",
		first.UTC().Format(time.RFC3339),
		last.UTC().Format(time.RFC3339),
		last.Sub(first).Round(time.Millisecond))
	fmt.Fprintf(w, "Errors:      %d\n", errorCount)

	fmt.Fprintln(w, "\nBy layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerWire, log.LayerSession} {
		if n := byLayer[layer]; n > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", layer, n)
		}
	}

	fmt.Fprintln(w, "\nMessages:")
	fmt.Fprintf(w, "  %-10s %d\n", "IN", byDirection[log.DirectionIn])
	fmt.Fprintf(w, "  %-10s %d\n", "OUT", byDirection[log.DirectionOut])

	if len(byTag) > 0 {
		tags := make([]string, 0, len(byTag))
		for tag := range byTag {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		fmt.Fprintln(w, "\nBy tag:")
		for _, tag := range tags {
			fmt.Fprintf(w, "  %-20s %d\n", tag, byTag[tag])
		}
	}
	return nil
}
