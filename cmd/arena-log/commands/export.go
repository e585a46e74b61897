package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arena-protocol/arena-go/pkg/log"
)

// RunExport writes the log file as JSONL or CSV. An empty output path
// means stdout.
func RunExport(path, format, output string) error {
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(path, w)
	case "csv":
		return exportCSV(path, w)
	default:
		return fmt.Errorf("unknown format %q (use: jsonl, csv)", format)
	}
}

// exportRecord is the JSONL shape: one flattened event per line.
type exportRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	ConnectionID string    `json:"connection_id,omitempty"`
	Direction    string    `json:"direction"`
	Layer        string    `json:"layer"`
	Category     string    `json:"category"`
	RemoteAddr   string    `json:"remote_addr,omitempty"`

	Frame       *log.FrameEvent       `json:"frame,omitempty"`
	Message     *log.MessageEvent     `json:"message,omitempty"`
	StateChange *log.StateChangeEvent `json:"state_change,omitempty"`
	Error       *log.ErrorEventData   `json:"error,omitempty"`
}

func toRecord(event log.Event) exportRecord {
	return exportRecord{
		Timestamp:    event.Timestamp,
		ConnectionID: event.ConnectionID,
		Direction:    event.Direction.String(),
		Layer:        event.Layer.String(),
		Category:     event.Category.String(),
		RemoteAddr:   event.RemoteAddr,
		Frame:        event.Frame,
		Message:      event.Message,
		StateChange:  event.StateChange,
		Error:        event.Error,
	}
}

func exportJSONL(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	enc := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading log: %w", err)
		}
		if err := enc.Encode(toRecord(event)); err != nil {
			return err
		}
	}
}

func exportCSV(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "connection_id", "direction", "layer", "category", "tag", "detail"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading log: %w", err)
		}

		var tag, detail string
		switch {
		case event.Message != nil:
			tag = event.Message.Tag
			if event.Message.Error != "" {
				detail = event.Message.Error
			} else {
				detail = event.Message.Result
			}
		case event.Frame != nil:
			detail = fmt.Sprintf("%d bytes", event.Frame.Size)
		case event.StateChange != nil:
			detail = fmt.Sprintf("%s -> %s", event.StateChange.OldState, event.StateChange.NewState)
		case event.Error != nil:
			detail = event.Error.Message
		}

		row := []string{
			event.Timestamp.UTC().Format(time.RFC3339Nano),
			event.ConnectionID,
			event.Direction.String(),
			event.Layer.String(),
			event.Category.String(),
			tag,
			detail,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
}
