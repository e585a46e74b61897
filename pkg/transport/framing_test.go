package transport

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/arena-protocol/arena-go/pkg/log"
)

func TestLineWriterReader(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
	}{
		{"with delimiter", []byte("aGVsbG8=\n")},
		{"without delimiter", []byte("aGVsbG8=")},
		{"longer payload", append(bytes.Repeat([]byte("A"), 10000), '\n')},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)

			writer := NewLineWriter(buf)
			if err := writer.WriteFrame(tt.frame); err != nil {
				t.Fatalf("WriteFrame failed: %v", err)
			}
			if buf.Bytes()[buf.Len()-1] != Delimiter {
				t.Errorf("written frame not delimiter-terminated")
			}

			reader := NewLineReader(buf)
			got, err := reader.ReadFrame()
			if err != nil {
				t.Fatalf("ReadFrame failed: %v", err)
			}

			want := bytes.TrimRight(tt.frame, "\n")
			if !bytes.Equal(got, want) {
				t.Errorf("frame = %q, want %q", got, want)
			}
		})
	}
}

func TestLineWriterEmptyFrame(t *testing.T) {
	writer := NewLineWriter(new(bytes.Buffer))

	if err := writer.WriteFrame(nil); !errors.Is(err, ErrFrameEmpty) {
		t.Errorf("expected ErrFrameEmpty for nil, got %v", err)
	}
	if err := writer.WriteFrame([]byte("\n")); !errors.Is(err, ErrFrameEmpty) {
		t.Errorf("expected ErrFrameEmpty for bare delimiter, got %v", err)
	}
}

func TestLineReaderMultipleFramesPerChunk(t *testing.T) {
	// One chunk, three frames: the reader must split on delimiters.
	reader := NewLineReader(strings.NewReader("one\ntwo\nthree\n"))

	for _, want := range []string{"one", "two", "three"} {
		got, err := reader.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame failed: %v", err)
		}
		if string(got) != want {
			t.Errorf("frame = %q, want %q", got, want)
		}
	}

	if _, err := reader.ReadFrame(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestLineReaderSplitChunks(t *testing.T) {
	// Deliver bytes one at a time to simulate fragmented network reads.
	reader := NewLineReader(iotest{r: strings.NewReader("partial-frame\n")})

	got, err := reader.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if string(got) != "partial-frame" {
		t.Errorf("frame = %q", got)
	}
}

// iotest delivers at most one byte per Read call.
type iotest struct{ r io.Reader }

func (o iotest) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return o.r.Read(p)
}

func TestLineReaderStripsCarriageReturn(t *testing.T) {
	reader := NewLineReader(strings.NewReader("frame\r\n"))

	got, err := reader.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if string(got) != "frame" {
		t.Errorf("frame = %q, want %q", got, "frame")
	}
}

func TestLineReaderFrameTooLarge(t *testing.T) {
	long := strings.Repeat("x", 200) + "\n"
	reader := NewLineReader(strings.NewReader(long))
	reader.SetMaxFrameSize(100)

	if _, err := reader.ReadFrame(); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestFramerLogsFrames(t *testing.T) {
	buf := new(bytes.Buffer)
	framer := NewFramer(struct {
		io.Reader
		io.Writer
	}{buf, buf})

	logger := &captureLogger{}
	framer.SetLogger(logger, "conn-1", "127.0.0.1:8200")

	if err := framer.WriteFrame([]byte("abc\n")); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}
	if _, err := framer.ReadFrame(); err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	if len(logger.events) != 2 {
		t.Fatalf("logged %d events, want 2", len(logger.events))
	}
	if logger.events[0].Direction != log.DirectionOut || logger.events[1].Direction != log.DirectionIn {
		t.Errorf("event directions wrong: %v, %v", logger.events[0].Direction, logger.events[1].Direction)
	}
	for _, e := range logger.events {
		if e.ConnectionID != "conn-1" || e.Layer != log.LayerTransport || e.Frame == nil {
			t.Errorf("malformed frame event: %+v", e)
		}
	}
}

type captureLogger struct {
	events []log.Event
}

func (l *captureLogger) Log(event log.Event) {
	l.events = append(l.events, event)
}
