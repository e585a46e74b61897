package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/arena-protocol/arena-go/pkg/log"
)

// Framing constants.
const (
	// Delimiter separates frames on the wire.
	Delimiter = '\n'

	// DefaultMaxFrameSize is the maximum accepted line length (256 KB).
	// Base64-encoded compressed JSON stays far below this in practice.
	DefaultMaxFrameSize = 256 * 1024

	// MaxLogFrameDataSize is the largest frame prefix included in log
	// events (4 KB); longer frames are truncated in the event only.
	MaxLogFrameDataSize = 4096
)

// Framing errors.
var (
	// ErrFrameTooLarge indicates a line exceeding the maximum size.
	ErrFrameTooLarge = errors.New("frame too large")

	// ErrFrameEmpty indicates an attempt to write an empty frame.
	ErrFrameEmpty = errors.New("frame is empty")
)

// LineWriter writes delimiter-terminated frames to an underlying writer.
type LineWriter struct {
	w            io.Writer
	maxFrameSize int
	mu           sync.Mutex

	logger log.Logger
	connID string
	remote string
}

// NewLineWriter creates a line writer with the default maximum frame size.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w, maxFrameSize: DefaultMaxFrameSize}
}

// SetLogger configures protocol logging for this writer. Pass nil to disable.
func (lw *LineWriter) SetLogger(logger log.Logger, connID, remote string) {
	lw.logger = logger
	lw.connID = connID
	lw.remote = remote
}

// WriteFrame writes one frame. The data should already carry its
// trailing delimiter (the codec appends it); a missing delimiter is
// added. Thread-safe: concurrent callers each emit one whole frame.
func (lw *LineWriter) WriteFrame(data []byte) error {
	if len(data) == 0 || (len(data) == 1 && data[0] == Delimiter) {
		return ErrFrameEmpty
	}
	if len(data) > lw.maxFrameSize {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(data), lw.maxFrameSize)
	}

	lw.mu.Lock()
	defer lw.mu.Unlock()

	if _, err := lw.w.Write(data); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	if data[len(data)-1] != Delimiter {
		if _, err := lw.w.Write([]byte{Delimiter}); err != nil {
			return fmt.Errorf("failed to write frame delimiter: %w", err)
		}
	}

	if lw.logger != nil {
		lw.logger.Log(makeFrameEvent(data, log.DirectionOut, lw.connID, lw.remote))
	}
	return nil
}

// LineReader reads delimiter-terminated frames from an underlying reader.
type LineReader struct {
	r            *bufio.Reader
	maxFrameSize int

	logger log.Logger
	connID string
	remote string
}

// NewLineReader creates a line reader with the default maximum frame size.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		r:            bufio.NewReader(r),
		maxFrameSize: DefaultMaxFrameSize,
	}
}

// SetLogger configures protocol logging for this reader. Pass nil to disable.
func (lr *LineReader) SetLogger(logger log.Logger, connID, remote string) {
	lr.logger = logger
	lr.connID = connID
	lr.remote = remote
}

// SetMaxFrameSize updates the maximum accepted line length.
func (lr *LineReader) SetMaxFrameSize(size int) {
	lr.maxFrameSize = size
}

// ReadFrame reads the next frame, returned without its delimiter.
// A byte chunk arriving from the network may carry a fraction of a
// frame or several frames; the buffered reader reassembles them.
// Returns io.EOF once the stream ends cleanly.
func (lr *LineReader) ReadFrame() ([]byte, error) {
	var frame []byte
	for {
		chunk, err := lr.r.ReadSlice(Delimiter)
		frame = append(frame, chunk...)
		if len(frame) > lr.maxFrameSize {
			return nil, fmt.Errorf("%w: exceeds %d bytes", ErrFrameTooLarge, lr.maxFrameSize)
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return nil, err
	}

	if lr.logger != nil {
		lr.logger.Log(makeFrameEvent(frame, log.DirectionIn, lr.connID, lr.remote))
	}

	// Strip the delimiter and an optional carriage return.
	frame = frame[:len(frame)-1]
	if n := len(frame); n > 0 && frame[n-1] == '\r' {
		frame = frame[:n-1]
	}
	return frame, nil
}

// makeFrameEvent builds a transport-layer log event for one frame.
func makeFrameEvent(data []byte, direction log.Direction, connID, remote string) log.Event {
	frameData := data
	truncated := false
	if len(frameData) > MaxLogFrameDataSize {
		frameData = frameData[:MaxLogFrameDataSize]
		truncated = true
	}

	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    direction,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		RemoteAddr:   remote,
		Frame: &log.FrameEvent{
			Size:      len(data),
			Data:      frameData,
			Truncated: truncated,
		},
	}
}

// Framer combines frame reading and writing over one stream.
type Framer struct {
	*LineReader
	*LineWriter
}

// NewFramer creates a framer for bidirectional communication.
func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{
		LineReader: NewLineReader(rw),
		LineWriter: NewLineWriter(rw),
	}
}

// SetLogger configures protocol logging for both directions.
func (f *Framer) SetLogger(logger log.Logger, connID, remote string) {
	f.LineReader.SetLogger(logger, connID, remote)
	f.LineWriter.SetLogger(logger, connID, remote)
}
