package wire

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Delimiter terminates every encoded frame. Exactly one message per line.
const Delimiter byte = '\n'

// Codec stage names used in ProtocolError.
const (
	StageEncode  = "encode"
	StageBase64  = "base64"
	StageInflate = "inflate"
	StageParse   = "parse"
)

// ProtocolError reports a frame that could not be encoded or decoded.
// Decoding failures are local to the offending frame: callers log the
// error and continue with the next line.
type ProtocolError struct {
	// Stage identifies the codec stage that failed.
	Stage string

	// Err is the underlying cause.
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error at %s: %v", e.Stage, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Encode serializes a message to its wire form: the fields object with
// the command tag merged in, compacted, zlib-compressed, base64-encoded
// and terminated with a newline. Encoding is deterministic for
// identical input.
func Encode(m Message) ([]byte, error) {
	if m.Cmd == "" {
		return nil, &ProtocolError{Stage: StageEncode, Err: errors.New("empty command tag")}
	}

	fields := m.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, &ProtocolError{Stage: StageEncode, Err: err}
	}

	// Merge the tag into the argument object so the wire carries a
	// single flat JSON object per frame.
	body, err = sjson.SetBytes(body, FieldCmd, m.Cmd)
	if err != nil {
		return nil, &ProtocolError{Stage: StageEncode, Err: err}
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(body); err != nil {
		return nil, &ProtocolError{Stage: StageEncode, Err: err}
	}
	if err := zw.Close(); err != nil {
		return nil, &ProtocolError{Stage: StageEncode, Err: err}
	}

	out := make([]byte, base64.StdEncoding.EncodedLen(compressed.Len())+1)
	base64.StdEncoding.Encode(out, compressed.Bytes())
	out[len(out)-1] = Delimiter
	return out, nil
}

// Decode reverses Encode. It accepts a frame with or without its
// trailing line terminator and fails with *ProtocolError if the text
// is not valid base64, decompression fails, or the decompressed text
// is not a JSON object carrying a string "cmd" field.
func Decode(data []byte) (Message, error) {
	line := bytes.TrimRight(data, "\r\n")
	if len(line) == 0 {
		return Message{}, &ProtocolError{Stage: StageBase64, Err: errors.New("empty frame")}
	}

	compressed := make([]byte, base64.StdEncoding.DecodedLen(len(line)))
	n, err := base64.StdEncoding.Decode(compressed, line)
	if err != nil {
		return Message{}, &ProtocolError{Stage: StageBase64, Err: err}
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed[:n]))
	if err != nil {
		return Message{}, &ProtocolError{Stage: StageInflate, Err: err}
	}
	raw, err := io.ReadAll(zr)
	if cerr := zr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Message{}, &ProtocolError{Stage: StageInflate, Err: err}
	}

	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return Message{}, &ProtocolError{Stage: StageParse, Err: errors.New("frame is not a JSON object")}
	}
	cmd := gjson.GetBytes(raw, FieldCmd)
	if cmd.Type != gjson.String || cmd.Str == "" {
		return Message{}, &ProtocolError{Stage: StageParse, Err: errors.New("missing or non-string cmd field")}
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Message{}, &ProtocolError{Stage: StageParse, Err: err}
	}
	delete(fields, FieldCmd)

	return Message{Cmd: cmd.Str, Fields: fields}, nil
}
