package wire

// Well-known command tags. The full catalog of commands and their
// field schemas is owned by the Arena protocol specification; the
// client core only ever treats tags as opaque strings, but the
// descriptor table and session tracking need these few by name.
const (
	// TagPing is the keepalive request tag.
	TagPing = "system.ping"

	// TagPong is the keepalive response tag.
	TagPong = "system.pong"

	// TagRegister is the account registration tag (request and response).
	TagRegister = "auth.register"

	// TagGetToken is the token retrieval tag (request and response).
	TagGetToken = "auth.get_token"

	// TagLogin is the login tag (request and response).
	TagLogin = "auth.login"

	// TagVerify is the account verification tag (request and response).
	TagVerify = "auth.verify"

	// TagDisconnect is the graceful disconnect request tag.
	// The server answers by closing the connection, not with a frame.
	TagDisconnect = "auth.disconnect"

	// TagQueryBattles is the lobby battle listing tag (request and response).
	TagQueryBattles = "lobby.query"
)

// Reserved field names consulted by the codec and the command invoker.
const (
	// FieldCmd carries the command tag. Present in every message.
	FieldCmd = "cmd"

	// FieldResult carries the result indicator of a response.
	FieldResult = "result"

	// FieldError carries a human-readable error description.
	FieldError = "error"

	// ResultSuccess is the result indicator value for a successful response.
	ResultSuccess = "success"
)

// Message is one decoded Arena protocol message: a command tag plus
// the remaining JSON fields. Fields never contains the "cmd" key.
type Message struct {
	// Cmd is the command tag, e.g. "system.ping".
	Cmd string

	// Fields holds all other top-level JSON members of the message.
	Fields map[string]any
}

// NewMessage builds a message for the given tag and fields.
// The fields map is used as-is; pass nil for a payload-free message.
func NewMessage(cmd string, fields map[string]any) Message {
	return Message{Cmd: cmd, Fields: fields}
}

// Field returns a top-level field value and whether it was present.
func (m Message) Field(name string) (any, bool) {
	v, ok := m.Fields[name]
	return v, ok
}

// StringField returns a field as a string, or "" if absent or not a string.
func (m Message) StringField(name string) string {
	s, _ := m.Fields[name].(string)
	return s
}

// Result returns the response result indicator and whether one is present.
func (m Message) Result() (string, bool) {
	s, ok := m.Fields[FieldResult].(string)
	return s, ok
}

// IsSuccess reports whether the message carries an explicit success
// result indicator.
func (m Message) IsSuccess() bool {
	r, ok := m.Result()
	return ok && r == ResultSuccess
}

// IsFailure reports whether the message signals a failed delivery:
// either an "error" field, or a "result" indicator other than success.
// Messages with neither field are ordinary payloads, not failures.
func (m Message) IsFailure() bool {
	if _, ok := m.Fields[FieldError]; ok {
		return true
	}
	if r, ok := m.Result(); ok {
		return r != ResultSuccess
	}
	return false
}

// ErrorText returns the "error" field, or "" when none is present.
func (m Message) ErrorText() string {
	return m.StringField(FieldError)
}
