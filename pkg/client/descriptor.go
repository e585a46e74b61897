package client

import "github.com/arena-protocol/arena-go/pkg/wire"

// Descriptor binds a command name to its wire tags. Request is the
// outgoing tag; Response is the tag the server answers with, or empty
// for send-only commands.
type Descriptor struct {
	Name     string
	Request  string
	Response string
}

// CloseExpected reports whether the server answers this command by
// closing the connection instead of sending a response frame.
func (d Descriptor) CloseExpected() bool {
	return d.Request == wire.TagDisconnect
}

// descriptors is the fixed command catalog. Auth and lobby commands
// echo their request tag in the response; ping is answered with pong;
// disconnect is answered by closing the connection.
var descriptors = []Descriptor{
	{Name: "ping", Request: wire.TagPing, Response: wire.TagPong},
	{Name: "register", Request: wire.TagRegister, Response: wire.TagRegister},
	{Name: "getToken", Request: wire.TagGetToken, Response: wire.TagGetToken},
	{Name: "login", Request: wire.TagLogin, Response: wire.TagLogin},
	{Name: "verify", Request: wire.TagVerify, Response: wire.TagVerify},
	{Name: "disconnect", Request: wire.TagDisconnect},
	{Name: "getBattles", Request: wire.TagQueryBattles, Response: wire.TagQueryBattles},
}

// Commands returns the command catalog.
func Commands() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// descriptorByName looks up a command descriptor by its name.
func descriptorByName(name string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
