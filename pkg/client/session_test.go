package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arena-protocol/arena-go/pkg/wire"
)

func TestLoginSuccessSetsLoggedIn(t *testing.T) {
	c, dialer := newTestClient(t, Options{})
	srv := mustConnect(t, c, dialer)

	assert.False(t, c.IsLoggedIn())

	go func() {
		msg, err := srv.read()
		assert.NoError(t, err)
		assert.Equal(t, wire.TagLogin, msg.Cmd)
		assert.Equal(t, "kim", msg.StringField("user"))
		assert.NoError(t, srv.send(wire.NewMessage(wire.TagLogin, map[string]any{
			"result": "success",
			"token":  "abc123",
		})))
	}()

	resp, err := c.Login(testContext(t), map[string]any{"user": "kim", "pass": "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.StringField("token"))
	assert.True(t, c.IsLoggedIn())
}

func TestLoginFailureLeavesLoggedOut(t *testing.T) {
	c, dialer := newTestClient(t, Options{})
	srv := mustConnect(t, c, dialer)

	go func() {
		_, err := srv.read()
		assert.NoError(t, err)
		assert.NoError(t, srv.send(wire.NewMessage(wire.TagLogin, map[string]any{
			"result": "denied",
		})))
	}()

	_, err := c.Login(testContext(t), map[string]any{"user": "kim"})
	require.Error(t, err)
	assert.False(t, c.IsLoggedIn())
}

func TestDisconnectClearsLoggedInBeforeClose(t *testing.T) {
	c, dialer := newTestClient(t, Options{})
	srv := mustConnect(t, c, dialer)

	go func() {
		_, err := srv.read()
		assert.NoError(t, err)
		assert.NoError(t, srv.send(wire.NewMessage(wire.TagLogin, map[string]any{"result": "success"})))
	}()
	_, err := c.Login(testContext(t), map[string]any{"user": "kim"})
	require.NoError(t, err)
	require.True(t, c.IsLoggedIn())

	// The flag drops as soon as the disconnect request goes out, not
	// when the connection later closes.
	requestSent := make(chan struct{})
	c.OnRequest(wire.TagDisconnect, func(wire.Message) { close(requestSent) })

	go func() {
		_, err := srv.read()
		assert.NoError(t, err)
		<-requestSent
		assert.NoError(t, srv.Close())
	}()

	require.NoError(t, c.Disconnect(testContext(t)))
	assert.False(t, c.IsLoggedIn())
	assert.False(t, c.IsConnected())
}

func TestCloseClearsLoggedIn(t *testing.T) {
	c, dialer := newTestClient(t, Options{})
	srv := mustConnect(t, c, dialer)

	go func() {
		_, err := srv.read()
		assert.NoError(t, err)
		assert.NoError(t, srv.send(wire.NewMessage(wire.TagLogin, map[string]any{"result": "success"})))
	}()
	_, err := c.Login(testContext(t), map[string]any{"user": "kim"})
	require.NoError(t, err)
	require.True(t, c.IsLoggedIn())

	require.NoError(t, srv.Close())
	waitFor(t, func() bool { return !c.IsConnected() })
	assert.False(t, c.IsLoggedIn())
}

func TestOnCloseObservers(t *testing.T) {
	c, dialer := newTestClient(t, Options{})
	srv := mustConnect(t, c, dialer)

	closed := make(chan struct{})
	c.OnClose(func() { close(closed) })

	require.NoError(t, srv.Close())
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("close observer never fired")
	}
}

func TestOnResponseObservesPushes(t *testing.T) {
	c, dialer := newTestClient(t, Options{})
	srv := mustConnect(t, c, dialer)

	got := make(chan wire.Message, 1)
	c.OnResponse("lobby.update", func(msg wire.Message) { got <- msg })

	require.NoError(t, srv.send(wire.NewMessage("lobby.update", map[string]any{"battle": "b-1"})))

	select {
	case msg := <-got:
		assert.Equal(t, "b-1", msg.StringField("battle"))
	case <-time.After(2 * time.Second):
		t.Fatal("push never observed")
	}
}
