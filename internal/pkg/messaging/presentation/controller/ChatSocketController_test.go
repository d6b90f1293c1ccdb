package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
)

type stubValidator struct {
	users map[string]string // token -> user id
}

func (s stubValidator) Validate(_ context.Context, token string) (string, error) {
	if id, ok := s.users[token]; ok {
		return id, nil
	}
	return "", realtime.ErrUnauthorized
}

type socketFixture struct {
	srv      *httptest.Server
	registry *realtime.Registry
	router   *realtime.MessageRouter
}

func newSocketFixture(t *testing.T, users map[string]string) *socketFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := realtime.NewRegistry()
	presence := realtime.NewPresenceBroadcaster(registry)
	router := realtime.NewMessageRouter(registry)

	ctl := NewChatSocketController(realtime.NewAuthenticator(stubValidator{users: users}), registry, presence)

	engine := gin.New()
	engine.GET("/api/v1/ws", ctl.Handle())

	srv := httptest.NewServer(engine)
	t.Cleanup(func() {
		registry.Close()
		srv.Close()
	})
	return &socketFixture{srv: srv, registry: registry, router: router}
}

func (f *socketFixture) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	url := strings.Replace(f.srv.URL, "http", "ws", 1) + "/api/v1/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// awaitEvent reads frames until one of the given type arrives, or fails the
// test after the deadline.
func awaitEvent(t *testing.T, conn *websocket.Conn, eventType string) json.RawMessage {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %q event", eventType)
		var envelope struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(data, &envelope))
		if envelope.Type == eventType {
			return data
		}
	}
}

func awaitRoster(t *testing.T, conn *websocket.Conn, want []string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		data := awaitEvent(t, conn, realtime.EventOnlineUsers)
		var event realtime.OnlineUsersEvent
		require.NoError(t, json.Unmarshal(data, &event))
		if assert.ObjectsAreEqual(want, event.Users) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("never saw roster %v, last was %v", want, event.Users)
		}
	}
}

func TestSocketBroadcastsPresenceOnConnectAndDisconnect(t *testing.T) {
	f := newSocketFixture(t, map[string]string{
		"tok-alice": "alice",
		"tok-bob":   "bob",
	})

	alice := f.dial(t, "tok-alice")
	awaitRoster(t, alice, []string{"alice"})

	bob := f.dial(t, "tok-bob")
	awaitRoster(t, bob, []string{"alice", "bob"})
	awaitRoster(t, alice, []string{"alice", "bob"})

	require.NoError(t, alice.Close())
	awaitRoster(t, bob, []string{"bob"})
}

func TestFirstConnectionGetsRosterExactlyOnce(t *testing.T) {
	f := newSocketFixture(t, map[string]string{"tok-alice": "alice"})

	alice := f.dial(t, "tok-alice")
	awaitRoster(t, alice, []string{"alice"})

	// The membership broadcast already reached this connection; no direct
	// snapshot should follow it.
	require.NoError(t, alice.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := alice.ReadMessage()
	assert.Error(t, err, "expected no further frames after the single roster")
}

func TestSocketRejectsInvalidToken(t *testing.T) {
	f := newSocketFixture(t, map[string]string{"tok-alice": "alice"})

	url := strings.Replace(f.srv.URL, "http", "ws", 1) + "/api/v1/ws?token=bogus"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, f.registry.OnlineUsers(), "a rejected connection must never become visible")
}

func TestSocketPushesMessageToRecipientOnly(t *testing.T) {
	f := newSocketFixture(t, map[string]string{
		"tok-alice": "alice",
		"tok-bob":   "bob",
	})

	alice := f.dial(t, "tok-alice")
	awaitRoster(t, alice, []string{"alice"})
	bob := f.dial(t, "tok-bob")
	awaitRoster(t, bob, []string{"alice", "bob"})

	body := "hello bob"
	delivered := f.router.Deliver(realtime.MessagePayload{
		ID:          "m1",
		SenderID:    "alice",
		RecipientID: "bob",
		Body:        &body,
		CreatedAt:   time.Now().UTC(),
	})
	assert.Equal(t, 1, delivered)

	data := awaitEvent(t, bob, realtime.EventNewMessage)
	var event realtime.NewMessageEvent
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "m1", event.Message.ID)
	assert.Equal(t, "alice", event.Message.SenderID)

	// The sender's channel stays quiet; their copy comes from the REST response.
	require.NoError(t, alice.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, raw, err := alice.ReadMessage()
	if err == nil {
		var envelope struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(raw, &envelope))
		assert.NotEqual(t, realtime.EventNewMessage, envelope.Type)
	}
}

func TestSecondDeviceSharesIdentity(t *testing.T) {
	f := newSocketFixture(t, map[string]string{"tok-alice": "alice"})

	first := f.dial(t, "tok-alice")
	awaitRoster(t, first, []string{"alice"})

	second := f.dial(t, "tok-alice")
	awaitEvent(t, second, realtime.EventOnlineUsers)

	assert.Equal(t, []string{"alice"}, f.registry.OnlineUsers())

	body := "both devices"
	delivered := f.router.Deliver(realtime.MessagePayload{
		ID:          "m1",
		SenderID:    "bob",
		RecipientID: "alice",
		Body:        &body,
		CreatedAt:   time.Now().UTC(),
	})
	assert.Equal(t, 2, delivered)

	awaitEvent(t, first, realtime.EventNewMessage)
	awaitEvent(t, second, realtime.EventNewMessage)
}
