package chatclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
)

type collectingHandler struct {
	mu       sync.Mutex
	rosters  [][]string
	messages []realtime.MessagePayload
	notify   chan struct{}
}

func newCollectingHandler() *collectingHandler {
	return &collectingHandler{notify: make(chan struct{}, 16)}
}

func (h *collectingHandler) OnOnlineUsers(users []string) {
	h.mu.Lock()
	h.rosters = append(h.rosters, users)
	h.mu.Unlock()
	h.notify <- struct{}{}
}

func (h *collectingHandler) OnNewMessage(msg realtime.MessagePayload) {
	h.mu.Lock()
	h.messages = append(h.messages, msg)
	h.mu.Unlock()
	h.notify <- struct{}{}
}

func (h *collectingHandler) wait(t *testing.T) {
	t.Helper()
	select {
	case <-h.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an event")
	}
}

// eventServer is a minimal websocket endpoint that sends the frames it is
// given, in order, and then idles.
func eventServer(t *testing.T, frames ...any) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ws" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("token") == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		for _, frame := range frames {
			data, err := json.Marshal(frame)
			require.NoError(t, err)
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
		}
		// Hold the connection open until the client hangs up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func TestSocketDispatchesEventsInOrder(t *testing.T) {
	srv := eventServer(t,
		realtime.OnlineUsersEvent{Type: realtime.EventOnlineUsers, Users: []string{peer}},
		realtime.NewMessageEvent{Type: realtime.EventNewMessage, Message: serverMessage("m1", peer, self, "hi")},
	)
	defer srv.Close()

	sock, err := DialSocket(context.Background(), srv.URL, "tok-abc")
	require.NoError(t, err)
	defer sock.Close()

	handler := newCollectingHandler()
	require.NoError(t, sock.Subscribe(handler))

	handler.wait(t)
	handler.wait(t)

	handler.mu.Lock()
	defer handler.mu.Unlock()
	require.Len(t, handler.rosters, 1)
	assert.Equal(t, []string{peer}, handler.rosters[0])
	require.Len(t, handler.messages, 1)
	assert.Equal(t, "m1", handler.messages[0].ID)
}

func TestFramesBeforeSubscribeAreReplayed(t *testing.T) {
	srv := eventServer(t,
		realtime.OnlineUsersEvent{Type: realtime.EventOnlineUsers, Users: []string{self, peer}},
	)
	defer srv.Close()

	sock, err := DialSocket(context.Background(), srv.URL, "tok-abc")
	require.NoError(t, err)
	defer sock.Close()

	// Let the registration snapshot land before anyone is listening.
	time.Sleep(200 * time.Millisecond)

	handler := newCollectingHandler()
	require.NoError(t, sock.Subscribe(handler))
	handler.wait(t)

	handler.mu.Lock()
	defer handler.mu.Unlock()
	require.Len(t, handler.rosters, 1)
	assert.Equal(t, []string{self, peer}, handler.rosters[0])
}

func TestStoreCapturesRegistrationSnapshot(t *testing.T) {
	srv := eventServer(t,
		realtime.OnlineUsersEvent{Type: realtime.EventOnlineUsers, Users: []string{peer}},
	)
	defer srv.Close()

	sock, err := DialSocket(context.Background(), srv.URL, "tok-abc")
	require.NoError(t, err)
	defer sock.Close()

	time.Sleep(200 * time.Millisecond)

	store := NewStore(self, &fakeService{})
	require.NoError(t, store.Attach(sock))
	store.SetActivePeer(peer)

	assert.True(t, store.IsOnline(peer),
		"the roster sent at registration must survive until the store attaches")
}

func TestSocketRejectsSecondSubscriber(t *testing.T) {
	srv := eventServer(t)
	defer srv.Close()

	sock, err := DialSocket(context.Background(), srv.URL, "tok-abc")
	require.NoError(t, err)
	defer sock.Close()

	require.NoError(t, sock.Subscribe(newCollectingHandler()))
	assert.ErrorIs(t, sock.Subscribe(newCollectingHandler()), ErrAlreadySubscribed)

	sock.Unsubscribe()
	assert.NoError(t, sock.Subscribe(newCollectingHandler()))
}

func TestDialRejectedWithoutToken(t *testing.T) {
	srv := eventServer(t)
	defer srv.Close()

	_, err := DialSocket(context.Background(), srv.URL, "")
	assert.Error(t, err)
}

func TestSocketDoneClosesWhenServerHangsUp(t *testing.T) {
	// httptest stops tracking a connection once it is hijacked, so
	// CloseClientConnections cannot hang up a websocket; the handler
	// closes the upgraded connection itself to simulate the server
	// dropping it.
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		require.NoError(t, conn.Close())
	}))
	defer srv.Close()

	sock, err := DialSocket(context.Background(), srv.URL, "tok-abc")
	require.NoError(t, err)

	select {
	case <-sock.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop did not exit after the server hung up")
	}
}
