package chatclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
)

// ErrAlreadySubscribed is returned when a second handler tries to attach
// while one is still subscribed.
var ErrAlreadySubscribed = errors.New("chatclient: a handler is already subscribed")

// Socket is a realtime connection to the chat server. A single read loop
// decodes frames and dispatches them to the subscribed handler one at a
// time, so handlers never observe concurrent events. Frames arriving while
// no handler is attached are buffered and replayed on the next Subscribe:
// the server sends the roster snapshot once, at registration, which is
// always before any caller can subscribe. Reconnection is the caller's
// concern: when Done is closed, dial again from scratch.
type Socket struct {
	conn *websocket.Conn

	mu      sync.Mutex
	handler EventHandler
	backlog [][]byte

	done      chan struct{}
	closeOnce sync.Once
}

// backlogLimit bounds frames held while no handler is attached. Old frames
// are dropped first; a later roster snapshot supersedes an earlier one.
const backlogLimit = 256

var _ Subscription = (*Socket)(nil)

// DialSocket connects to the server's websocket endpoint, presenting the
// session token as a query parameter. The server rejects the handshake
// before upgrading when the token is invalid.
func DialSocket(ctx context.Context, baseURL, token string) (*Socket, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("chatclient: invalid base url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("chatclient: unsupported scheme %q", u.Scheme)
	}
	u.Path = "/api/v1/ws"
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("chatclient: handshake rejected with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("chatclient: dial: %w", err)
	}

	s := &Socket{conn: conn, done: make(chan struct{})}
	go s.readLoop()
	return s, nil
}

// Subscribe attaches the handler and replays any buffered frames to it in
// arrival order. At most one handler may be attached; the previous one must
// be removed with Unsubscribe first.
func (s *Socket) Subscribe(h EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handler != nil {
		return ErrAlreadySubscribed
	}
	s.handler = h
	for _, data := range s.backlog {
		s.deliver(h, data)
	}
	s.backlog = nil
	return nil
}

// Unsubscribe detaches the current handler, if any. Events arriving with no
// handler attached are buffered for the next subscriber.
func (s *Socket) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = nil
}

// Done is closed when the read loop exits, whether from Close or a broken
// connection.
func (s *Socket) Done() <-chan struct{} {
	return s.done
}

// Close tears down the connection.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
	})
	return err
}

func (s *Socket) readLoop() {
	defer close(s.done)
	defer s.Close()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		s.dispatch(data)
	}
}

// dispatch holds the lock across delivery so a concurrent Subscribe cannot
// reorder a live frame ahead of the replayed backlog.
func (s *Socket) dispatch(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handler == nil {
		if len(s.backlog) == backlogLimit {
			s.backlog = s.backlog[1:]
		}
		s.backlog = append(s.backlog, data)
		return
	}
	s.deliver(s.handler, data)
}

func (s *Socket) deliver(handler EventHandler, data []byte) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return
	}

	switch envelope.Type {
	case realtime.EventOnlineUsers:
		var event realtime.OnlineUsersEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return
		}
		handler.OnOnlineUsers(event.Users)
	case realtime.EventNewMessage:
		var event realtime.NewMessageEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return
		}
		handler.OnNewMessage(event.Message)
	}
}
