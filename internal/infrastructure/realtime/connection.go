package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Conn is one live realtime session bound to a user identity. The
// websocket-backed Connection implements it; tests substitute in-memory fakes.
type Conn interface {
	ID() string
	UserID() string
	CreatedAt() time.Time
	Send(payload []byte) error
	Close(code int, reason string)
}

// Connection wraps a websocket and coordinates outbound writes via a buffered channel.
// A connection is uniquely identified per session and is safe for concurrent use.
// The bound user identity is immutable once set at construction.
type Connection struct {
	id        string
	userID    string
	createdAt time.Time

	ws    *websocket.Conn
	send  chan []byte
	once  sync.Once
	close chan struct{}
}

// NewConnection constructs a Connection bound to the given user identity.
func NewConnection(userID string, ws *websocket.Conn) *Connection {
	return &Connection{
		id:        uuid.NewString(),
		userID:    userID,
		createdAt: time.Now().UTC(),
		ws:        ws,
		send:      make(chan []byte, 128),
		close:     make(chan struct{}),
	}
}

var _ Conn = (*Connection)(nil)

func (c *Connection) ID() string           { return c.id }
func (c *Connection) UserID() string       { return c.userID }
func (c *Connection) CreatedAt() time.Time { return c.createdAt }

// Start launches the write loop. It must be called exactly once per connection.
func (c *Connection) Start() {
	go c.writeLoop()
}

// Send enqueues payload for delivery. If the client is slow and the buffer is full,
// the connection is closed to keep backpressure bounded.
func (c *Connection) Send(payload []byte) error {
	select {
	case <-c.close:
		return errors.New("connection closed")
	case c.send <- payload:
		return nil
	default:
		c.Close(websocket.CloseGoingAway, "send buffer full")
		return errors.New("connection buffer exceeded")
	}
}

// Close terminates the connection and stops the write loop.
func (c *Connection) Close(code int, reason string) {
	c.once.Do(func() {
		// c.send stays open; a concurrent Send must never hit a closed
		// channel. The write loop exits via the close signal instead.
		close(c.close)
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.writeMessage(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.writePing(); err != nil {
				return
			}
		}
	}
}

func (c *Connection) writeMessage(payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Connection) writePing() error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}
