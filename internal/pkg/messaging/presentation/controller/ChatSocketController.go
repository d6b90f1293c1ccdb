package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
)

// ChatSocketController handles the websocket endpoint for realtime presence
// and message push. The channel is receive-only for clients: message creation
// goes through the REST endpoint, so inbound application frames are drained
// and ignored.
type ChatSocketController struct {
	authenticator *realtime.Authenticator
	registry      *realtime.Registry
	presence      *realtime.PresenceBroadcaster
}

func NewChatSocketController(authenticator *realtime.Authenticator, registry *realtime.Registry, presence *realtime.PresenceBroadcaster) *ChatSocketController {
	return &ChatSocketController{authenticator: authenticator, registry: registry, presence: presence}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when deploying cross-site.
		return true
	},
}

const defaultReadTimeout = 60 * time.Second

// Handle authenticates the handshake, upgrades, and keeps the connection
// registered until the transport closes. The credential check runs exactly
// once, before the connection is ever visible to presence or routing.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := ctl.authenticator.Authenticate(c.Request.Context(), realtime.TokenFromRequest(c.Request))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just return.
			return
		}

		conn := realtime.NewConnection(userID, ws)
		conn.Start()
		if !ctl.registry.Register(conn) {
			// An extra device for an already-online user triggers no
			// membership broadcast, so seed the roster directly.
			ctl.presence.SendSnapshot(conn)
		}
		defer func() {
			ctl.registry.Unregister(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			// Drain until the client goes away; inbound frames carry no
			// application meaning on this channel.
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
			_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		}
	}
}
