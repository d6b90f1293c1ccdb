package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dhruvraj1821/chatify/internal/infrastructure/ratelimit"
	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
	identityUsecase "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/usecase"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/presentation/middleware"
	"github.com/Dhruvraj1821/chatify/internal/pkg/messaging/presentation/controller"
)

const (
	messageRateLimit  = 60
	messageRateWindow = time.Minute
)

// RegisterRoutes registers messaging endpoints under the given router group.
// Rate limiting runs before authentication so unauthenticated floods get
// blocked before they hit the credential check.
func RegisterRoutes(
	g *gin.RouterGroup,
	pool *pgxpool.Pool,
	sessions *identityUsecase.ValidateSessionUseCase,
	registry *realtime.Registry,
	presence *realtime.PresenceBroadcaster,
	router *realtime.MessageRouter,
	limiter *ratelimit.Limiter,
) {
	contactsCtl := controller.NewContactsController(pool)
	partnersCtl := controller.NewChatPartnersController(pool)
	conversationCtl := controller.NewGetConversationController(pool)
	sendCtl := controller.NewSendMessageController(pool, router)
	socketCtl := controller.NewChatSocketController(realtime.NewAuthenticator(sessions), registry, presence)

	messages := g.Group("/messages",
		middleware.RateLimit(limiter, messageRateLimit, messageRateWindow),
		middleware.Protect(sessions),
	)
	messages.GET("/contacts", contactsCtl.Handle())
	messages.GET("/chats", partnersCtl.Handle())
	messages.GET("/:id", conversationCtl.Handle())
	messages.POST("/send/:id", sendCtl.Handle())

	// The websocket handshake carries its own credential; the controller
	// authenticates before the upgrade.
	g.GET("/ws", socketCtl.Handle())
}
