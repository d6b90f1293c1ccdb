package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/Dhruvraj1821/chatify/internal/infrastructure/queue/port"
	"github.com/Dhruvraj1821/chatify/internal/infrastructure/ratelimit"
	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
	identityUsecase "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/usecase"
	identityHTTP "github.com/Dhruvraj1821/chatify/internal/pkg/identity/presentation/http"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/token"
	messagingHTTP "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/presentation/http"
)

// Deps carries the shared infrastructure handed down to the HTTP layer.
type Deps struct {
	Pool     *pgxpool.Pool
	Tokens   *token.Manager
	Queue    qport.Client
	Sessions *identityUsecase.ValidateSessionUseCase
	Registry *realtime.Registry
	Presence *realtime.PresenceBroadcaster
	Router   *realtime.MessageRouter
	Limiter  *ratelimit.Limiter
}

// RegisterRoutes mounts all version 1 API routes under /api/v1.
func RegisterRoutes(r *gin.Engine, deps Deps) {
	v1 := r.Group("/api/v1")
	identityHTTP.RegisterRoutes(v1, deps.Pool, deps.Tokens, deps.Queue, deps.Sessions)
	messagingHTTP.RegisterRoutes(v1, deps.Pool, deps.Sessions, deps.Registry, deps.Presence, deps.Router, deps.Limiter)
}
