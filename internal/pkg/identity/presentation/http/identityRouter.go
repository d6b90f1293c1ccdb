package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/Dhruvraj1821/chatify/internal/infrastructure/queue/port"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/usecase"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/presentation/controller"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/presentation/middleware"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/token"
)

// RegisterRoutes registers identity endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, tokens *token.Manager, queue qport.Client, sessions *usecase.ValidateSessionUseCase) {
	signupCtl := controller.NewSignupController(pool, tokens, queue)
	loginCtl := controller.NewLoginController(pool, tokens)
	logoutCtl := controller.NewLogoutController()
	checkCtl := controller.NewCheckAuthController()
	profileCtl := controller.NewUpdateProfileController(pool, sessions.Cache)

	auth := g.Group("/auth")

	auth.POST("/signup", signupCtl.Handle())
	auth.POST("/login", loginCtl.Handle())
	auth.POST("/logout", logoutCtl.Handle())

	protected := auth.Group("", middleware.Protect(sessions))
	protected.GET("/check", checkCtl.Handle())
	protected.PUT("/update-profile", profileCtl.Handle())
}
