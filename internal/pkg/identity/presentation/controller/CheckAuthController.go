package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/presentation/middleware"
)

// CheckAuthController echoes the authenticated account, letting clients
// restore a session from the cookie alone.
type CheckAuthController struct{}

func NewCheckAuthController() *CheckAuthController {
	return &CheckAuthController{}
}

func (h *CheckAuthController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, userResponse(u))
	}
}
