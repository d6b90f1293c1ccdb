package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LogoutController clears the session cookie. Tokens are not revoked server
// side; they simply age out.
type LogoutController struct{}

func NewLogoutController() *LogoutController {
	return &LogoutController{}
}

func (h *LogoutController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		clearSessionCookie(c)
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}
