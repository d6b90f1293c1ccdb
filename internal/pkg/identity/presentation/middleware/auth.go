package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/usecase"
)

const userContextKey = "authenticatedUser"

// Protect rejects requests without a valid session. The credential comes from
// the jwt cookie or an explicit Authorization bearer header, validated by the
// same rule the websocket handshake uses.
func Protect(sessions *usecase.ValidateSessionUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := sessions.Execute(c.Request.Context(), tokenFromRequest(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(userContextKey, u)
		c.Next()
	}
}

// CurrentUser returns the account bound by Protect, or nil on unprotected routes.
func CurrentUser(c *gin.Context) *identity.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	u, _ := v.(*identity.User)
	return u
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("jwt"); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
