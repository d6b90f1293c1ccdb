package controller

import (
	"time"

	"github.com/gin-gonic/gin"

	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
)

// sessionCookie is shared by the REST API and the websocket handshake.
const sessionCookie = "jwt"

func setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	// httpOnly keeps the token away from page scripts; the realtime client
	// passes it explicitly as a handshake parameter instead.
	c.SetCookie(sessionCookie, token, int(ttl/time.Second), "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// userResponse is the public shape of an account; the password hash never leaves the server.
func userResponse(u *identity.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"full_name":   u.FullName,
		"profile_pic": u.ProfilePic,
		"created_at":  u.CreatedAt,
	}
}
