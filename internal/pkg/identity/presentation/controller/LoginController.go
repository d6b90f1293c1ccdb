package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/usecase"
	repoAdapter "github.com/Dhruvraj1821/chatify/internal/pkg/identity/persistence/repository/adapter"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/token"
)

// LoginController handles credential login (one controller per endpoint)
type LoginController struct {
	UC     *usecase.LoginUseCase
	Tokens *token.Manager
}

func NewLoginController(pool *pgxpool.Pool, tokens *token.Manager) *LoginController {
	repo := repoAdapter.NewPgUserRepository(pool)
	uc := usecase.NewLoginUseCase(repo, token.NewHasher(), tokens)
	return &LoginController{UC: uc, Tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *LoginController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		u, signed, err := h.UC.Execute(ctx, usecase.LoginInput{Email: req.Email, Password: req.Password})
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}

		setSessionCookie(c, signed, h.Tokens.TTL())
		c.JSON(http.StatusOK, userResponse(u))
	}
}
