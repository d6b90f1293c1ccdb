package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "github.com/Dhruvraj1821/chatify/internal/infrastructure/queue/port"
	identity "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/domain"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/task"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/usecase"
	repoAdapter "github.com/Dhruvraj1821/chatify/internal/pkg/identity/persistence/repository/adapter"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/token"
)

// SignupController handles account registration (one controller per endpoint)
type SignupController struct {
	UC     *usecase.SignupUseCase
	Tokens *token.Manager
}

func NewSignupController(pool *pgxpool.Pool, tokens *token.Manager, queue qport.Client) *SignupController {
	repo := repoAdapter.NewPgUserRepository(pool)
	uc := usecase.NewSignupUseCase(repo, token.NewHasher(), tokens, task.NewQueueNotifier(queue))
	return &SignupController{UC: uc, Tokens: tokens}
}

// signupRequest is the DTO for the HTTP request body
type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *SignupController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		u, signed, err := h.UC.Execute(ctx, usecase.SignupInput{
			Email:    req.Email,
			FullName: req.FullName,
			Password: req.Password,
		})
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrEmailTaken):
				c.JSON(http.StatusConflict, gin.H{"error": "email is already registered"})
			case errors.Is(err, identity.ErrInvalidEmail),
				errors.Is(err, identity.ErrWeakPassword),
				errors.Is(err, identity.ErrMissingFullName):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
			}
			return
		}

		setSessionCookie(c, signed, h.Tokens.TTL())
		c.JSON(http.StatusCreated, userResponse(u))
	}
}
