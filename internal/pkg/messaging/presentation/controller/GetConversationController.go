package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/presentation/middleware"
	"github.com/Dhruvraj1821/chatify/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/persistence/repository/adapter"
)

// GetConversationController fetches the message history with one peer.
type GetConversationController struct {
	UC *usecase.GetConversationUseCase
}

func NewGetConversationController(pool *pgxpool.Pool) *GetConversationController {
	repo := repoAdapter.NewPgMessageRepository(pool)
	return &GetConversationController{UC: usecase.NewGetConversationUseCase(repo)}
}

func (h *GetConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		peerID := c.Param("id")
		if peerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "peer id is required"})
			return
		}

		limit := 50
		offset := 0
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		if v := c.Query("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.GetConversationInput{
			UserID: u.ID,
			PeerID: peerID,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, messageResponse(m))
		}
		c.JSON(http.StatusOK, gin.H{
			"messages": out,
			"limit":    limit,
			"offset":   offset,
			"count":    len(out),
		})
	}
}
