package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/presentation/middleware"
	messaging "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/application/domain"
	"github.com/Dhruvraj1821/chatify/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/persistence/repository/adapter"
)

// SendMessageController handles the send-message endpoint (one controller per endpoint).
// The response is the authoritative persisted message; by the time it is
// written, the realtime push to the recipient has already been attempted.
type SendMessageController struct {
	UC *usecase.SendMessageUseCase
}

func NewSendMessageController(pool *pgxpool.Pool, router *realtime.MessageRouter) *SendMessageController {
	repo := repoAdapter.NewPgMessageRepository(pool)
	uc := usecase.NewSendMessageUseCase(repo, NewRealtimeNotifier(router))
	return &SendMessageController{UC: uc}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	Body          *string `json:"body"`
	AttachmentURL *string `json:"attachment_url"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		sender := middleware.CurrentUser(c)
		if sender == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		recipientID := c.Param("id")
		if recipientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recipient id is required"})
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msg, err := h.UC.Execute(ctx, usecase.SendMessageInput{
			SenderID:      sender.ID,
			RecipientID:   recipientID,
			Body:          req.Body,
			AttachmentURL: req.AttachmentURL,
		})
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
			case errors.Is(err, messaging.ErrSelfMessage),
				errors.Is(err, messaging.ErrEmptyMessage),
				errors.Is(err, messaging.ErrMissingParties):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		c.JSON(http.StatusCreated, messageResponse(*msg))
	}
}
