package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
	messaging "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/application/domain"
)

func toPayload(m messaging.Message) realtime.MessagePayload {
	return realtime.MessagePayload{
		ID:            m.ID,
		SenderID:      m.SenderID,
		RecipientID:   m.RecipientID,
		Body:          m.Body,
		AttachmentURL: m.AttachmentURL,
		CreatedAt:     m.CreatedAt,
	}
}

func messageResponse(m messaging.Message) gin.H {
	return gin.H{
		"id":             m.ID,
		"sender_id":      m.SenderID,
		"recipient_id":   m.RecipientID,
		"body":           m.Body,
		"attachment_url": m.AttachmentURL,
		"created_at":     m.CreatedAt,
	}
}
