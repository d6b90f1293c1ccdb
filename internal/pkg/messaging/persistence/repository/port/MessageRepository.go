package repository

import (
	"context"

	messaging "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/application/domain"
)

// MessageRepository defines persistence operations for the messaging domain.
type MessageRepository interface {
	// SaveMessage persists the message and returns the store-generated id.
	SaveMessage(ctx context.Context, m messaging.Message) (string, error)

	// GetConversation returns messages exchanged between the two users in
	// ascending creation order, honoring limit/offset.
	GetConversation(ctx context.Context, userA, userB string, limit, offset int) ([]messaging.Message, error)

	// ListChatPartnerIDs returns the distinct identities the user has
	// exchanged at least one message with.
	ListChatPartnerIDs(ctx context.Context, userID string) ([]string, error)
}
