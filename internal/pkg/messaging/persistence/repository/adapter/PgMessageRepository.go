package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	messaging "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/application/domain"
	repository "github.com/Dhruvraj1821/chatify/internal/pkg/messaging/persistence/repository/port"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ repository.MessageRepository = (*PgMessageRepository)(nil)

func (r *PgMessageRepository) SaveMessage(ctx context.Context, m messaging.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgMessageRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messaging.message (sender_id, recipient_id, body, attachment_url, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5)
		RETURNING id::text
	`, m.SenderID, m.RecipientID, m.Body, m.AttachmentURL, m.CreatedAt).Scan(&id)
	return id, err
}

func (r *PgMessageRepository) GetConversation(ctx context.Context, userA, userB string, limit, offset int) ([]messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, sender_id::text, recipient_id::text, body, attachment_url, created_at
		FROM messaging.message
		WHERE (sender_id = $1::uuid AND recipient_id = $2::uuid)
		   OR (sender_id = $2::uuid AND recipient_id = $1::uuid)
		ORDER BY created_at ASC
		LIMIT $3 OFFSET $4
	`, userA, userB, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []messaging.Message
	for rows.Next() {
		var m messaging.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.AttachmentURL, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *PgMessageRepository) ListChatPartnerIDs(ctx context.Context, userID string) ([]string, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT CASE WHEN sender_id = $1::uuid THEN recipient_id ELSE sender_id END::text AS partner_id
		FROM messaging.message
		WHERE sender_id = $1::uuid OR recipient_id = $1::uuid
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
