// internal/messaging/repository.go

package messaging

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateMessage(ctx context.Context, message *Message) error
	ListMatchMessages(ctx context.Context, matchID string) ([]*Message, error)
	// MarkRead flags every unread message addressed to the user in the
	// match as read.
	MarkRead(ctx context.Context, matchID, receiverID string) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateMessage(ctx context.Context, message *Message) error {
	query := `
		INSERT INTO messages (id, match_id, sender_id, receiver_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx, query,
		message.ID, message.MatchID, message.SenderID,
		message.ReceiverID, message.Content, message.CreatedAt,
	)
	return err
}

func (r *postgresRepository) ListMatchMessages(ctx context.Context, matchID string) ([]*Message, error) {
	var messages []*Message
	query := `
		SELECT id, match_id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE match_id = $1
		ORDER BY created_at ASC
	`

	if err := r.db.SelectContext(ctx, &messages, query, matchID); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *postgresRepository) MarkRead(ctx context.Context, matchID, receiverID string) error {
	query := `
		UPDATE messages
		SET is_read = TRUE
		WHERE match_id = $1 AND receiver_id = $2 AND is_read = FALSE
	`

	_, err := r.db.ExecContext(ctx, query, matchID, receiverID)
	return err
}
