package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// MessageTypeText is the only message type currently produced. The column
// exists for future message kinds.
const MessageTypeText = "text"

// ListMessages returns the full message history of a chat in ascending
// timestamp order, with sender display names resolved. The requester must be
// a participant.
func (s *Store) ListMessages(ctx context.Context, chatID, requesterID uuid.UUID) ([]Message, error) {
	member, err := s.IsParticipant(ctx, chatID, requesterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotParticipant
	}

	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.chat_id, m.sender_id, u.name, m.body, m.msg_type, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.chat_id = $1
		ORDER BY m.created_at, m.id`,
		chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.SenderName, &m.Body, &m.Type, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// CreateMessage persists a message and advances the chat's last-message
// pointer in one transaction. The sender must be a participant of the target
// chat; ErrNotParticipant is returned otherwise and nothing is written.
func (s *Store) CreateMessage(ctx context.Context, chatID, senderID uuid.UUID, body string) (Message, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Message{}, fmt.Errorf("create message: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var chatExists, member bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM chats WHERE id = $1),
		       EXISTS (SELECT 1 FROM chat_participants WHERE chat_id = $1 AND user_id = $2)`,
		chatID, senderID,
	).Scan(&chatExists, &member)
	if err != nil {
		return Message{}, fmt.Errorf("create message: membership check: %w", err)
	}
	if !chatExists {
		return Message{}, ErrNotFound
	}
	if !member {
		return Message{}, ErrNotParticipant
	}

	var m Message
	err = tx.QueryRow(ctx, `
		INSERT INTO messages (chat_id, sender_id, body, msg_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, chat_id, sender_id, body, msg_type, created_at`,
		chatID, senderID, body, MessageTypeText,
	).Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Body, &m.Type, &m.CreatedAt)
	if err != nil {
		return Message{}, fmt.Errorf("create message: insert: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE chats SET last_message_id = $2 WHERE id = $1`, chatID, m.ID)
	if err != nil {
		return Message{}, fmt.Errorf("create message: update last message: %w", err)
	}

	err = tx.QueryRow(ctx, `SELECT name FROM users WHERE id = $1`, senderID).Scan(&m.SenderName)
	if err != nil {
		return Message{}, fmt.Errorf("create message: resolve sender: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Message{}, fmt.Errorf("create message: commit: %w", err)
	}

	return m, nil
}
