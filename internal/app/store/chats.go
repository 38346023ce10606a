package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"uniconnect/internal/app/db"
)

// AssignDefaultChats enrolls the user into every chat named by keys, creating
// missing chats on the way. The whole sequence runs in one transaction and
// each chat is claimed with an upsert against the (name, type) unique
// constraint, so concurrent registrations for the same novel key converge on
// a single chat row. Re-running for another user with the same keys reuses
// the existing chats. Returns the chat ids in key order.
func (s *Store) AssignDefaultChats(ctx context.Context, userID uuid.UUID, keys []ChatKey) ([]uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("assign default chats: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	chatIDs := make([]uuid.UUID, 0, len(keys))

	for _, key := range keys {
		var chatID uuid.UUID

		// DO UPDATE instead of DO NOTHING so RETURNING always yields the row.
		err := tx.QueryRow(ctx, `
			INSERT INTO chats (name, type) VALUES ($1, $2)
			ON CONFLICT ON CONSTRAINT chats_name_type_key
			DO UPDATE SET name = EXCLUDED.name
			RETURNING id`,
			key.Name, key.Type,
		).Scan(&chatID)
		if err != nil {
			return nil, fmt.Errorf("assign default chats: upsert chat (%s, %s): %w", key.Name, key.Type, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO chat_participants (chat_id, user_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			chatID, userID,
		)
		if err != nil {
			return nil, fmt.Errorf("assign default chats: add participant: %w", err)
		}

		chatIDs = append(chatIDs, chatID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("assign default chats: commit: %w", err)
	}

	return chatIDs, nil
}

// ListUserChats returns the chats the user participates in, most recently
// active first, with the last-message preview populated.
func (s *Store) ListUserChats(ctx context.Context, userID uuid.UUID) ([]ChatSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.id, c.name, c.type,
		       COALESCE(m.body, ''), COALESCE(u.name, ''),
		       COALESCE(m.created_at, c.created_at)
		FROM chats c
		JOIN chat_participants cp ON cp.chat_id = c.id AND cp.user_id = $1
		LEFT JOIN messages m ON m.id = c.last_message_id
		LEFT JOIN users u ON u.id = m.sender_id
		ORDER BY COALESCE(m.created_at, c.created_at) DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user chats: %w", err)
	}
	defer rows.Close()

	chats := make([]ChatSummary, 0)
	for rows.Next() {
		var c ChatSummary
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.LastMessage, &c.LastSenderName, &c.LastActivity); err != nil {
			return nil, fmt.Errorf("scan chat summary: %w", err)
		}
		chats = append(chats, c)
	}

	return chats, rows.Err()
}

// GetChat fetches one chat with its participant list resolved.
func (s *Store) GetChat(ctx context.Context, chatID uuid.UUID) (ChatDetail, error) {
	var detail ChatDetail

	err := s.pool.QueryRow(ctx, `SELECT id, name, type FROM chats WHERE id = $1`, chatID).
		Scan(&detail.ID, &detail.Name, &detail.Type)
	if err != nil {
		if db.IsNotFound(err) {
			return ChatDetail{}, ErrNotFound
		}
		return ChatDetail{}, fmt.Errorf("get chat: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT u.id, u.name, u.avatar_url, u.registration_number, u.bio
		FROM users u
		JOIN chat_participants cp ON cp.user_id = u.id
		WHERE cp.chat_id = $1
		ORDER BY u.name`,
		chatID,
	)
	if err != nil {
		return ChatDetail{}, fmt.Errorf("get chat participants: %w", err)
	}
	defer rows.Close()

	detail.Participants = make([]UserSummary, 0)
	for rows.Next() {
		var u UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.AvatarURL, &u.RegistrationNumber, &u.Bio); err != nil {
			return ChatDetail{}, fmt.Errorf("scan participant: %w", err)
		}
		detail.Participants = append(detail.Participants, u)
	}

	return detail, rows.Err()
}

// IsParticipant reports whether the user belongs to the chat.
func (s *Store) IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	var exists bool

	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat_participants WHERE chat_id = $1 AND user_id = $2
		)`,
		chatID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check participant: %w", err)
	}

	return exists, nil
}
