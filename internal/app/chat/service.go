/*
Package chat contains the core logic for real-time message fan-out: chat rooms,
socket connections, and the event protocol spoken over them.

This file defines the Service struct: the single send path shared by the REST
handler and the socket clients. Persisting a message and broadcasting it to
the room always happen together, so both transports interleave correctly in
the stored history.
*/
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"

	"uniconnect/internal/app/store"
	"uniconnect/internal/app/user"
	"uniconnect/internal/pkg/errs"
	"uniconnect/internal/pkg/logx"
)

// MaxMessageRunes bounds message text length.
const MaxMessageRunes = 5000

// MessageStore is the subset of the persistence layer the chat service needs.
type MessageStore interface {
	CreateMessage(ctx context.Context, chatID, senderID uuid.UUID, body string) (store.Message, error)
	IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
}

// Service ties persistence to fan-out. All message sends, REST or socket, go
// through SendMessage so the broadcast never outruns the store.
type Service struct {
	store   MessageStore
	manager *Manager
}

// NewService constructs a Service over the given store and room manager.
func NewService(messageStore MessageStore, manager *Manager) *Service {
	return &Service{
		store:   messageStore,
		manager: manager,
	}
}

// Manager exposes the room manager, mainly for shutdown wiring.
func (s *Service) Manager() *Manager {
	return s.manager
}

// JoinRoom authorizes the user for a chat and returns its live room, creating
// one if the chat has no connected sockets yet.
func (s *Service) JoinRoom(ctx context.Context, chatID uuid.UUID, u user.User) (*Room, *errs.CustomError) {
	userID, err := uuid.Parse(u.ID)
	if err != nil {
		return nil, errs.NewError(errs.ErrUnauthorized)
	}

	member, err := s.store.IsParticipant(ctx, chatID, userID)
	if err != nil {
		logx.Error(err, "join room: participant check failed", "chat_id", chatID)
		return nil, errs.NewError(errs.ErrUnknown)
	}
	if !member {
		return nil, errs.NewError(errs.ErrNotChatParticipant)
	}

	room := s.manager.GetOrCreateRoom(chatID)
	if room == nil {
		return nil, errs.NewError(errs.ErrUnknown)
	}

	return room, nil
}

// SendMessage validates, persists, and broadcasts one message. The returned
// message carries the server-assigned id and timestamp. Broadcast failure is
// not an error: connected sockets are a notification convenience, REST
// history is authoritative.
func (s *Service) SendMessage(ctx context.Context, chatID, senderID uuid.UUID, text string) (store.Message, *errs.CustomError) {
	if text == "" {
		return store.Message{}, errs.NewError(errs.ErrMessageEmpty)
	}

	if utf8.RuneCountInString(text) > MaxMessageRunes {
		return store.Message{}, errs.NewError(errs.ErrMessageContentTooLong)
	}

	message, err := s.store.CreateMessage(ctx, chatID, senderID, text)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return store.Message{}, errs.NewError(errs.ErrChatNotFound)
		case errors.Is(err, store.ErrNotParticipant):
			return store.Message{}, errs.NewError(errs.ErrNotChatParticipant)
		default:
			logx.Error(err, "send message: persist failed", "chat_id", chatID)
			return store.Message{}, errs.NewError(errs.ErrUnknown)
		}
	}

	event, err := NewEvent(EventMessageReceived, NewMessagePayload(message))
	if err != nil {
		logx.Error(err, "send message: event build failed", "message_id", message.ID)
		return message, nil
	}

	frame, err := json.Marshal(event)
	if err != nil {
		logx.Error(err, "send message: event marshal failed", "message_id", message.ID)
		return message, nil
	}

	s.manager.Broadcast(chatID, frame)

	return message, nil
}
