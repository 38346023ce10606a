/*
Package chat contains the core logic for real-time message fan-out: chat rooms,
socket connections, and the event protocol spoken over them.

This file defines the wire protocol. Every frame is an Event envelope carrying
a type tag and a JSON payload.
*/
package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"uniconnect/internal/app/store"
)

// EventType tags a socket frame.
type EventType string

const (
	// EventJoinChat is sent by a client to join the room of one of its chats.
	// A socket may join multiple rooms over its lifetime; memberships
	// accumulate until the connection closes.
	EventJoinChat EventType = "joinChat"

	// EventSendMessage is sent by a client to persist and broadcast a message.
	// The sender identity comes from the authenticated session, never from
	// the payload.
	EventSendMessage EventType = "sendMessage"

	// EventMessageReceived is broadcast to every socket in the chat's room,
	// the sender's own included. Clients de-duplicate by message id.
	EventMessageReceived EventType = "messageReceived"

	// EventError reports a failed inbound event back to the offending client only.
	EventError EventType = "error"
)

// Event is the envelope for every frame exchanged over the socket.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEvent marshals payload into an Event of the given type.
func NewEvent(eventType EventType, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return Event{Type: eventType, Payload: raw}, nil
}

// JoinChatPayload is the inbound payload of EventJoinChat.
type JoinChatPayload struct {
	ChatID string `json:"chatId"`
}

// SendMessagePayload is the inbound payload of EventSendMessage.
type SendMessagePayload struct {
	ChatID string `json:"chatId"`
	Text   string `json:"text"`
}

// MessagePayload is the outbound payload of EventMessageReceived: the
// persisted message with sender display fields resolved.
type MessagePayload struct {
	ID         string `json:"id"`
	ChatID     string `json:"chatId"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
	Type       string `json:"type"`
	Timestamp  string `json:"timestamp"`
}

// ErrorPayload is the outbound payload of EventError.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewMessagePayload converts a persisted message into its wire representation.
func NewMessagePayload(m store.Message) MessagePayload {
	return MessagePayload{
		ID:         m.ID.String(),
		ChatID:     m.ChatID.String(),
		SenderID:   m.SenderID.String(),
		SenderName: m.SenderName,
		Text:       m.Body,
		Type:       m.Type,
		Timestamp:  m.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
