package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"uniconnect/internal/app/store"
)

func TestNewEventEnvelope(t *testing.T) {
	event, err := NewEvent(EventError, ErrorPayload{Code: 2102, Message: "You are not a member of this chat."})
	if err != nil {
		t.Fatalf("NewEvent returned error: %v", err)
	}

	frame, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	var decoded Event
	if err := json.Unmarshal(frame, &decoded); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}

	if decoded.Type != EventError {
		t.Errorf("type = %q, want %q", decoded.Type, EventError)
	}

	var payload ErrorPayload
	if err := json.Unmarshal(decoded.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.Code != 2102 {
		t.Errorf("code = %d, want 2102", payload.Code)
	}
}

func TestNewMessagePayload(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 589000000, time.UTC)
	m := store.Message{
		ID:         uuid.New(),
		ChatID:     uuid.New(),
		SenderID:   uuid.New(),
		SenderName: "Priya",
		Body:       "hello batch",
		Type:       store.MessageTypeText,
		CreatedAt:  created,
	}

	payload := NewMessagePayload(m)

	if payload.ID != m.ID.String() {
		t.Errorf("id = %q, want %q", payload.ID, m.ID.String())
	}
	if payload.SenderName != "Priya" {
		t.Errorf("senderName = %q", payload.SenderName)
	}
	if payload.Text != "hello batch" {
		t.Errorf("text = %q", payload.Text)
	}
	if payload.Timestamp != "2026-03-14T09:26:53.589Z" {
		t.Errorf("timestamp = %q", payload.Timestamp)
	}
}

func TestInboundPayloadParsing(t *testing.T) {
	frame := []byte(`{"type":"sendMessage","payload":{"chatId":"b7e9f1a0-0000-4000-8000-000000000001","text":"hi"}}`)

	var event Event
	if err := json.Unmarshal(frame, &event); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if event.Type != EventSendMessage {
		t.Fatalf("type = %q, want %q", event.Type, EventSendMessage)
	}

	var send SendMessagePayload
	if err := json.Unmarshal(event.Payload, &send); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if send.Text != "hi" {
		t.Errorf("text = %q", send.Text)
	}
	if _, err := uuid.Parse(send.ChatID); err != nil {
		t.Errorf("chatId did not parse: %v", err)
	}
}
