package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"uniconnect/internal/app/store"
	"uniconnect/internal/app/user"
	"uniconnect/internal/pkg/errs"
)

type stubMessageStore struct {
	createMessage func(ctx context.Context, chatID, senderID uuid.UUID, body string) (store.Message, error)
	isParticipant func(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
}

func (s *stubMessageStore) CreateMessage(ctx context.Context, chatID, senderID uuid.UUID, body string) (store.Message, error) {
	return s.createMessage(ctx, chatID, senderID, body)
}

func (s *stubMessageStore) IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	return s.isParticipant(ctx, chatID, userID)
}

func TestServiceSendMessageValidation(t *testing.T) {
	service := NewService(&stubMessageStore{}, NewManager())
	defer service.Manager().Shutdown()

	_, customErr := service.SendMessage(context.Background(), uuid.New(), uuid.New(), "")
	if customErr == nil || customErr.Code != errs.ErrMessageEmpty {
		t.Errorf("empty text: got %v, want code %d", customErr, errs.ErrMessageEmpty)
	}

	_, customErr = service.SendMessage(context.Background(), uuid.New(), uuid.New(), strings.Repeat("x", MaxMessageRunes+1))
	if customErr == nil || customErr.Code != errs.ErrMessageContentTooLong {
		t.Errorf("oversize text: got %v, want code %d", customErr, errs.ErrMessageContentTooLong)
	}
}

func TestServiceSendMessageMapsStoreErrors(t *testing.T) {
	cases := []struct {
		name     string
		storeErr error
		wantCode int
	}{
		{"missing chat", store.ErrNotFound, errs.ErrChatNotFound},
		{"non participant", store.ErrNotParticipant, errs.ErrNotChatParticipant},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			messageStore := &stubMessageStore{
				createMessage: func(ctx context.Context, chatID, senderID uuid.UUID, body string) (store.Message, error) {
					return store.Message{}, c.storeErr
				},
			}
			service := NewService(messageStore, NewManager())
			defer service.Manager().Shutdown()

			_, customErr := service.SendMessage(context.Background(), uuid.New(), uuid.New(), "hello")
			if customErr == nil || customErr.Code != c.wantCode {
				t.Errorf("got %v, want code %d", customErr, c.wantCode)
			}
		})
	}
}

func TestServiceSendMessagePersists(t *testing.T) {
	chatID := uuid.New()
	senderID := uuid.New()

	messageStore := &stubMessageStore{
		createMessage: func(ctx context.Context, cid, sid uuid.UUID, body string) (store.Message, error) {
			return store.Message{
				ID:         uuid.New(),
				ChatID:     cid,
				SenderID:   sid,
				SenderName: "Priya",
				Body:       body,
				Type:       store.MessageTypeText,
				CreatedAt:  time.Now(),
			}, nil
		},
	}
	service := NewService(messageStore, NewManager())
	defer service.Manager().Shutdown()

	// No room exists for the chat: the message must still persist and return.
	message, customErr := service.SendMessage(context.Background(), chatID, senderID, "hello")
	if customErr != nil {
		t.Fatalf("send failed: %v", customErr)
	}
	if message.Body != "hello" || message.SenderID != senderID {
		t.Errorf("message = %+v", message)
	}
}

func TestServiceJoinRoomAuthorization(t *testing.T) {
	chatID := uuid.New()
	memberID := uuid.New()

	messageStore := &stubMessageStore{
		isParticipant: func(ctx context.Context, cid, uid uuid.UUID) (bool, error) {
			return uid == memberID, nil
		},
	}
	service := NewService(messageStore, NewManager())
	defer service.Manager().Shutdown()

	member := user.User{ID: memberID.String(), Name: "Priya"}
	room, customErr := service.JoinRoom(context.Background(), chatID, member)
	if customErr != nil {
		t.Fatalf("member join failed: %v", customErr)
	}
	if room == nil || room.ChatID != chatID {
		t.Fatalf("room = %v", room)
	}

	// A second join resolves to the same live room.
	again, customErr := service.JoinRoom(context.Background(), chatID, member)
	if customErr != nil {
		t.Fatalf("second join failed: %v", customErr)
	}
	if again != room {
		t.Error("expected the same room instance for repeat joins")
	}

	outsider := user.User{ID: uuid.New().String(), Name: "Mallory"}
	if _, customErr := service.JoinRoom(context.Background(), chatID, outsider); customErr == nil || customErr.Code != errs.ErrNotChatParticipant {
		t.Errorf("outsider join: got %v, want code %d", customErr, errs.ErrNotChatParticipant)
	}
}
