package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"uniconnect/internal/app/store"
	"uniconnect/internal/pkg/errs"
)

func TestHandleListUserChats(t *testing.T) {
	userID := uuid.New()

	fake := &fakeStore{
		listUserChats: func(ctx context.Context, uid uuid.UUID) ([]store.ChatSummary, error) {
			if uid != userID {
				t.Errorf("listed chats for wrong user %s", uid)
			}
			return []store.ChatSummary{
				{ID: uuid.New(), Name: "UniConnect", Type: store.ChatTypeGlobal, LastMessage: "welcome", LastSenderName: "Priya", LastActivity: time.Now()},
				{ID: uuid.New(), Name: "B.Tech CSE 2027", Type: store.ChatTypeBatch, LastActivity: time.Now()},
			}, nil
		},
	}
	deps := testDeps(fake, nil)

	r := authedRequest(httptest.NewRequest("GET", "/api/chats/user", nil), userID, "Priya")
	w := doRequest(HandleListUserChats(deps), r)

	response := decodeResponse(t, w)
	if response.Code != 0 {
		t.Fatalf("list failed: %s", w.Body.String())
	}

	data := response.Data.(map[string]any)
	chats := data["chats"].([]any)
	if len(chats) != 2 {
		t.Fatalf("chats = %d, want 2", len(chats))
	}
	first := chats[0].(map[string]any)
	if first["name"] != "UniConnect" || first["type"] != store.ChatTypeGlobal {
		t.Errorf("first chat = %v", first)
	}
}

func TestHandleGetChat(t *testing.T) {
	chatID := uuid.New()
	memberID := uuid.New()

	fake := &fakeStore{
		isParticipant: func(ctx context.Context, cid, uid uuid.UUID) (bool, error) {
			return uid == memberID, nil
		},
		getChat: func(ctx context.Context, cid uuid.UUID) (store.ChatDetail, error) {
			return store.ChatDetail{
				ID:   chatID,
				Name: "Kerala Students",
				Type: store.ChatTypeState,
				Participants: []store.UserSummary{
					{ID: memberID, Name: "Priya"},
				},
			}, nil
		},
	}
	deps := testDeps(fake, nil)

	// Member sees the roster.
	r := authedRequest(httptest.NewRequest("GET", "/api/chats/"+chatID.String(), nil), memberID, "Priya")
	r = withURLParam(r, "chatId", chatID.String())
	w := doRequest(HandleGetChat(deps), r)

	response := decodeResponse(t, w)
	if response.Code != 0 {
		t.Fatalf("member get failed: %s", w.Body.String())
	}
	data := response.Data.(map[string]any)
	if len(data["participants"].([]any)) != 1 {
		t.Errorf("participants = %v", data["participants"])
	}

	// Non-member is rejected.
	r = authedRequest(httptest.NewRequest("GET", "/api/chats/"+chatID.String(), nil), uuid.New(), "Mallory")
	r = withURLParam(r, "chatId", chatID.String())
	w = doRequest(HandleGetChat(deps), r)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if response := decodeResponse(t, w); response.Code != errs.ErrNotChatParticipant {
		t.Errorf("code = %d, want %d", response.Code, errs.ErrNotChatParticipant)
	}
}

func TestHandleGetChatInvalidID(t *testing.T) {
	deps := testDeps(&fakeStore{}, nil)

	r := authedRequest(httptest.NewRequest("GET", "/api/chats/nope", nil), uuid.New(), "Priya")
	r = withURLParam(r, "chatId", "nope")
	w := doRequest(HandleGetChat(deps), r)

	if response := decodeResponse(t, w); response.Code != errs.ErrInvalidParams {
		t.Errorf("code = %d, want %d", response.Code, errs.ErrInvalidParams)
	}
}
