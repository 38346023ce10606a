package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"uniconnect/internal/app/store"
	"uniconnect/internal/pkg/errs"
)

// withURLParam attaches a chi route parameter to the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func TestHandleListMessages(t *testing.T) {
	chatID := uuid.New()
	memberID := uuid.New()

	fake := &fakeStore{
		listMessages: func(ctx context.Context, cid, requesterID uuid.UUID) ([]store.Message, error) {
			if cid != chatID {
				t.Errorf("chat id = %s, want %s", cid, chatID)
			}
			if requesterID != memberID {
				return nil, store.ErrNotParticipant
			}
			return []store.Message{
				{ID: uuid.New(), ChatID: chatID, SenderID: memberID, SenderName: "Priya", Body: "hello", Type: store.MessageTypeText, CreatedAt: time.Now()},
			}, nil
		},
	}
	deps := testDeps(fake, nil)

	// Member reads history.
	r := authedRequest(httptest.NewRequest("GET", "/api/messages/"+chatID.String(), nil), memberID, "Priya")
	r = withURLParam(r, "chatId", chatID.String())
	w := doRequest(HandleListMessages(deps), r)

	if response := decodeResponse(t, w); response.Code != 0 {
		t.Fatalf("member read failed: %s", w.Body.String())
	}

	// Outsider is rejected with 403.
	outsider := uuid.New()
	r = authedRequest(httptest.NewRequest("GET", "/api/messages/"+chatID.String(), nil), outsider, "Mallory")
	r = withURLParam(r, "chatId", chatID.String())
	w = doRequest(HandleListMessages(deps), r)

	if w.Code != http.StatusForbidden {
		t.Errorf("outsider status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if response := decodeResponse(t, w); response.Code != errs.ErrNotChatParticipant {
		t.Errorf("outsider code = %d, want %d", response.Code, errs.ErrNotChatParticipant)
	}
}

func TestHandleSendMessage(t *testing.T) {
	chatID := uuid.New()
	memberID := uuid.New()

	msgStore := &fakeMessageStore{
		createMessage: func(ctx context.Context, cid, senderID uuid.UUID, body string) (store.Message, error) {
			if senderID != memberID {
				return store.Message{}, store.ErrNotParticipant
			}
			return store.Message{
				ID:         uuid.New(),
				ChatID:     cid,
				SenderID:   senderID,
				SenderName: "Priya",
				Body:       body,
				Type:       store.MessageTypeText,
				CreatedAt:  time.Now(),
			}, nil
		},
	}
	deps := testDeps(&fakeStore{}, msgStore)

	body := `{"chatId":"` + chatID.String() + `","text":"hello"}`
	r := authedRequest(jsonRequest("POST", "/api/messages", body), memberID, "Priya")
	w := doRequest(HandleSendMessage(deps), r)

	response := decodeResponse(t, w)
	if response.Code != 0 {
		t.Fatalf("send failed: %s", w.Body.String())
	}
	data := response.Data.(map[string]any)
	if data["text"] != "hello" {
		t.Errorf("text = %v", data["text"])
	}
	if data["senderId"] != memberID.String() {
		t.Errorf("senderId = %v, sender must come from the session", data["senderId"])
	}
}

func TestHandleSendMessageValidation(t *testing.T) {
	chatID := uuid.New()
	deps := testDeps(&fakeStore{}, &fakeMessageStore{})

	cases := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"empty text", `{"chatId":"` + chatID.String() + `","text":""}`, errs.ErrMessageEmpty},
		{"bad chat id", `{"chatId":"not-a-uuid","text":"hello"}`, errs.ErrInvalidParams},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := authedRequest(jsonRequest("POST", "/api/messages", c.body), uuid.New(), "Priya")
			w := doRequest(HandleSendMessage(deps), r)
			if response := decodeResponse(t, w); response.Code != c.wantCode {
				t.Errorf("code = %d, want %d", response.Code, c.wantCode)
			}
		})
	}
}

func TestHandleSendMessageRequiresMembership(t *testing.T) {
	chatID := uuid.New()

	msgStore := &fakeMessageStore{
		createMessage: func(ctx context.Context, cid, senderID uuid.UUID, body string) (store.Message, error) {
			return store.Message{}, store.ErrNotParticipant
		},
	}
	deps := testDeps(&fakeStore{}, msgStore)

	body := `{"chatId":"` + chatID.String() + `","text":"hello"}`
	r := authedRequest(jsonRequest("POST", "/api/messages", body), uuid.New(), "Mallory")
	w := doRequest(HandleSendMessage(deps), r)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if response := decodeResponse(t, w); response.Code != errs.ErrNotChatParticipant {
		t.Errorf("code = %d, want %d", response.Code, errs.ErrNotChatParticipant)
	}
}
