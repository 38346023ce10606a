package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"uniconnect/internal/app/store"
	"uniconnect/internal/pkg/errs"
	"uniconnect/internal/pkg/logx"
	"uniconnect/internal/pkg/req"
	"uniconnect/internal/pkg/resp"
)

// HandleListMessages returns the full message history of a chat in
// chronological order. Only participants may read it.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		chatID, err := uuid.Parse(chi.URLParam(r, "chatId"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		history, err := deps.Store.ListMessages(r.Context(), chatID, userID)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				resp.RespondError(w, r, errs.NewError(errs.ErrChatNotFound))
			case errors.Is(err, store.ErrNotParticipant):
				resp.RespondError(w, r, errs.NewError(errs.ErrNotChatParticipant))
			default:
				logx.Error(err, "list messages: query failed", "chat_id", chatID)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			}
			return
		}

		messages := make([]map[string]any, 0, len(history))
		for _, m := range history {
			messages = append(messages, messageJSON(m))
		}

		resp.RespondSuccess(w, r, map[string]any{
			"messages": messages,
		})
	}
}

type SendMessageInput struct {
	ChatID string `json:"chatId"`
	Text   string `json:"text"`
}

// HandleSendMessage persists a message over REST. It shares the send path with
// socket clients, so connected room members still receive the broadcast.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input SendMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		chatID, err := uuid.Parse(input.ChatID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		message, customErr := deps.ChatService.SendMessage(r.Context(), chatID, userID, input.Text)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, messageJSON(message))
	}
}
