package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"uniconnect/internal/app/store"
	"uniconnect/internal/pkg/errs"
	"uniconnect/internal/pkg/logx"
	"uniconnect/internal/pkg/resp"
)

// HandleListUserChats returns every chat the requester belongs to, most
// recently active first.
func HandleListUserChats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, customErr := requireUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		summaries, err := deps.Store.ListUserChats(r.Context(), userID)
		if err != nil {
			logx.Error(err, "list chats: query failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		chats := make([]map[string]any, 0, len(summaries))
		for _, c := range summaries {
			chats = append(chats, chatSummaryJSON(c))
		}

		resp.RespondSuccess(w, r, map[string]any{
			"chats": chats,
		})
	}
}

// HandleGetChat returns one chat with its participant roster. Only members of
// the chat may view it.
func HandleGetChat(deps *AppDeps) http.HandlerFunc {
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

		member, err := deps.Store.IsParticipant(r.Context(), chatID, userID)
		if err != nil {
			logx.Error(err, "get chat: participant check failed", "chat_id", chatID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if !member {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotChatParticipant))
			return
		}

		detail, err := deps.Store.GetChat(r.Context(), chatID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrChatNotFound))
				return
			}
			logx.Error(err, "get chat: fetch failed", "chat_id", chatID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, chatDetailJSON(detail))
	}
}
