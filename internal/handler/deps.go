package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"uniconnect/internal/app/chat"
	"uniconnect/internal/app/storage"
	"uniconnect/internal/app/store"
	"uniconnect/internal/configs"
	"uniconnect/internal/pkg/auth/jwt"
	"uniconnect/internal/pkg/errs"
)

// Store is the persistence surface the handlers depend on. *store.Store
// satisfies it; tests substitute a fake.
type Store interface {
	CreateUser(ctx context.Context, p store.CreateUserParams) (store.User, error)
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (store.User, error)
	UpdateProfile(ctx context.Context, p store.UpdateProfileParams) (store.User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (string, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]store.UserSummary, error)

	AssignDefaultChats(ctx context.Context, userID uuid.UUID, keys []store.ChatKey) ([]uuid.UUID, error)
	ListUserChats(ctx context.Context, userID uuid.UUID) ([]store.ChatSummary, error)
	GetChat(ctx context.Context, chatID uuid.UUID) (store.ChatDetail, error)
	IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
	ListMessages(ctx context.Context, chatID, requesterID uuid.UUID) ([]store.Message, error)

	CreatePost(ctx context.Context, authorID uuid.UUID, body, imageURL string) (store.Post, error)
	ListFeed(ctx context.Context) ([]store.Post, error)
	ListUserPosts(ctx context.Context, authorID uuid.UUID) ([]store.Post, error)
	ToggleLike(ctx context.Context, postID, userID uuid.UUID) ([]uuid.UUID, error)
	DeletePost(ctx context.Context, postID, requesterID uuid.UUID) (string, error)
}

type AppDeps struct {
	Store          Store
	ChatService    *chat.Service
	Config         *configs.AppConfig
	StorageService storage.StorageService
}

// secureCookies reports whether session cookies should carry the Secure flag.
func (d *AppDeps) secureCookies() bool {
	return d.Config.Environment != "development"
}

// requireUser extracts the authenticated identity or returns an unauthorized error.
func requireUser(r *http.Request) (uuid.UUID, *jwt.Payload, *errs.CustomError) {
	identity := jwt.GetPayloadFromContext(r)
	if identity == nil {
		return uuid.Nil, nil, errs.NewError(errs.ErrUnauthorized)
	}

	userID, err := uuid.Parse(identity.ID)
	if err != nil {
		return uuid.Nil, nil, errs.NewError(errs.ErrUnauthorized)
	}

	return userID, identity, nil
}
