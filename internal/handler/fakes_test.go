package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/google/uuid"

	"uniconnect/internal/app/chat"
	"uniconnect/internal/app/store"
	"uniconnect/internal/configs"
	"uniconnect/internal/pkg/auth/jwt"
)

var errUnexpectedCall = errors.New("unexpected store call")

// fakeStore implements the Store interface through optional function fields.
// Calls without a configured function fail the request with errUnexpectedCall.
type fakeStore struct {
	createUser     func(ctx context.Context, p store.CreateUserParams) (store.User, error)
	getUserByEmail func(ctx context.Context, email string) (store.User, error)
	getUserByID    func(ctx context.Context, id uuid.UUID) (store.User, error)
	updateProfile  func(ctx context.Context, p store.UpdateProfileParams) (store.User, error)
	updateAvatar   func(ctx context.Context, id uuid.UUID, avatarURL string) (string, error)
	searchUsers    func(ctx context.Context, query string, limit int) ([]store.UserSummary, error)

	assignDefaultChats func(ctx context.Context, userID uuid.UUID, keys []store.ChatKey) ([]uuid.UUID, error)
	listUserChats      func(ctx context.Context, userID uuid.UUID) ([]store.ChatSummary, error)
	getChat            func(ctx context.Context, chatID uuid.UUID) (store.ChatDetail, error)
	isParticipant      func(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
	listMessages       func(ctx context.Context, chatID, requesterID uuid.UUID) ([]store.Message, error)

	createPost    func(ctx context.Context, authorID uuid.UUID, body, imageURL string) (store.Post, error)
	listFeed      func(ctx context.Context) ([]store.Post, error)
	listUserPosts func(ctx context.Context, authorID uuid.UUID) ([]store.Post, error)
	toggleLike    func(ctx context.Context, postID, userID uuid.UUID) ([]uuid.UUID, error)
	deletePost    func(ctx context.Context, postID, requesterID uuid.UUID) (string, error)
}

func (f *fakeStore) CreateUser(ctx context.Context, p store.CreateUserParams) (store.User, error) {
	if f.createUser == nil {
		return store.User{}, errUnexpectedCall
	}
	return f.createUser(ctx, p)
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	if f.getUserByEmail == nil {
		return store.User{}, errUnexpectedCall
	}
	return f.getUserByEmail(ctx, email)
}

func (f *fakeStore) GetUserByID(ctx context.Context, id uuid.UUID) (store.User, error) {
	if f.getUserByID == nil {
		return store.User{}, errUnexpectedCall
	}
	return f.getUserByID(ctx, id)
}

func (f *fakeStore) UpdateProfile(ctx context.Context, p store.UpdateProfileParams) (store.User, error) {
	if f.updateProfile == nil {
		return store.User{}, errUnexpectedCall
	}
	return f.updateProfile(ctx, p)
}

func (f *fakeStore) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (string, error) {
	if f.updateAvatar == nil {
		return "", errUnexpectedCall
	}
	return f.updateAvatar(ctx, id, avatarURL)
}

func (f *fakeStore) SearchUsers(ctx context.Context, query string, limit int) ([]store.UserSummary, error) {
	if f.searchUsers == nil {
		return nil, errUnexpectedCall
	}
	return f.searchUsers(ctx, query, limit)
}

func (f *fakeStore) AssignDefaultChats(ctx context.Context, userID uuid.UUID, keys []store.ChatKey) ([]uuid.UUID, error) {
	if f.assignDefaultChats == nil {
		return nil, errUnexpectedCall
	}
	return f.assignDefaultChats(ctx, userID, keys)
}

func (f *fakeStore) ListUserChats(ctx context.Context, userID uuid.UUID) ([]store.ChatSummary, error) {
	if f.listUserChats == nil {
		return nil, errUnexpectedCall
	}
	return f.listUserChats(ctx, userID)
}

func (f *fakeStore) GetChat(ctx context.Context, chatID uuid.UUID) (store.ChatDetail, error) {
	if f.getChat == nil {
		return store.ChatDetail{}, errUnexpectedCall
	}
	return f.getChat(ctx, chatID)
}

func (f *fakeStore) IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	if f.isParticipant == nil {
		return false, errUnexpectedCall
	}
	return f.isParticipant(ctx, chatID, userID)
}

func (f *fakeStore) ListMessages(ctx context.Context, chatID, requesterID uuid.UUID) ([]store.Message, error) {
	if f.listMessages == nil {
		return nil, errUnexpectedCall
	}
	return f.listMessages(ctx, chatID, requesterID)
}

func (f *fakeStore) CreatePost(ctx context.Context, authorID uuid.UUID, body, imageURL string) (store.Post, error) {
	if f.createPost == nil {
		return store.Post{}, errUnexpectedCall
	}
	return f.createPost(ctx, authorID, body, imageURL)
}

func (f *fakeStore) ListFeed(ctx context.Context) ([]store.Post, error) {
	if f.listFeed == nil {
		return nil, errUnexpectedCall
	}
	return f.listFeed(ctx)
}

func (f *fakeStore) ListUserPosts(ctx context.Context, authorID uuid.UUID) ([]store.Post, error) {
	if f.listUserPosts == nil {
		return nil, errUnexpectedCall
	}
	return f.listUserPosts(ctx, authorID)
}

func (f *fakeStore) ToggleLike(ctx context.Context, postID, userID uuid.UUID) ([]uuid.UUID, error) {
	if f.toggleLike == nil {
		return nil, errUnexpectedCall
	}
	return f.toggleLike(ctx, postID, userID)
}

func (f *fakeStore) DeletePost(ctx context.Context, postID, requesterID uuid.UUID) (string, error) {
	if f.deletePost == nil {
		return "", errUnexpectedCall
	}
	return f.deletePost(ctx, postID, requesterID)
}

// fakeMessageStore backs a real chat.Service in handler tests.
type fakeMessageStore struct {
	createMessage func(ctx context.Context, chatID, senderID uuid.UUID, body string) (store.Message, error)
	isParticipant func(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
}

func (f *fakeMessageStore) CreateMessage(ctx context.Context, chatID, senderID uuid.UUID, body string) (store.Message, error) {
	if f.createMessage == nil {
		return store.Message{}, errUnexpectedCall
	}
	return f.createMessage(ctx, chatID, senderID, body)
}

func (f *fakeMessageStore) IsParticipant(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	if f.isParticipant == nil {
		return false, errUnexpectedCall
	}
	return f.isParticipant(ctx, chatID, userID)
}

// fakeStorage records uploads and deletions without touching S3. Deletions
// happen on background goroutines, so access is mutex-guarded.
type fakeStorage struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (f *fakeStorage) Upload(ctx context.Context, key string, mimeType string, body io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, key)
	return f.PublicURL(key), nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *fakeStorage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (f *fakeStorage) KeyFromURL(url string) string {
	const prefix = "https://cdn.test/"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return ""
	}
	return url[len(prefix):]
}

func testDeps(s Store, msgStore chat.MessageStore) *AppDeps {
	var service *chat.Service
	if msgStore != nil {
		service = chat.NewService(msgStore, chat.NewManager())
	}

	return &AppDeps{
		Store:       s,
		ChatService: service,
		Config: &configs.AppConfig{
			Environment: "development",
			OrgName:     "UniConnect",
			JWTSecret:   "handler-test-secret",
		},
		StorageService: &fakeStorage{},
	}
}

// authedRequest injects an authenticated identity the way the JWT middleware does.
func authedRequest(r *http.Request, userID uuid.UUID, name string) *http.Request {
	payload := &jwt.Payload{ID: userID.String(), Name: name}
	ctx := context.WithValue(r.Context(), jwt.ContextAuthPayloadKey, payload)
	return r.WithContext(ctx)
}

func doRequest(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}
