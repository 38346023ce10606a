/*
Package store implements the persistence layer for UniConnect on PostgreSQL.

It owns the four entity families (users, chats, messages, posts) and exposes
one method per query. Multi-write operations (default-chat assignment, message
send, like toggle) run inside a single transaction.
*/
package store

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sentinel errors returned by store methods. Handlers map them to the
// application error codes in pkg/errs.
var (
	ErrNotFound       = errors.New("store: not found")
	ErrNotParticipant = errors.New("store: user is not a chat participant")
	ErrNotAuthor      = errors.New("store: user is not the post author")
	ErrDuplicateEmail = errors.New("store: email already registered")
)

// Store wraps the pgx connection pool with UniConnect's query set.
type Store struct {
	pool *pgxpool.Pool
}

// New constructs a Store backed by the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// escapeLike neutralizes LIKE wildcards in user-supplied search input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// SocialLink is one entry of a user's social-media list, stored as JSONB.
type SocialLink struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// User is the full account record. PasswordHash never leaves the handler layer.
type User struct {
	ID                 uuid.UUID
	Name               string
	Email              string
	Phone              string
	PasswordHash       string
	State              string
	Course             string
	PassingYear        int
	RegistrationNumber string
	AvatarURL          string
	Bio                string
	SocialMedia        []SocialLink
	CreatedAt          time.Time
}

// UserSummary is the public subset of a user returned by search results and
// populated references.
type UserSummary struct {
	ID                 uuid.UUID
	Name               string
	AvatarURL          string
	RegistrationNumber string
	Bio                string
}

// ChatSummary is one row of a user's chat list, with the denormalized
// last-message preview.
type ChatSummary struct {
	ID             uuid.UUID
	Name           string
	Type           string
	LastMessage    string
	LastSenderName string
	LastActivity   time.Time
}

// ChatDetail is a single chat with its participant list resolved.
type ChatDetail struct {
	ID           uuid.UUID
	Name         string
	Type         string
	Participants []UserSummary
}

// Message is a persisted chat message with the sender's display name resolved.
type Message struct {
	ID         uuid.UUID
	ChatID     uuid.UUID
	SenderID   uuid.UUID
	SenderName string
	Body       string
	Type       string
	CreatedAt  time.Time
}

// Post is a feed entry with its author and likes resolved.
type Post struct {
	ID              uuid.UUID
	AuthorID        uuid.UUID
	AuthorName      string
	AuthorAvatarURL string
	Body            string
	ImageURL        string
	Likes           []uuid.UUID
	CreatedAt       time.Time
}
