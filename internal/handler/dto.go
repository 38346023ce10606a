package handler

import (
	"time"

	"github.com/google/uuid"

	"uniconnect/internal/app/store"
)

// userJSON renders a full account for the owner. The password hash never
// appears in any response shape.
func userJSON(u store.User) map[string]any {
	social := u.SocialMedia
	if social == nil {
		social = []store.SocialLink{}
	}

	return map[string]any{
		"id":                 u.ID.String(),
		"name":               u.Name,
		"email":              u.Email,
		"phone":              u.Phone,
		"state":              u.State,
		"course":             u.Course,
		"passingYear":        u.PassingYear,
		"registrationNumber": u.RegistrationNumber,
		"avatar":             u.AvatarURL,
		"bio":                u.Bio,
		"socialMedia":        social,
		"createdAt":          u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// publicUserJSON renders another user's profile: everything except email and phone.
func publicUserJSON(u store.User) map[string]any {
	social := u.SocialMedia
	if social == nil {
		social = []store.SocialLink{}
	}

	return map[string]any{
		"id":                 u.ID.String(),
		"name":               u.Name,
		"state":              u.State,
		"course":             u.Course,
		"passingYear":        u.PassingYear,
		"registrationNumber": u.RegistrationNumber,
		"avatar":             u.AvatarURL,
		"bio":                u.Bio,
		"socialMedia":        social,
	}
}

func userSummaryJSON(u store.UserSummary) map[string]any {
	return map[string]any{
		"id":                 u.ID.String(),
		"name":               u.Name,
		"avatar":             u.AvatarURL,
		"registrationNumber": u.RegistrationNumber,
		"bio":                u.Bio,
	}
}

func chatSummaryJSON(c store.ChatSummary) map[string]any {
	return map[string]any{
		"id":             c.ID.String(),
		"name":           c.Name,
		"type":           c.Type,
		"lastMessage":    c.LastMessage,
		"lastSenderName": c.LastSenderName,
		"lastActivity":   c.LastActivity.UTC().Format(time.RFC3339),
	}
}

func chatDetailJSON(c store.ChatDetail) map[string]any {
	participants := make([]map[string]any, 0, len(c.Participants))
	for _, p := range c.Participants {
		participants = append(participants, userSummaryJSON(p))
	}

	return map[string]any{
		"id":           c.ID.String(),
		"name":         c.Name,
		"type":         c.Type,
		"participants": participants,
	}
}

func messageJSON(m store.Message) map[string]any {
	return map[string]any{
		"id":         m.ID.String(),
		"chatId":     m.ChatID.String(),
		"senderId":   m.SenderID.String(),
		"senderName": m.SenderName,
		"text":       m.Body,
		"type":       m.Type,
		"timestamp":  m.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func postJSON(p store.Post) map[string]any {
	likes := make([]string, 0, len(p.Likes))
	for _, id := range p.Likes {
		likes = append(likes, id.String())
	}

	return map[string]any{
		"id":        p.ID.String(),
		"text":      p.Body,
		"image":     p.ImageURL,
		"likes":     likes,
		"createdAt": p.CreatedAt.UTC().Format(time.RFC3339),
		"user": map[string]any{
			"id":     p.AuthorID.String(),
			"name":   p.AuthorName,
			"avatar": p.AuthorAvatarURL,
		},
	}
}

func likesJSON(likes []uuid.UUID) []string {
	out := make([]string, 0, len(likes))
	for _, id := range likes {
		out = append(out, id.String())
	}
	return out
}
