package store

import "fmt"

// Chat type tags. A chat of a given (name, type) pair is a singleton,
// enforced by the chats_name_type_key unique constraint.
const (
	ChatTypeGlobal = "global"
	ChatTypeCourse = "course"
	ChatTypeBatch  = "batch"
	ChatTypeState  = "state"
)

// ChatKey identifies a group chat by its (name, type) pair.
type ChatKey struct {
	Name string
	Type string
}

// DefaultChatKeys computes the four group chats a newly registered user
// qualifies for: the organization-wide chat, the course chat, the batch chat
// (course + passing year), and the home-state chat.
func DefaultChatKeys(orgName, course string, passingYear int, state string) []ChatKey {
	return []ChatKey{
		{Name: orgName, Type: ChatTypeGlobal},
		{Name: course, Type: ChatTypeCourse},
		{Name: fmt.Sprintf("%s %d", course, passingYear), Type: ChatTypeBatch},
		{Name: fmt.Sprintf("%s Students", state), Type: ChatTypeState},
	}
}
