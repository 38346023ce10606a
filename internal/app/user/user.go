/*
Package user contains core data structures related to user identity and session.

It defines the basic representation of a signed-in user (the User struct), used
for passing identity both internally and to clients over the socket protocol.
*/
package user

// User represents the identity of an authenticated participant.
// Fields use JSON tags for serialization in WebSocket events.
type User struct {

	// ID is the account's unique identifier (UUID string).
	ID string `json:"id"`

	// Name is the user's display name.
	Name string `json:"name"`

	// Avatar is the URL for the user's avatar, if one has been uploaded.
	Avatar string `json:"avatar,omitempty"`
}
