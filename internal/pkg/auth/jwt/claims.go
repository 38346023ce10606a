package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for UniConnect.
// It includes standard claims required by the JWT specification and the custom
// claims necessary for identifying the session holder across requests.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the user's unique identifier (UUID).
	ID string `json:"id"`

	// Name is the user's display name, carried so clients can render the
	// signed-in identity without an extra profile fetch.
	Name string `json:"name"`
}
