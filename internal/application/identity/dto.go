package identity

import (
	"time"

	"github.com/google/uuid"
)

// UserInfo is the signed-in user as returned to the client
type UserInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// LoginResult is a successful sign-in
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
	Redirect  string    `json:"redirect"`
}
