package identity

import "time"

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned after a successful login
type LoginResult struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LogoutInput identifies the token being revoked
type LogoutInput struct {
	UserID   int64
	TokenJTI string
	TokenTTL time.Duration
}
