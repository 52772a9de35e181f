package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted half of a token pair. Only the SHA-256 hash
// of the opaque value is stored.
type RefreshToken struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	SessionID     uuid.UUID  `json:"session_id" db:"session_id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash     string     `json:"-" db:"token_hash"`
	ExpiresAt     time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty" db:"revoked_at"`
	RevokedReason *string    `json:"revoked_reason,omitempty" db:"revoked_reason"`
}

// TokenPair is returned to a client after a successful login or refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginResult is the outcome of a login attempt. When TwoFactorRequired is
// set, ChallengeToken must be exchanged via the 2FA verification endpoint
// and the token pair is empty.
type LoginResult struct {
	TwoFactorRequired bool          `json:"two_factor_required"`
	ChallengeToken    string        `json:"challenge_token,omitempty"`
	User              *UserResponse `json:"user,omitempty"`
	Tokens            *TokenPair    `json:"tokens,omitempty"`
}
