package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/infrastructure/security"
)

// Interfaces over the security and cache infrastructure so services can be
// unit tested with mocks.

// PasswordHasher hashes and verifies user passwords and backup codes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// AccessTokenManager signs and validates access tokens.
type AccessTokenManager interface {
	GenerateAccessToken(userID, username string, roles, permissions []string, sessionID string) (string, *security.Claims, error)
	ValidateAccessToken(token string) (*security.Claims, error)
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
	JWKS() map[string]interface{}
}

// TOTPProvider generates and validates time-based one-time passwords.
type TOTPProvider interface {
	GenerateSecret(accountName string) (secret, otpAuthURL string, err error)
	ValidateCode(secret, code string) (bool, error)
}

// SecretEncryptor protects TOTP secrets at rest.
type SecretEncryptor interface {
	Encrypt(plainText string) (string, error)
	Decrypt(cipherText string) (string, error)
}

// TokenBlacklist invalidates access tokens before their natural expiry.
type TokenBlacklist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// ChallengeStore holds pending two-factor login challenges.
type ChallengeStore interface {
	Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Consume(ctx context.Context, token string) (uuid.UUID, error)
}
