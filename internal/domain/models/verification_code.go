package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationCodeType distinguishes the flows a code can complete.
type VerificationCodeType string

const (
	VerificationCodeTypeEmail         VerificationCodeType = "email_verification"
	VerificationCodeTypePasswordReset VerificationCodeType = "password_reset"
)

// VerificationCode is a single-use, expiring code. Only the SHA-256 hash of
// the value is stored.
type VerificationCode struct {
	ID        uuid.UUID            `json:"id" db:"id"`
	UserID    uuid.UUID            `json:"user_id" db:"user_id"`
	Type      VerificationCodeType `json:"type" db:"type"`
	CodeHash  string               `json:"-" db:"code_hash"`
	ExpiresAt time.Time            `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time            `json:"created_at" db:"created_at"`
	UsedAt    *time.Time           `json:"used_at,omitempty" db:"used_at"`
}
