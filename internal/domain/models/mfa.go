package models

import (
	"time"

	"github.com/google/uuid"
)

// MFAType enumerates supported second factors. TOTP is the only method
// currently issued; the column exists so additional methods can be added
// without a schema change.
type MFAType string

const (
	MFATypeTOTP MFAType = "totp"
)

// MFASecret holds a user's encrypted TOTP secret. A user has at most one
// row per type; the secret is unusable for login until Verified is set by
// a successful enrollment confirmation.
type MFASecret struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	Type            MFAType   `json:"type" db:"type"`
	SecretEncrypted string    `json:"-" db:"secret_encrypted"`
	Verified        bool      `json:"verified" db:"verified"`
	FailedAttempts  int       `json:"failed_attempts" db:"failed_attempts"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// MFABackupCode is a single-use recovery code. The plain code is shown to
// the user exactly once; only the hash is kept.
type MFABackupCode struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	CodeHash  string     `json:"-" db:"code_hash"`
	UsedAt    *time.Time `json:"used_at,omitempty" db:"used_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// MFAEnrollment is returned when TOTP enrollment is initiated.
type MFAEnrollment struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}
