package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Session represents one authenticated device login. A session is either
// active or terminated; termination is terminal.
type Session struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	UserID         uuid.UUID       `json:"user_id" db:"user_id"`
	IPAddress      *string         `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent      *string         `json:"user_agent,omitempty" db:"user_agent"`
	DeviceInfo     json.RawMessage `json:"device_info,omitempty" db:"device_info"`
	ExpiresAt      time.Time       `json:"expires_at" db:"expires_at"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	LastActivityAt time.Time       `json:"last_activity_at" db:"last_activity_at"`
	TerminatedAt   *time.Time      `json:"terminated_at,omitempty" db:"terminated_at"`
}

// IsActive reports whether the session can still be used.
func (s *Session) IsActive(now time.Time) bool {
	return s.TerminatedAt == nil && s.ExpiresAt.After(now)
}

// CreateSessionRequest carries session creation input into the service layer.
type CreateSessionRequest struct {
	UserID     uuid.UUID
	IPAddress  *string
	UserAgent  *string
	DeviceInfo json.RawMessage
	TTL        time.Duration
}

// SessionResponse is the API shape of a session.
type SessionResponse struct {
	ID             uuid.UUID  `json:"id"`
	IPAddress      *string    `json:"ip_address,omitempty"`
	UserAgent      *string    `json:"user_agent,omitempty"`
	ExpiresAt      time.Time  `json:"expires_at"`
	CreatedAt      time.Time  `json:"created_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	TerminatedAt   *time.Time `json:"terminated_at,omitempty"`
	IsActive       bool       `json:"is_active"`
}

// ToResponse converts a Session to its API representation.
func (s *Session) ToResponse() SessionResponse {
	return SessionResponse{
		ID:             s.ID,
		IPAddress:      s.IPAddress,
		UserAgent:      s.UserAgent,
		ExpiresAt:      s.ExpiresAt,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
		TerminatedAt:   s.TerminatedAt,
		IsActive:       s.IsActive(time.Now()),
	}
}
