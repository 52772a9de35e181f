package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLogStatus marks an audited action as succeeded or failed.
type AuditLogStatus string

const (
	AuditLogStatusSuccess AuditLogStatus = "success"
	AuditLogStatusFailure AuditLogStatus = "failure"
)

// Audit target types.
const (
	AuditTargetTypeUser         = "user"
	AuditTargetTypeSession      = "session"
	AuditTargetTypeRole         = "role"
	AuditTargetTypeEvent        = "event"
	AuditTargetTypeRegistration = "registration"
	AuditTargetTypeContract     = "contract"
	AuditTargetTypeSetting      = "setting"
)

// AuditLog is an append-only record of a security-relevant action.
// Rows are write-once: there are no update or delete paths.
type AuditLog struct {
	ID         int64           `json:"id" db:"id"`
	ActorID    *uuid.UUID      `json:"actor_id,omitempty" db:"actor_id"` // nil for system actions
	Action     string          `json:"action" db:"action"`
	TargetType *string         `json:"target_type,omitempty" db:"target_type"`
	TargetID   *string         `json:"target_id,omitempty" db:"target_id"`
	IPAddress  *string         `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  *string         `json:"user_agent,omitempty" db:"user_agent"`
	Status     AuditLogStatus  `json:"status" db:"status"`
	Details    json.RawMessage `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// ListAuditLogsParams defines filters for the admin audit log listing.
type ListAuditLogsParams struct {
	Page     int
	PageSize int
	ActorID  *uuid.UUID
	Action   *string
	Status   *AuditLogStatus
	DateFrom *time.Time
	DateTo   *time.Time
}
