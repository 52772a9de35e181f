package models

import (
	"time"

	"github.com/google/uuid"
)

// Point grant reasons.
const (
	PointReasonRegistration = "event_registration"
	PointReasonAttendance   = "event_attendance"
	PointReasonAdminGrant   = "admin_grant"
)

// PointEntry is one row in the append-only loyalty point ledger.
type PointEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Points    int       `json:"points" db:"points"`
	Reason    string    `json:"reason" db:"reason"`
	RefID     *string   `json:"ref_id,omitempty" db:"ref_id"` // e.g. registration ID
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Badge is a catalog entry awarded when a user's point total reaches the
// threshold.
type Badge struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	PointThreshold int       `json:"point_threshold" db:"point_threshold"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// UserBadge records a badge award. A badge is awarded to a user at most once.
type UserBadge struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	BadgeID   uuid.UUID `json:"badge_id" db:"badge_id"`
	AwardedAt time.Time `json:"awarded_at" db:"awarded_at"`
}

// LoyaltySummary is the API shape of a user's gamification state.
type LoyaltySummary struct {
	Balance int     `json:"balance"`
	Badges  []Badge `json:"badges"`
}
