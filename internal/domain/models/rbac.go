package models

import (
	"time"

	"github.com/google/uuid"
)

// Role groups permissions. System roles ship with the platform and cannot
// be deleted.
type Role struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Description string       `json:"description" db:"description"`
	IsSystem    bool         `json:"is_system" db:"is_system"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
	Permissions []Permission `json:"permissions,omitempty" db:"-"`
}

// Permission is a named capability such as "events.create".
type Permission struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Well-known role names seeded by migrations.
const (
	RoleAdmin     = "admin"
	RoleOrganizer = "organizer"
	RoleSpeaker   = "speaker"
	RoleAttendee  = "attendee"
)

// CreateRoleRequest carries role creation input.
type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=64"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleRequest carries partial role updates.
type UpdateRoleRequest struct {
	Description *string  `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}
