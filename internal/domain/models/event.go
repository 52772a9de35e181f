package models

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus tracks the event lifecycle: draft -> published -> completed,
// with cancellation possible until the event completes.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// EventMode distinguishes physical, virtual and hybrid events.
type EventMode string

const (
	EventModeInPerson EventMode = "in_person"
	EventModeVirtual  EventMode = "virtual"
	EventModeHybrid   EventMode = "hybrid"
)

// Event is a trade show or conference managed on the platform.
type Event struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	OrganizerID uuid.UUID   `json:"organizer_id" db:"organizer_id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	Venue       string      `json:"venue" db:"venue"`
	Mode        EventMode   `json:"mode" db:"mode"`
	Status      EventStatus `json:"status" db:"status"`
	Capacity    int         `json:"capacity" db:"capacity"` // 0 means unlimited
	StartsAt    time.Time   `json:"starts_at" db:"starts_at"`
	EndsAt      time.Time   `json:"ends_at" db:"ends_at"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// CreateEventRequest carries event creation input.
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=200"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	Mode        EventMode `json:"mode" binding:"required,oneof=in_person virtual hybrid"`
	Capacity    int       `json:"capacity" binding:"min=0"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
}

// UpdateEventRequest carries partial event updates. Only draft and published
// events can be edited.
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Venue       *string    `json:"venue,omitempty"`
	Capacity    *int       `json:"capacity,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

// ListEventsParams defines pagination and filtering for event listings.
type ListEventsParams struct {
	Page        int
	PageSize    int
	Status      EventStatus
	OrganizerID *uuid.UUID
	From        *time.Time
	To          *time.Time
}

// ParticipationMode is how an attendee joins an event.
type ParticipationMode string

const (
	ParticipationInPerson ParticipationMode = "in_person"
	ParticipationVirtual  ParticipationMode = "virtual"
)

// RegistrationStatus tracks a registration's lifecycle.
type RegistrationStatus string

const (
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
	RegistrationStatusAttended  RegistrationStatus = "attended"
)

// Registration ties a user to an event. At most one non-cancelled
// registration exists per user and event.
type Registration struct {
	ID        uuid.UUID          `json:"id" db:"id"`
	EventID   uuid.UUID          `json:"event_id" db:"event_id"`
	UserID    uuid.UUID          `json:"user_id" db:"user_id"`
	Mode      ParticipationMode  `json:"mode" db:"mode"`
	Status    RegistrationStatus `json:"status" db:"status"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" db:"updated_at"`
}
