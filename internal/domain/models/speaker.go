package models

import (
	"time"

	"github.com/google/uuid"
)

// Speaker is a presenter profile, optionally linked to a platform account.
type Speaker struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	FullName  string     `json:"full_name" db:"full_name"`
	Bio       string     `json:"bio" db:"bio"`
	Company   string     `json:"company" db:"company"`
	Email     string     `json:"email" db:"email"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// ContractStatus tracks the speaker contract lifecycle:
// draft -> sent -> signed | declined, with cancellation allowed for draft
// and sent contracts, and for signed contracts only before the event starts.
type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "draft"
	ContractStatusSent      ContractStatus = "sent"
	ContractStatusSigned    ContractStatus = "signed"
	ContractStatusDeclined  ContractStatus = "declined"
	ContractStatusCancelled ContractStatus = "cancelled"
)

// SpeakerContract is an engagement agreement between an event and a speaker.
type SpeakerContract struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	EventID   uuid.UUID      `json:"event_id" db:"event_id"`
	SpeakerID uuid.UUID      `json:"speaker_id" db:"speaker_id"`
	FeeCents  int64          `json:"fee_cents" db:"fee_cents"`
	Currency  string         `json:"currency" db:"currency"`
	Terms     string         `json:"terms" db:"terms"`
	Status    ContractStatus `json:"status" db:"status"`
	SentAt    *time.Time     `json:"sent_at,omitempty" db:"sent_at"`
	SignedAt  *time.Time     `json:"signed_at,omitempty" db:"signed_at"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// CreateSpeakerRequest carries speaker profile creation input.
type CreateSpeakerRequest struct {
	FullName string     `json:"full_name" binding:"required,min=2,max=200"`
	Bio      string     `json:"bio"`
	Company  string     `json:"company"`
	Email    string     `json:"email" binding:"required,email"`
	UserID   *uuid.UUID `json:"user_id,omitempty"`
}

// CreateContractRequest carries contract creation input.
type CreateContractRequest struct {
	EventID   uuid.UUID `json:"event_id" binding:"required"`
	SpeakerID uuid.UUID `json:"speaker_id" binding:"required"`
	FeeCents  int64     `json:"fee_cents" binding:"min=0"`
	Currency  string    `json:"currency" binding:"required,len=3"`
	Terms     string    `json:"terms"`
}
