package events

import "time"

// Payloads carried in the Data field of published CloudEvents.

type UserRegisteredPayload struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserLoggedInPayload struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	IPAddress string `json:"ip_address,omitempty"`
}

type UserLoginFailedPayload struct {
	UserID    string `json:"user_id,omitempty"`
	Reason    string `json:"reason"`
	IPAddress string `json:"ip_address,omitempty"`
}

type UserLockedOutPayload struct {
	UserID       string    `json:"user_id"`
	LockoutUntil time.Time `json:"lockout_until"`
}

type SessionTerminatedPayload struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

type TokenReusePayload struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type TwoFactorPayload struct {
	UserID string `json:"user_id"`
}

type PasswordChangedPayload struct {
	UserID string `json:"user_id"`
}

type EventLifecyclePayload struct {
	EventID     string `json:"event_id"`
	OrganizerID string `json:"organizer_id"`
	Title       string `json:"title"`
}

type RegistrationPayload struct {
	RegistrationID string `json:"registration_id"`
	EventID        string `json:"event_id"`
	UserID         string `json:"user_id"`
	Mode           string `json:"mode"`
}

type ContractPayload struct {
	ContractID string `json:"contract_id"`
	EventID    string `json:"event_id"`
	SpeakerID  string `json:"speaker_id"`
	Status     string `json:"status"`
}

type BadgeAwardedPayload struct {
	UserID  string `json:"user_id"`
	BadgeID string `json:"badge_id"`
	Badge   string `json:"badge"`
}
