package errors

import (
	"errors"
	"fmt"
)

var (
	// Generic errors.
	ErrInternal       = errors.New("internal server error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrForbidden      = errors.New("access denied")
	ErrUnauthorized   = errors.New("unauthorized")

	// Authentication errors.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token expired")
	ErrRevokedToken        = errors.New("token revoked")
	ErrRefreshTokenReused  = errors.New("refresh token already used")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// User errors.
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailExists      = errors.New("email already in use")
	ErrUsernameExists   = errors.New("username already in use")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrUserBlocked      = errors.New("user is blocked")
	ErrUserLockedOut    = errors.New("user is temporarily locked out")
	ErrEmailNotVerified = errors.New("email not verified")
	ErrDuplicateValue   = errors.New("duplicate value")

	// Role and permission errors.
	ErrRoleNotFound       = errors.New("role not found")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrSystemRole         = errors.New("system roles cannot be modified")

	// Two-factor authentication errors.
	ErrInvalid2FACode    = errors.New("invalid 2FA code")
	Err2FARequired       = errors.New("two-factor authentication required")
	Err2FAAlreadyEnabled = errors.New("two-factor authentication already enabled")
	Err2FANotEnabled     = errors.New("two-factor authentication not enabled")
	ErrMFANotVerified    = errors.New("two-factor enrollment not verified")
	ErrInvalidBackupCode = errors.New("invalid backup code")

	// Session errors.
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionRevoked  = errors.New("session terminated")

	// Verification code errors.
	ErrVerificationCodeInvalid = errors.New("verification code invalid or expired")

	// Platform errors.
	ErrEventNotFound            = errors.New("event not found")
	ErrEventNotPublished        = errors.New("event is not open for registration")
	ErrEventFull                = errors.New("event has reached capacity")
	ErrEventStarted             = errors.New("event has already started")
	ErrAlreadyRegistered        = errors.New("already registered for this event")
	ErrRegistrationNotFound     = errors.New("registration not found")
	ErrSpeakerNotFound          = errors.New("speaker not found")
	ErrContractNotFound         = errors.New("contract not found")
	ErrInvalidContractState     = errors.New("contract is not in a valid state for this operation")
	ErrSettingNotFound          = errors.New("setting not found")
	ErrBadgeNotFound            = errors.New("badge not found")
	ErrRateLimited              = errors.New("too many requests")
	ErrInvalidParticipationMode = errors.New("invalid participation mode")
)

// AppError carries an HTTP status and a machine-readable code alongside the
// wrapped cause.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{Err: err, Message: message, StatusCode: statusCode, Code: code}
}

// IsNotFound reports whether err represents a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrRoleNotFound) ||
		errors.Is(err, ErrPermissionNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrRegistrationNotFound) ||
		errors.Is(err, ErrSpeakerNotFound) ||
		errors.Is(err, ErrContractNotFound) ||
		errors.Is(err, ErrSettingNotFound) ||
		errors.Is(err, ErrBadgeNotFound)
}

// IsForbidden reports whether err represents denied access.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrPermissionDenied)
}

// IsUnauthorized reports whether err represents a failed authentication.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrRevokedToken) ||
		errors.Is(err, ErrInvalidRefreshToken) ||
		errors.Is(err, ErrRefreshTokenReused) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrSessionRevoked)
}

// IsConflict reports whether err represents a uniqueness conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrEmailExists) ||
		errors.Is(err, ErrUsernameExists) ||
		errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, Err2FAAlreadyEnabled) ||
		errors.Is(err, ErrDuplicateValue)
}

// IsBadRequest reports whether err represents a malformed or unacceptable request.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalid2FACode) ||
		errors.Is(err, ErrInvalidBackupCode) ||
		errors.Is(err, ErrInvalidPassword) ||
		errors.Is(err, ErrInvalidContractState) ||
		errors.Is(err, ErrInvalidParticipationMode) ||
		errors.Is(err, ErrVerificationCodeInvalid)
}
