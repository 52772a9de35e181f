package events

import "context"

// Event types published to the message bus.
const (
	TypeUserRegistered     = "com.tradeconnect.auth.user.registered"
	TypeUserEmailVerified  = "com.tradeconnect.auth.user.email_verified"
	TypeUserLoggedIn       = "com.tradeconnect.auth.user.logged_in"
	TypeUserLoginFailed    = "com.tradeconnect.auth.user.login_failed"
	TypeUserLockedOut      = "com.tradeconnect.auth.user.locked_out"
	TypeUserLoggedOut      = "com.tradeconnect.auth.user.logged_out"
	TypePasswordChanged    = "com.tradeconnect.auth.user.password_changed"
	TypePasswordResetReq   = "com.tradeconnect.auth.user.password_reset_requested"
	Type2FAEnabled         = "com.tradeconnect.auth.user.2fa_enabled"
	Type2FADisabled        = "com.tradeconnect.auth.user.2fa_disabled"
	TypeSessionTerminated  = "com.tradeconnect.auth.session.terminated"
	TypeTokenReuseDetected = "com.tradeconnect.auth.token.reuse_detected"

	TypeEventPublished       = "com.tradeconnect.platform.event.published"
	TypeEventCancelled       = "com.tradeconnect.platform.event.cancelled"
	TypeRegistrationCreated  = "com.tradeconnect.platform.registration.created"
	TypeRegistrationAttended = "com.tradeconnect.platform.registration.attended"
	TypeContractSent         = "com.tradeconnect.platform.contract.sent"
	TypeContractSigned       = "com.tradeconnect.platform.contract.signed"
	TypeBadgeAwarded         = "com.tradeconnect.platform.badge.awarded"
)

// Publisher sends domain events to the message bus. Implementations must be
// safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, topic, eventType, subject string, payload interface{}) error
	Close() error
}

// NoopPublisher is used when the message bus is disabled in configuration.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, string, string, interface{}) error { return nil }
func (NoopPublisher) Close() error                                                       { return nil }

var _ Publisher = NoopPublisher{}
