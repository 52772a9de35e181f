package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTPService generates and validates time-based one-time passwords using
// the standard parameters (SHA1, 6 digits, 30 second period).
type TOTPService struct {
	issuer string
}

func NewTOTPService(issuer string) *TOTPService {
	if strings.TrimSpace(issuer) == "" {
		issuer = "TradeConnect"
	}
	return &TOTPService{issuer: issuer}
}

// GenerateSecret creates a new TOTP secret for accountName and returns the
// base32 secret together with the otpauth:// provisioning URL.
func (s *TOTPService) GenerateSecret(accountName string) (secret, otpAuthURL string, err error) {
	if strings.TrimSpace(accountName) == "" {
		return "", "", fmt.Errorf("account name cannot be empty")
	}
	if strings.ContainsRune(accountName, ':') {
		return "", "", fmt.Errorf("account name cannot contain a colon")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: accountName,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
		SecretSize:  20,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate TOTP key: %w", err)
	}
	return key.Secret(), key.URL(), nil
}

// ValidateCode checks code against secret, allowing one period of clock drift
// on either side.
func (s *TOTPService) ValidateCode(secret, code string) (bool, error) {
	if strings.TrimSpace(secret) == "" || strings.TrimSpace(code) == "" {
		return false, nil
	}
	valid, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false, fmt.Errorf("failed to validate TOTP code: %w", err)
	}
	return valid, nil
}
