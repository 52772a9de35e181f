package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// GenerateOpaqueToken returns a URL-safe random token with byteLength bytes
// of entropy. Used for refresh tokens, 2FA challenges and verification codes.
func GenerateOpaqueToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = 32
	}
	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashToken returns the hex SHA-256 digest of a token. Opaque tokens are
// stored hashed so a database leak does not expose usable credentials.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

const backupCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateBackupCode returns a human-typable recovery code in the form
// XXXX-XXXX-XX using an alphabet without ambiguous characters.
func GenerateBackupCode() (string, error) {
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		if i == 4 || i == 8 {
			sb.WriteByte('-')
		}
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(backupCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate backup code: %w", err)
		}
		sb.WriteByte(backupCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}
