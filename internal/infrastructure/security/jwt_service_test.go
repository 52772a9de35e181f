package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/config"
	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
)

func testJWTConfig(t *testing.T) config.JWTConfig {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	})

	return config.JWTConfig{
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  720 * time.Hour,
		RSAPrivateKeyPEM: string(privPEM),
		RSAPublicKeyPEM:  string(pubPEM),
		JWKSKeyID:        "test-key-1",
		Issuer:           "tradeconnect",
		Audience:         "tradeconnect-api",
	}
}

func TestJWTServiceGenerateAndValidate(t *testing.T) {
	svc, err := NewJWTService(testJWTConfig(t))
	require.NoError(t, err)

	userID := uuid.NewString()
	sessionID := uuid.NewString()
	token, claims, err := svc.GenerateAccessToken(userID, "trader",
		[]string{"attendee"}, []string{"events.register"}, sessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, claims.ID)

	parsed, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed.UserID)
	assert.Equal(t, "trader", parsed.Username)
	assert.Equal(t, []string{"attendee"}, parsed.Roles)
	assert.Equal(t, []string{"events.register"}, parsed.Permissions)
	assert.Equal(t, sessionID, parsed.SessionID)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestJWTServiceRejectsGarbage(t *testing.T) {
	svc, err := NewJWTService(testJWTConfig(t))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestJWTServiceRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig(t)
	cfg.AccessTokenTTL = -time.Minute
	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	token, _, err := svc.GenerateAccessToken(uuid.NewString(), "trader", nil, nil, uuid.NewString())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, domainErrors.ErrExpiredToken)
}

func TestJWTServiceRejectsForeignSignature(t *testing.T) {
	issuing, err := NewJWTService(testJWTConfig(t))
	require.NoError(t, err)
	verifying, err := NewJWTService(testJWTConfig(t))
	require.NoError(t, err)

	token, _, err := issuing.GenerateAccessToken(uuid.NewString(), "trader", nil, nil, uuid.NewString())
	require.NoError(t, err)

	_, err = verifying.ValidateAccessToken(token)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestJWTServiceRejectsWrongAudience(t *testing.T) {
	cfg := testJWTConfig(t)
	issuing, err := NewJWTService(cfg)
	require.NoError(t, err)

	other := cfg
	other.Audience = "another-service"
	verifying, err := NewJWTService(other)
	require.NoError(t, err)

	token, _, err := issuing.GenerateAccessToken(uuid.NewString(), "trader", nil, nil, uuid.NewString())
	require.NoError(t, err)

	_, err = verifying.ValidateAccessToken(token)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidToken)
}

func TestJWTServiceJWKS(t *testing.T) {
	svc, err := NewJWTService(testJWTConfig(t))
	require.NoError(t, err)

	doc := svc.JWKS()
	keys, ok := doc["keys"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, keys, 1)
	assert.Equal(t, "RSA", keys[0]["kty"])
	assert.Equal(t, "test-key-1", keys[0]["kid"])
	assert.Equal(t, "RS256", keys[0]["alg"])
	assert.NotEmpty(t, keys[0]["n"])
	assert.NotEmpty(t, keys[0]["e"])
}

func TestNewJWTServiceRequiresConfiguration(t *testing.T) {
	_, err := NewJWTService(config.JWTConfig{})
	assert.Error(t, err)

	cfg := testJWTConfig(t)
	cfg.RSAPrivateKeyPEM = "not-a-pem"
	_, err = NewJWTService(cfg)
	assert.Error(t, err)
}
