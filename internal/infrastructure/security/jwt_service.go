package security

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/config"
	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
)

// Claims is the access token payload. Roles and permissions are embedded so
// authorization checks need no database round trip.
type Claims struct {
	UserID      string   `json:"uid"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	SessionID   string   `json:"sid"`
	jwt.RegisteredClaims
}

// JWTService signs and validates RS256 access tokens and exposes the public
// key as a JWKS document.
type JWTService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	cfg        config.JWTConfig
}

func NewJWTService(cfg config.JWTConfig) (*JWTService, error) {
	if cfg.RSAPrivateKeyPEM == "" || cfg.RSAPublicKeyPEM == "" || cfg.JWKSKeyID == "" {
		return nil, errors.New("RSA key pair and JWKS key ID must be configured")
	}
	if cfg.AccessTokenTTL == 0 || cfg.RefreshTokenTTL == 0 {
		return nil, errors.New("access and refresh token TTLs must be configured")
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("JWT issuer and audience must be configured")
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.RSAPrivateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.RSAPublicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}

	return &JWTService{privateKey: privateKey, publicKey: publicKey, cfg: cfg}, nil
}

// GenerateAccessToken signs a new access token and returns it with its claims.
func (s *JWTService) GenerateAccessToken(userID, username string, roles, permissions []string, sessionID string) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		UserID:      userID,
		Username:    username,
		Roles:       roles,
		Permissions: permissions,
		SessionID:   sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.cfg.JWKSKeyID

	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, claims, nil
}

// ValidateAccessToken parses and verifies a token, returning its claims.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		if kid, ok := token.Header["kid"].(string); ok && kid != s.cfg.JWKSKeyID {
			return nil, fmt.Errorf("unknown key id %q", kid)
		}
		return s.publicKey, nil
	}, jwt.WithAudience(s.cfg.Audience), jwt.WithIssuer(s.cfg.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainErrors.ErrExpiredToken
		}
		return nil, domainErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domainErrors.ErrInvalidToken
	}
	return claims, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *JWTService) AccessTokenTTL() time.Duration {
	return s.cfg.AccessTokenTTL
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (s *JWTService) RefreshTokenTTL() time.Duration {
	return s.cfg.RefreshTokenTTL
}

// JWKS returns the public key set for the /.well-known/jwks.json endpoint.
func (s *JWTService) JWKS() map[string]interface{} {
	jwk := map[string]interface{}{
		"kty": "RSA",
		"kid": s.cfg.JWKSKeyID,
		"use": "sig",
		"alg": jwt.SigningMethodRS256.Alg(),
		"n":   base64.RawURLEncoding.EncodeToString(s.publicKey.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(s.publicKey.E)).Bytes()),
	}
	return map[string]interface{}{
		"keys": []map[string]interface{}{jwk},
	}
}
