package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the TradeConnect platform service.
type Config struct {
	Environment  string             `mapstructure:"environment"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Security     SecurityConfig     `mapstructure:"security"`
	MFA          MFAConfig          `mapstructure:"mfa"`
	Gamification GamificationConfig `mapstructure:"gamification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	MaxConns    int    `mapstructure:"max_conns"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	Brokers       []string `mapstructure:"brokers"`
	AuthTopic     string   `mapstructure:"auth_topic"`
	PlatformTopic string   `mapstructure:"platform_topic"`
}

type JWTConfig struct {
	AccessTokenTTL         time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL        time.Duration `mapstructure:"refresh_token_ttl"`
	MFAChallengeTTL        time.Duration `mapstructure:"mfa_challenge_ttl"`
	VerificationCodeTTL    time.Duration `mapstructure:"verification_code_ttl"`
	PasswordResetTTL       time.Duration `mapstructure:"password_reset_ttl"`
	RSAPrivateKeyPEM       string        `mapstructure:"rsa_private_key_pem"`
	RSAPublicKeyPEM        string        `mapstructure:"rsa_public_key_pem"`
	JWKSKeyID              string        `mapstructure:"jwks_key_id"`
	Issuer                 string        `mapstructure:"issuer"`
	Audience               string        `mapstructure:"audience"`
	RefreshTokenByteLength int           `mapstructure:"refresh_token_byte_length"`
}

type LockoutConfig struct {
	MaxFailedAttempts int           `mapstructure:"max_failed_attempts"`
	LockoutDuration   time.Duration `mapstructure:"lockout_duration"`
}

type PasswordHashConfig struct {
	Memory      uint32 `mapstructure:"memory"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
	SaltLength  uint32 `mapstructure:"salt_length"`
	KeyLength   uint32 `mapstructure:"key_length"`
}

// RateLimitRule defines a single fixed-window rate limit.
type RateLimitRule struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	LoginPerIP      RateLimitRule `mapstructure:"login_per_ip"`
	RegisterPerIP   RateLimitRule `mapstructure:"register_per_ip"`
	TwoFAPerUser    RateLimitRule `mapstructure:"two_fa_per_user"`
	PasswordResetIP RateLimitRule `mapstructure:"password_reset_per_ip"`
}

type SecurityConfig struct {
	Lockout            LockoutConfig      `mapstructure:"lockout"`
	PasswordHash       PasswordHashConfig `mapstructure:"password_hash"`
	RateLimiting       RateLimitConfig    `mapstructure:"rate_limiting"`
	MaxSessionsPerUser int                `mapstructure:"max_sessions_per_user"`
	SessionTTL         time.Duration      `mapstructure:"session_ttl"`
}

type MFAConfig struct {
	TOTPIssuerName    string `mapstructure:"totp_issuer_name"`
	TOTPEncryptionKey string `mapstructure:"totp_encryption_key"` // hex-encoded 32-byte key
	BackupCodeCount   int    `mapstructure:"backup_code_count"`
	MaxFailedAttempts int    `mapstructure:"max_failed_attempts"`
}

type GamificationConfig struct {
	RegistrationPoints int `mapstructure:"registration_points"`
	AttendancePoints   int `mapstructure:"attendance_points"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
