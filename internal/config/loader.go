package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig reads configuration from a YAML file selected by APP_ENV and
// overlays TRADECONNECT_* environment variables.
func LoadConfig() (*Config, error) {
	setDefaults()

	env := strings.ToLower(os.Getenv("APP_ENV"))
	if env == "" {
		env = "development"
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(fmt.Sprintf("config.%s", env))
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/tradeconnect")
	}

	viper.SetEnvPrefix("TRADECONNECT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing file is fine; environment variables can carry everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Environment == "" {
		cfg.Environment = env
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "15s")

	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_conns", 10)

	viper.SetDefault("jwt.access_token_ttl", "15m")
	viper.SetDefault("jwt.refresh_token_ttl", "720h")
	viper.SetDefault("jwt.mfa_challenge_ttl", "5m")
	viper.SetDefault("jwt.verification_code_ttl", "24h")
	viper.SetDefault("jwt.password_reset_ttl", "1h")
	viper.SetDefault("jwt.refresh_token_byte_length", 32)
	viper.SetDefault("jwt.issuer", "tradeconnect")
	viper.SetDefault("jwt.audience", "tradeconnect-api")

	viper.SetDefault("security.lockout.max_failed_attempts", 5)
	viper.SetDefault("security.lockout.lockout_duration", "15m")
	viper.SetDefault("security.password_hash.memory", 65536)
	viper.SetDefault("security.password_hash.iterations", 3)
	viper.SetDefault("security.password_hash.parallelism", 2)
	viper.SetDefault("security.password_hash.salt_length", 16)
	viper.SetDefault("security.password_hash.key_length", 32)
	viper.SetDefault("security.max_sessions_per_user", 5)
	viper.SetDefault("security.session_ttl", "720h")

	viper.SetDefault("mfa.totp_issuer_name", "TradeConnect")
	viper.SetDefault("mfa.backup_code_count", 10)

	viper.SetDefault("gamification.registration_points", 50)
	viper.SetDefault("gamification.attendance_points", 100)

	viper.SetDefault("kafka.auth_topic", "tradeconnect.auth.events")
	viper.SetDefault("kafka.platform_topic", "tradeconnect.platform.events")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("metrics.enabled", true)
}
