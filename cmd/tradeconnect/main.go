package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/config"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/events"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/events/kafka"
	httphandler "github.com/NormanSinay/tradeconnect-v1-sub002/internal/handler/http"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/infrastructure/security"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/repository/postgres"
	redisrepo "github.com/NormanSinay/tradeconnect-v1-sub002/internal/repository/redis"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/service"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/utils/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting tradeconnect platform service",
		zap.String("environment", cfg.Environment),
		zap.Int("port", cfg.Server.Port))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(cfg.Database, "migrations"); err != nil {
			return err
		}
		log.Info("database migrations applied")
	}

	pool, err := postgres.NewDBPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := redisrepo.NewClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, "tradeconnect-platform", log)
		if err != nil {
			return err
		}
		publisher = producer
	}
	defer publisher.Close() //nolint:errcheck

	// Repositories.
	userRepo := postgres.NewUserRepositoryPostgres(pool)
	sessionRepo := postgres.NewSessionRepositoryPostgres(pool)
	tokenRepo := postgres.NewRefreshTokenRepositoryPostgres(pool)
	codeRepo := postgres.NewVerificationCodeRepositoryPostgres(pool)
	mfaSecretRepo := postgres.NewMFASecretRepositoryPostgres(pool)
	mfaBackupRepo := postgres.NewMFABackupCodeRepositoryPostgres(pool)
	roleRepo := postgres.NewRoleRepositoryPostgres(pool)
	auditRepo := postgres.NewAuditLogRepositoryPostgres(pool)
	eventRepo := postgres.NewEventRepositoryPostgres(pool)
	speakerRepo := postgres.NewSpeakerRepositoryPostgres(pool)
	gamificationRepo := postgres.NewGamificationRepositoryPostgres(pool)
	settingsRepo := postgres.NewSettingsRepositoryPostgres(pool)

	// Security primitives.
	hasher, err := security.NewArgon2idHasher(cfg.Security.PasswordHash)
	if err != nil {
		return err
	}
	jwtService, err := security.NewJWTService(cfg.JWT)
	if err != nil {
		return err
	}
	totpService := security.NewTOTPService(cfg.MFA.TOTPIssuerName)
	encryptor, err := security.NewAESGCMEncryptor(cfg.MFA.TOTPEncryptionKey)
	if err != nil {
		return err
	}

	blacklist := redisrepo.NewTokenBlacklist(redisClient)
	challenges := redisrepo.NewChallengeStore(redisClient)
	rateLimiter := redisrepo.NewRateLimiter(redisClient, cfg.Security.RateLimiting)

	// Services.
	auditService := service.NewAuditService(auditRepo, log)
	sessionService := service.NewSessionService(sessionRepo, tokenRepo, publisher, cfg.Security, cfg.Kafka.AuthTopic, log)
	tokenService := service.NewTokenService(tokenRepo, sessionRepo, roleRepo, userRepo, jwtService, blacklist, publisher, auditService, cfg.JWT, cfg.Kafka.AuthTopic, log)
	twoFactorService := service.NewTwoFactorService(mfaSecretRepo, mfaBackupRepo, userRepo, totpService, encryptor, hasher, publisher, auditService, cfg.MFA, cfg.Kafka.AuthTopic, log)
	authService := service.NewAuthService(userRepo, codeRepo, mfaSecretRepo, roleRepo, hasher, tokenService, sessionService, twoFactorService, challenges, publisher, auditService, cfg.JWT, cfg.Security.Lockout, cfg.Kafka.AuthTopic, log)
	rbacService := service.NewRBACService(roleRepo, userRepo, auditService, log)
	userService := service.NewUserService(userRepo, roleRepo, sessionService, auditService, log)
	gamificationService := service.NewGamificationService(gamificationRepo, publisher, cfg.Kafka.PlatformTopic, log)
	eventService := service.NewEventService(eventRepo, gamificationService, publisher, auditService, cfg.Gamification, cfg.Kafka.PlatformTopic, log)
	speakerService := service.NewSpeakerService(speakerRepo, eventRepo, publisher, auditService, cfg.Kafka.PlatformTopic, log)
	settingsService := service.NewSettingsService(settingsRepo, auditService, log)

	router := httphandler.NewRouter(httphandler.RouterDeps{
		Config:      cfg,
		Logger:      log,
		Auth:        httphandler.NewAuthHandler(authService, tokenService, log),
		Me:          httphandler.NewMeHandler(userService, authService, sessionService, twoFactorService, settingsService, gamificationService, eventService, log),
		Events:      httphandler.NewEventHandler(eventService, log),
		Speakers:    httphandler.NewSpeakerHandler(speakerService, log),
		Admin:       httphandler.NewAdminHandler(userService, rbacService, auditService, settingsService, gamificationService, log),
		System:      httphandler.NewSystemHandler(tokenService),
		Validator:   tokenService,
		RateLimiter: rateLimiter,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}
