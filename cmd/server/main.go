// Package main is the HTTP API + background worker entry point for the
// authentication/session/identity service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dashtam/core/internal/application/identity/commands"
	"github.com/dashtam/core/internal/application/identity/queries"
	"github.com/dashtam/core/internal/domain/events"
	"github.com/dashtam/core/internal/infrastructure/email"
	"github.com/dashtam/core/internal/infrastructure/eventbus"
	"github.com/dashtam/core/internal/infrastructure/eventhandlers"
	asynqinfra "github.com/dashtam/core/internal/infrastructure/jobs/asynq"
	"github.com/dashtam/core/internal/infrastructure/jobs/tasks"
	"github.com/dashtam/core/internal/infrastructure/persistence/postgres"
	"github.com/dashtam/core/internal/infrastructure/persistence/redis"
	"github.com/dashtam/core/internal/infrastructure/security/jwt"
	sseinfra "github.com/dashtam/core/internal/infrastructure/sse"
	"github.com/dashtam/core/internal/interfaces/http/handlers"
	"github.com/dashtam/core/internal/interfaces/http/middleware"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	env := getEnv("APP_ENV", "development")
	isProd := env == "production"
	httpPort := getEnv("HTTP_PORT", "8080")

	// --- PostgreSQL ---
	pgCfg := postgres.Config{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", "postgres"),
		Database:        getEnv("DB_NAME", "dashtam"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
	db, err := postgres.NewDB(pgCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer postgres.Close(db)

	// --- Redis ---
	redisCfg := redis.DefaultConfig()
	redisCfg.Host = getEnv("REDIS_HOST", "localhost")
	redisCfg.Port = getEnvInt("REDIS_PORT", 6379)
	redisCfg.Password = getEnv("REDIS_PASSWORD", "")
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	redisAddr := fmt.Sprintf("%s:%d", redisCfg.Host, redisCfg.Port)

	// --- JWT ---
	jwtCfg := jwt.DefaultConfig()
	jwtCfg.PrivateKeyPath = getEnv("JWT_PRIVATE_KEY_PATH", "")
	jwtCfg.PublicKeyPath = getEnv("JWT_PUBLIC_KEY_PATH", "")
	jwtCfg.Issuer = getEnv("JWT_ISSUER", jwtCfg.Issuer)
	jwtService, err := jwt.NewService(jwtCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize jwt service")
	}
	blacklist := jwt.NewTokenBlacklist(redisClient.UnderlyingClient())

	// --- Repositories ---
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	emailVerificationRepo := postgres.NewEmailVerificationRepository(db)
	passwordResetRepo := postgres.NewPasswordResetRepository(db)
	securityConfigRepo := postgres.NewSecurityConfigRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	sessionCache := redis.NewSessionStore(redisClient.UnderlyingClient())

	// --- Event bus ---
	bus := eventbus.New(logger)

	// --- Background job queue ---
	asynqClient, err := asynqinfra.NewClient(asynqinfra.ClientConfig{
		RedisAddr: redisAddr,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize asynq client")
	}
	defer asynqClient.Close()

	mailer := email.NewMailer(asynqClient)

	// --- SSE fan-out ---
	sseEnableRetention := getEnv("SSE_ENABLE_RETENTION", "false") == "true"
	ssePublisher := sseinfra.NewPublisher(redisClient.UnderlyingClient(), sseinfra.PublisherConfig{
		EnableRetention: sseEnableRetention,
	}, logger)
	sseSubscriber := sseinfra.NewSubscriber(redisClient.UnderlyingClient(), logger)
	sseReplay := sseinfra.NewReplay(redisClient.UnderlyingClient(), sseEnableRetention, logger)

	// --- Subscribe the standard event handlers, gated by the event
	// registry's Requires* flags per entry, not wired blindly. The SSE
	// handler gates itself internally via its own registry lookup.
	loggingHandler := eventhandlers.NewLoggingHandler(logger)
	auditHandler := eventhandlers.NewAuditHandler(auditRepo, logger)
	emailHandler := eventhandlers.NewEmailHandler(mailer, logger)
	sessionHandler := eventhandlers.NewSessionHandler(sessionRepo, sessionCache, logger)
	sseEventHandler := eventhandlers.NewSSEHandler(ssePublisher, logger)

	for _, entry := range events.All() {
		if entry.RequiresLogging {
			bus.Subscribe(entry.EventType, loggingHandler)
		}
		if entry.RequiresAudit {
			bus.Subscribe(entry.EventType, auditHandler)
		}
		if entry.RequiresEmail {
			bus.Subscribe(entry.EventType, emailHandler)
		}
		if entry.RequiresSession {
			bus.Subscribe(entry.EventType, sessionHandler)
		}
		bus.Subscribe(entry.EventType, sseEventHandler)
	}

	// --- Application command/query handlers ---
	authenticateHandler := commands.NewAuthenticateHandler(userRepo, bus, &logger)
	createSessionHandler := commands.NewCreateSessionHandler(sessionRepo, sessionCache, bus, &logger)
	generateAuthTokensHandler := commands.NewGenerateAuthTokensHandler(jwtService, refreshTokenRepo, sessionRepo, sessionCache, &logger)

	registerUserHandler := commands.NewRegisterUserHandler(userRepo, emailVerificationRepo, bus, &logger)
	loginHandler := commands.NewLoginHandler(authenticateHandler, createSessionHandler, generateAuthTokensHandler, securityConfigRepo, bus, &logger)
	refreshTokenHandler := commands.NewRefreshTokenHandler(userRepo, refreshTokenRepo, sessionRepo, sessionCache, securityConfigRepo, jwtService, bus, &logger)
	logoutHandler := commands.NewLogoutHandler(refreshTokenRepo, sessionRepo, sessionCache, jwtService, blacklist, bus, &logger)

	getUserHandler := queries.NewGetUserHandler(userRepo)
	updateUserHandler := commands.NewUpdateUserHandler(userRepo)
	deleteUserHandler := commands.NewDeleteUserHandler(userRepo, sessionRepo, sessionCache, &logger)
	getUserSessionsHandler := queries.NewGetUserSessionsHandler(sessionRepo)
	getSessionHandler := queries.NewGetSessionHandler(sessionRepo)
	revokeSessionHandler := commands.NewRevokeSessionHandler(sessionRepo, sessionCache, bus, &logger)
	revokeAllSessionsHandler := commands.NewRevokeAllSessionsHandler(sessionRepo, sessionCache, bus, &logger)

	// request_password_reset/confirm_password_reset/change_password/verify_email are
	// reachable through AuthHandler/UserHandler once those routes are added; they are
	// built here so the event bus and mailer wiring above is exercised end to end even
	// though router.go (§ scope: auth + user only) does not yet mount them.
	_ = commands.NewRequestPasswordResetHandler(userRepo, passwordResetRepo, bus, mailer, &logger)
	_ = commands.NewConfirmPasswordResetHandler(userRepo, passwordResetRepo, refreshTokenRepo, sessionRepo, sessionCache, bus, &logger)
	_ = commands.NewChangePasswordHandler(userRepo, bus, &logger)
	_ = commands.NewVerifyEmailHandler(userRepo, emailVerificationRepo, bus, &logger)

	// --- HTTP handlers ---
	authHandler := handlers.NewAuthHandler(registerUserHandler, loginHandler, refreshTokenHandler, logoutHandler, logger)
	userHandler := handlers.NewUserHandler(getUserHandler, updateUserHandler, deleteUserHandler, getUserSessionsHandler, getSessionHandler, revokeSessionHandler, revokeAllSessionsHandler, logger)
	sseHandler := handlers.NewSSEHandler(sseSubscriber, sseReplay, sessionRepo, logger)
	healthHandler := handlers.NewHealthHandler(db, redisClient, logger)
	metricsCollector := middleware.NewMetricsCollector()

	router := handlers.NewRouter(
		authHandler,
		userHandler,
		sseHandler,
		healthHandler,
		metricsCollector,
		handlers.MiddlewareConfig{
			JWTService:        jwtService,
			TokenBlacklist:    blacklist,
			SessionCache:      sessionCache,
			SessionRepository: sessionRepo,
			Logger:            logger,
		},
		isProd,
	)

	srv := &http.Server{
		Addr:              ":" + httpPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Background worker (auth email delivery) ---
	sender := email.NewSMTPSender(email.SMTPConfig{
		Host: getEnv("SMTP_HOST", "localhost"),
		Port: getEnvInt("SMTP_PORT", 1025),
		User: getEnv("SMTP_USER", ""),
		Pass: getEnv("SMTP_PASSWORD", ""),
		From: getEnv("SMTP_FROM", "noreply@dashtam.local"),
	})
	authEmailHandler := tasks.NewAuthEmailHandler(sender, logger)

	workerCfg := asynqinfra.DefaultServerConfig(redisAddr, logger)
	worker, err := asynqinfra.NewServer(workerCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize asynq worker")
	}
	worker.RegisterHandler(tasks.TypeAuthEmail, authEmailHandler)

	workerErrCh := make(chan error, 1)
	go func() {
		workerErrCh <- worker.Start()
	}()

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("env", env).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-workerErrCh:
		logger.Error().Err(err).Msg("worker stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown error")
	}

	worker.Shutdown()

	logger.Info().Msg("shutdown complete")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
