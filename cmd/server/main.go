package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"account-api.backend/internal/config"
	"account-api.backend/internal/infrastructure/datasources/postgres"
	"account-api.backend/internal/infrastructure/jobs"
	"account-api.backend/internal/infrastructure/mail"
	"account-api.backend/internal/infrastructure/repositories"
	"account-api.backend/internal/interfaces/http/handlers"
	"account-api.backend/internal/interfaces/http/middleware"
	"account-api.backend/internal/usecases"
	"account-api.backend/pkg/jwt"
	"account-api.backend/pkg/logger"
	"account-api.backend/pkg/metrics"
	"account-api.backend/pkg/redis"
	"account-api.backend/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	newRedis   = redis.NewClient
	openDB     = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
		sqlDB, err := postgres.Open(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.NewGorm(sqlDB)
	}
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
	runServer = func(srv *http.Server) error { return srv.ListenAndServe() }
	// shutdownSignal returns a context that is cancelled on SIGINT or SIGTERM
	shutdownSignal = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	}
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.App.Env, cfg.App.LogLevel)
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.App.Env))

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validation.RegisterGinValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	redisClient, err := newRedis(redis.Options{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redisClient.Close()
	logger.Info(ctx, "Redis initialized")

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Warn(ctx, "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		logger.Info(ctx, "Connected to PostgreSQL via GORM")
	}

	m := metrics.New("account_api")
	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)
	sessionCache := redis.NewSessionCache(redisClient)

	userRepo := repositories.NewUserRepository(db)
	emailVerifRepo := repositories.NewEmailVerificationRepository(db)
	uow := repositories.NewUnitOfWork(db)

	mailer, err := mail.NewMailer(mail.NewSender(cfg.Mail), cfg.App, cfg.Mail)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	authUsecase := usecases.NewAuthUsecase(userRepo, emailVerifRepo, uow, jwtService, sessionCache, mailer, usecases.AuthOptions{
		InvalidateSessionOnMutation: cfg.Session.InvalidateOnMutation,
		MailTimeout:                 cfg.Mail.Timeout,
		Metrics:                     m,
	})
	gate := usecases.NewSessionAuthenticator(jwtService, sessionCache, userRepo, cfg.Redis.TTL, m)

	r := newRouter(cfg, routeDeps{
		healthHandler:  handlers.NewHealthHandler(cfg.App.Name, version),
		authHandler:    handlers.NewAuthHandler(authUsecase),
		authMiddleware: middleware.AuthMiddleware(gate),
		metrics:        m,
	})

	ctx, stop := shutdownSignal(ctx)
	defer stop()

	var sweeper *jobs.VerificationTokenSweeper
	if cfg.Jobs.VerifyTokenSweepInterval > 0 {
		sweeper = jobs.NewVerificationTokenSweeper(emailVerifRepo, cfg.Jobs.VerifyTokenSweepInterval)
		go sweeper.Start(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info(ctx, "Account API starting",
		zap.String("name", cfg.App.Name),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- runServer(srv) }()

	var serveErr error
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
		logger.Info(context.Background(), "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			serveErr = fmt.Errorf("failed to shut down server: %w", err)
		}
	}

	if sweeper != nil {
		sweeper.Stop()
	}
	// pending verification emails finish before the process exits
	authUsecase.Wait()
	return serveErr
}
