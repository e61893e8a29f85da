package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bid-wiser.backend/internal/config"
	domainrepos "bid-wiser.backend/internal/domain/repositories"
	"bid-wiser.backend/internal/infrastructure/email"
	"bid-wiser.backend/internal/infrastructure/jobs"
	"bid-wiser.backend/internal/infrastructure/repositories"
	"bid-wiser.backend/internal/infrastructure/storage"
	"bid-wiser.backend/internal/interfaces/http/handlers"
	"bid-wiser.backend/internal/interfaces/http/middleware"
	"bid-wiser.backend/internal/usecases"
	"bid-wiser.backend/pkg/jwt"
	"bid-wiser.backend/pkg/logger"
	"bid-wiser.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt:    false,
			TranslateError: true,
		})
	}
	newImageStore = func(ctx context.Context, cfg config.StorageConfig) (domainrepos.ImageStore, error) {
		return storage.NewS3ImageStore(ctx, cfg)
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
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

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	userRepo := repositories.NewUserRepository(db)

	imageStore, err := newImageStore(context.Background(), cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize image store: %w", err)
	}

	notifier := email.NewSMTPNotifier(cfg.SMTP)
	revocations := redis.NewRevocationStore()

	accountUsecase := usecases.NewAccountUsecase(
		userRepo,
		imageStore,
		notifier,
		revocations,
		jwtService,
		cfg.Server.Env,
		cfg.OTP.TTL,
	)

	accountHandler := handlers.NewAccountHandler(accountUsecase, cfg.JWT.Expiry, cfg.Server.Env)
	authMiddleware := middleware.AuthMiddleware(jwtService, revocations)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expiryJob := jobs.NewOTPExpiryJob(userRepo, cfg.OTP.TTL)
	go expiryJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		accountHandler: accountHandler,
		authMiddleware: authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		expiryJob.Stop()
		cancel()
	}()

	log.Printf("🚀 BidWiser Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
