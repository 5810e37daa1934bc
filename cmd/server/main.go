// Package main runs the careers-page builder HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/careerforge/backend/config"
	"github.com/careerforge/backend/internal/ai"
	"github.com/careerforge/backend/internal/assets"
	"github.com/careerforge/backend/internal/auth"
	"github.com/careerforge/backend/internal/companies"
	"github.com/careerforge/backend/internal/event"
	"github.com/careerforge/backend/internal/jobs"
	"github.com/careerforge/backend/internal/middleware"
	"github.com/careerforge/backend/pkg/database"
	"github.com/careerforge/backend/pkg/queue"
	"github.com/careerforge/backend/pkg/redis"
	"github.com/careerforge/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.AssetsBucket != "" {
		s3Client, err = storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			AssetsBucket:    cfg.AWS.AssetsBucket,
		}, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
			s3Client = nil
		}
	}

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	blocklist := auth.NewRedisBlocklist(rdb.Client)
	verifier := auth.NewVerifier(jwtService, blocklist)
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, verifier, blocklist, logger)

	// Companies
	companyRepo := companies.NewRepository(pool)
	guard := companies.NewGuard(companyRepo)
	companyHandler := companies.NewHandler(companyRepo, guard, logger)

	// Jobs
	jobRepo := jobs.NewRepository(pool)
	jobHandler := jobs.NewHandler(jobRepo, companyRepo, guard, logger)

	// Assets (logo/banner uploads, background blob cleanup)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	var blobs assets.BlobStore
	if s3Client != nil {
		blobs = s3Client
	}
	assetHandler := assets.NewHandler(companyRepo, guard, blobs, jobQueue, logger)

	// AI enhancement
	aiClient := ai.NewClient(cfg.AI.GatewayURL, time.Duration(cfg.AI.TimeoutSec)*time.Second, logger)
	aiHandler := ai.NewHandler(aiClient, logger)

	dispatcher := event.New(verifier, logger)

	// Auth steps
	dispatcher.Register(event.StepLogin, event.PolicyPublic, authHandler.Login)
	dispatcher.Register(event.StepRegister, event.PolicyPublic, authHandler.Register)
	dispatcher.Register(event.StepLogout, event.PolicyAuth, authHandler.Logout)
	dispatcher.Register(event.StepVerifyToken, event.PolicyPublic, authHandler.VerifyToken)

	// Company steps
	dispatcher.Register(event.StepCreateCompany, event.PolicyAuth, companyHandler.Create)
	dispatcher.Register(event.StepGetCompany, event.PolicyPublic, companyHandler.Get)
	dispatcher.Register(event.StepUpdateCompany, event.PolicyAuth, companyHandler.Update)
	dispatcher.Register(event.StepDeleteCompany, event.PolicyAuth, companyHandler.Delete)
	dispatcher.Register(event.StepGetUserCompanies, event.PolicyAuth, companyHandler.ListByUser)
	dispatcher.Register(event.StepCheckCompanyAccess, event.PolicyAuth, companyHandler.CheckAccess)

	// Job steps
	dispatcher.Register(event.StepGetJobs, event.PolicyPublic, jobHandler.List)
	dispatcher.Register(event.StepGetJobsPaginated, event.PolicyPublic, jobHandler.ListPaginated)
	dispatcher.Register(event.StepGetCompanyJobs, event.PolicyAuth, jobHandler.ListForOwner)
	dispatcher.Register(event.StepCreateJob, event.PolicyAuth, jobHandler.Create)
	dispatcher.Register(event.StepUpdateJob, event.PolicyAuth, jobHandler.Update)
	dispatcher.Register(event.StepDeleteJob, event.PolicyAuth, jobHandler.Delete)

	// Asset steps
	dispatcher.Register(event.StepUploadLogo, event.PolicyAuth, assetHandler.UploadLogo)
	dispatcher.Register(event.StepUploadBanner, event.PolicyAuth, assetHandler.UploadBanner)
	dispatcher.Register(event.StepDeleteLogo, event.PolicyAuth, assetHandler.DeleteLogo)
	dispatcher.Register(event.StepDeleteBanner, event.PolicyAuth, assetHandler.DeleteBanner)

	// AI steps
	dispatcher.Register(event.StepEnhanceText, event.PolicyPublic, aiHandler.EnhanceText)
	dispatcher.Register(event.StepEnhanceTextList, event.PolicyPublic, aiHandler.EnhanceTextList)
	dispatcher.Register(event.StepGenerateContent, event.PolicyPublic, aiHandler.GenerateContent)

	for legacy, canonical := range event.LegacyAliases {
		dispatcher.Alias(legacy, canonical)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	router.POST("/api/event", dispatcher.Handle)
	router.POST("/api/events", dispatcher.Handle) // legacy path

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
