package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/bookshelf-backend/config"
	"github.com/ikkim/bookshelf-backend/internal/app/controller"
	"github.com/ikkim/bookshelf-backend/internal/app/repository"
	"github.com/ikkim/bookshelf-backend/internal/app/service"
	"github.com/ikkim/bookshelf-backend/internal/db"
	"github.com/ikkim/bookshelf-backend/internal/metrics"
	"github.com/ikkim/bookshelf-backend/internal/middleware"
	"github.com/ikkim/bookshelf-backend/internal/queue"
	"github.com/ikkim/bookshelf-backend/internal/router"
	"github.com/ikkim/bookshelf-backend/internal/scheduler"
	"github.com/ikkim/bookshelf-backend/internal/storage"
	"github.com/ikkim/bookshelf-backend/pkg/logger"
	"github.com/ikkim/bookshelf-backend/pkg/mailer"
	"github.com/ikkim/bookshelf-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting Bookshelf Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	m := metrics.New()

	// Book cache is optional
	var bookCache service.BookCache
	if cfg.Redis.URL != "" {
		if err := redis.Init(cfg.Redis.URL); err != nil {
			logger.Warn("Redis unavailable, book cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			bookCache = redis.NewBookCache(redis.GetClient(), cfg.Redis.BookCacheTTL)
			defer func() {
				if err := redis.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	// Mail delivery goes through asynq when a queue is configured
	var sender mailer.Sender = mailer.NewSender(cfg.Mail)
	if cfg.Queue.RedisURL != "" {
		mailQueue, err := queue.NewMailQueue(cfg.Queue, sender, m)
		if err != nil {
			logger.Fatal("Failed to initialize mail queue", err)
		}
		mailQueue.StartWorkers()
		defer mailQueue.Shutdown()
		sender = mailQueue
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	bookRepo := repository.NewBookRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	passwordResetService := service.NewPasswordResetService(userRepo, sender, cfg.Frontend.URL, m)
	bookService := service.NewBookService(bookRepo, bookCache, m)

	coverStorage := storage.NewS3Storage(context.Background(), cfg.S3)

	// Initialize controllers
	authController := controller.NewAuthController(authService, passwordResetService)
	bookController := controller.NewBookController(bookService)
	uploadController := controller.NewUploadController(coverStorage)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		authController,
		bookController,
		uploadController,
		authMiddleware,
		m,
		cfg,
	)
	engine := r.Setup()

	resetScheduler := scheduler.NewResetTokenScheduler(passwordResetService, cfg.Scheduler.ResetSweepSchedule)
	if err := resetScheduler.Start(); err != nil {
		logger.Fatal("Failed to start reset token scheduler", err)
	}
	defer resetScheduler.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
