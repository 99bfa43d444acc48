package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"jobify/cv-scorer/internal/app"
	"jobify/cv-scorer/internal/config"
	"jobify/cv-scorer/internal/handlers"
	"jobify/cv-scorer/internal/locale"
	"jobify/cv-scorer/internal/logger"
	"jobify/cv-scorer/internal/repositories"
	"jobify/cv-scorer/internal/services"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zl.Sync()
	zl.Info("✅ Config loaded successfully")

	db, err := config.InitDatabase(cfg, zl)
	if err != nil {
		zl.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	jobRepo := repositories.NewJobRepository(db)
	zl.Info("✅ Repositories initialized successfully")

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zl.Fatal("❌ Failed to create upload directory", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	components, err := app.Build(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("❌ Failed to initialize services", zap.Error(err))
	}

	scoringService := services.NewCVScoringService(jobRepo, components.Parser, components.Orchestrator, zl)
	zl.Info("✅ Scoring service initialized")

	worker := services.NewWorker(scoringService, services.WorkerConfig{
		Concurrency:      cfg.Worker.Concurrency,
		QueueSize:        cfg.Worker.QueueSize,
		ProgressInterval: cfg.Scoring.ProgressInterval,
	}, zl)
	worker.Start(ctx)

	defaultLocale := locale.Parse(cfg.Server.DefaultLocale, locale.Vietnamese)
	scoreHandler := handlers.NewScoreHandler(storageService, worker, cfg.Storage.MaxFileSize, defaultLocale, zl)
	zl.Info("✅ Handlers initialized")

	fiberApp := fiber.New(fiber.Config{
		AppName:      "CV Scoring API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		// leave room for the multipart envelope so oversized files get a 413 from the handler
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language",
	}))

	api := fiberApp.Group("/api/v1")
	handlers.RegisterRoutes(api, scoreHandler)

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CV Scoring API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/cv-score",
				"POST /api/v1/cv-score/demo",
				"GET /api/v1/health",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zl.Info("🛑 Shutting down server...")
		if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
			zl.Error("❌ Server forced to shutdown", zap.Error(err))
		}
		worker.Stop()
		stop()
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zl.Info("🚀 Server starting", zap.String("addr", addr))

	if err := fiberApp.Listen(addr); err != nil {
		zl.Fatal("❌ Failed to start server", zap.Error(err))
	}
}
