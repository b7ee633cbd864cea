package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/keraza-portal/keraza-go-api/internal/config"
	"github.com/keraza-portal/keraza-go-api/internal/database"
	"github.com/keraza-portal/keraza-go-api/internal/handler"
	"github.com/keraza-portal/keraza-go-api/internal/middleware"
	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/internal/repository"
	"github.com/keraza-portal/keraza-go-api/internal/router"
	"github.com/keraza-portal/keraza-go-api/internal/service"
	cloud "github.com/keraza-portal/keraza-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	mongoClient, db, err := database.ConnectMongo(cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() {
		if err := database.DisconnectMongo(mongoClient); err != nil {
			logger.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, attendance reports will skip the cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var uploader service.AudioUploader
	if cfg.CloudinaryCloudName != "" {
		cld, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = cld
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db, repository.StudentCollection)
	pendingRepo := repository.NewStudentRepository(db, repository.PendingCollection)
	adminRepo := repository.NewAdminRepository(db)

	contentRepos := make(map[string]repository.ContentRepository, len(models.ContentCollections))
	for _, collection := range models.ContentCollections {
		contentRepos[collection] = repository.NewContentRepository(db, collection)
	}

	studentService := service.NewStudentService(studentRepo, logger)
	pendingService := service.NewStudentService(pendingRepo, logger)
	degreeService := service.NewDegreeService(studentRepo, logger)
	bulkService := service.NewBulkService(studentRepo, logger)
	attendanceService := service.NewAttendanceService(studentRepo, redisClient, cfg.AttendanceCacheTTL, logger)
	contentService := service.NewContentService(contentRepos, uploader, logger)
	idCardService := service.NewIDCardService(studentRepo, logger)
	authService := service.NewAuthService(adminRepo, cfg.JWTSecret, cfg.TokenTTL, logger)

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureBootstrapAdmin(bootstrapCtx, cfg.BootstrapAdminUser, cfg.BootstrapAdminPassword); err != nil {
		log.Fatalf("failed to ensure bootstrap operator: %v", err)
	}
	cancelBootstrap()

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    cfg.UploadMaxMB * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, validate, logger),
		StudentHandler:    handler.NewStudentHandler(studentService, pendingService, validate, logger),
		DegreeHandler:     handler.NewDegreeHandler(degreeService, validate, logger),
		BulkHandler:       handler.NewBulkHandler(bulkService, cfg.UploadMaxMB, logger),
		AttendanceHandler: handler.NewAttendanceHandler(attendanceService, logger),
		ContentHandler:    handler.NewContentHandler(contentService, validate, cfg.UploadMaxMB, logger),
		IDCardHandler:     handler.NewIDCardHandler(idCardService, validate, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
