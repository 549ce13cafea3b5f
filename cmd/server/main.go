package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/jobportal-backend/internal/config"
	"github.com/ignatzorin/jobportal-backend/internal/db"
	httpHandlers "github.com/ignatzorin/jobportal-backend/internal/http/handlers"
	"github.com/ignatzorin/jobportal-backend/internal/http/middleware"
	httpRouter "github.com/ignatzorin/jobportal-backend/internal/http/router"
	"github.com/ignatzorin/jobportal-backend/internal/logger"
	"github.com/ignatzorin/jobportal-backend/internal/repository"
	"github.com/ignatzorin/jobportal-backend/internal/service"
	"github.com/ignatzorin/jobportal-backend/internal/storage"
	"github.com/ignatzorin/jobportal-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.Env)
	appLog := logger.Component("main")

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		appLog.WithError(err).Fatal("ошибка подключения к базе")
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		appLog.WithError(err).Fatal("ошибка миграций")
	}

	resumes, media, err := openFileStores(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("не удалось подготовить файловое хранилище")
	}

	rateLimitStore, err := middleware.NewRateLimitStore(cfg.RedisURL)
	if err != nil {
		appLog.WithError(err).Fatal("не удалось подготовить хранилище rate limit")
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	mailer := service.NewLogMailer(cfg.MailFrom)
	cache := service.NewCacheService(time.Minute)
	defer cache.Stop()

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	jobRepo := repository.NewJobRepository(dbConn)
	applicationRepo := repository.NewApplicationRepository(dbConn)
	profileRepo := repository.NewProfileRepository(dbConn)
	savedJobRepo := repository.NewSavedJobRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	statsRepo := repository.NewStatsRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager, mailer, cfg.FrontendURL, cfg.ResetTokenTTL)
	notificationService := service.NewNotificationService(notificationRepo, hub)
	jobService := service.NewJobService(jobRepo, cache)
	applicationService := service.NewApplicationService(applicationRepo, jobRepo, userRepo, resumes, mailer, notificationService, cache)
	profileService := service.NewProfileService(profileRepo, media)
	savedJobService := service.NewSavedJobService(savedJobRepo, jobRepo)
	dashboardService := service.NewDashboardService(statsRepo, applicationRepo, jobRepo, cache, cfg.DashboardCacheTTL)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Auth:          httpHandlers.NewAuthHandler(authService),
		Jobs:          httpHandlers.NewJobHandler(jobService),
		SavedJobs:     httpHandlers.NewSavedJobHandler(savedJobService),
		Applications:  httpHandlers.NewApplicationHandler(applicationService),
		Profile:       httpHandlers.NewProfileHandler(profileService),
		Dashboard:     httpHandlers.NewDashboardHandler(dashboardService),
		Notifications: httpHandlers.NewNotificationHandler(notificationService),
		WS:            httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		Health:        httpHandlers.NewHealthHandler(map[string]httpHandlers.Pinger{"database": dbConn}),
	}, tokenManager, rateLimitStore)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("ошибка остановки http сервера")
		}
	}()

	appLog.WithField("port", cfg.HTTPPort).Info("HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLog.WithError(err).Fatal("сервер завершился с ошибкой")
	}
}

// openFileStores возвращает хранилища резюме и изображений профиля.
func openFileStores(ctx context.Context, cfg *config.Config) (storage.FileStore, storage.FileStore, error) {
	if cfg.StorageBackend == config.StorageBackendS3 {
		client, err := storage.NewS3Client(ctx, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewS3Store(client, cfg.S3Bucket, "resumes", cfg.MaxUploadSizeMB),
			storage.NewS3Store(client, cfg.S3Bucket, "media", cfg.MaxUploadSizeMB),
			nil
	}

	resumes, err := storage.NewDiskStore(cfg.ResumeStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		return nil, nil, err
	}
	media, err := storage.NewDiskStore(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		return nil, nil, err
	}
	return resumes, media, nil
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
