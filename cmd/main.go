package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/sportleague/league-system/config"
	"github.com/sportleague/league-system/db"
	"github.com/sportleague/league-system/handlers"
	"github.com/sportleague/league-system/live"
	"github.com/sportleague/league-system/middleware"
	"github.com/sportleague/league-system/repositories"
	api "github.com/sportleague/league-system/routes"
	"github.com/sportleague/league-system/services"
	"github.com/sportleague/league-system/storage"
)

const migrationsSource = "file://db/migrations"

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к директории CIMS (общая схема нескольких систем)
	cimsDB, err := db.Connect(cfg.CIMSDatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to CIMS directory database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := cimsDB.Close(); err != nil {
			logger.Error("failed to close CIMS connection", slog.Any("error", err))
		}
	}()

	// Подключение к проектной схеме
	projectDB, err := db.Connect(cfg.ProjectDatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to project database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := projectDB.Close(); err != nil {
			logger.Error("failed to close project connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connections established")

	// Миграции проектной схемы (директорию мигрирует её владелец)
	if err := db.MigrateProject(projectDB, migrationsSource); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Инициализация загрузчика файлов (Cloudflare R2); без настроек R2
	// сервис работает, но загрузка логотипов недоступна
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewR2Uploader(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized")
	} else {
		logger.Warn("R2 is not configured, file uploads are disabled")
	}

	// WebSocket-хаб live-обновлений матчей
	hub := live.NewHub(logger)
	go hub.Run()

	// Репозитории: member смотрит в директорию, остальные — в проектную схему
	memberRepo := repositories.NewPostgresMemberRepository(cimsDB)
	teamRepo := repositories.NewPostgresTeamRepository(projectDB)
	playerRepo := repositories.NewPostgresPlayerRepository(projectDB)
	eventRepo := repositories.NewPostgresEventRepository(projectDB)
	registrationRepo := repositories.NewPostgresRegistrationRepository(projectDB)
	matchRepo := repositories.NewPostgresMatchRepository(projectDB)
	venueRepo := repositories.NewPostgresVenueRepository(projectDB)
	equipmentRepo := repositories.NewPostgresEquipmentRepository(projectDB)

	cimsTx := repositories.NewTxManager(cimsDB)
	projectTx := repositories.NewTxManager(projectDB)

	// Сервисы
	authService := services.NewAuthService(memberRepo, cfg.JWTSecretKey)
	memberService := services.NewMemberService(memberRepo, cimsTx, cfg.GroupID, cfg.DefaultPassword, logger)
	teamService := services.NewTeamService(teamRepo, memberRepo, uploader, logger)
	playerService := services.NewPlayerService(playerRepo, teamRepo, eventRepo, memberRepo, cfg.TeamMaxPlayers, logger)
	eventService := services.NewEventService(eventRepo, registrationRepo, teamRepo, logger)
	matchService := services.NewMatchService(matchRepo, eventRepo, teamRepo, venueRepo, projectTx, hub, logger)
	venueService := services.NewVenueService(venueRepo, uploader)
	equipmentService := services.NewEquipmentService(equipmentRepo, memberRepo, projectTx, logger)

	// HTTP-обработчики
	authHandler := handlers.NewAuthHandler(authService)
	memberHandler := handlers.NewMemberHandler(memberService)
	teamHandler := handlers.NewTeamHandler(teamService, playerService)
	eventHandler := handlers.NewEventHandler(eventService)
	matchHandler := handlers.NewMatchHandler(matchService)
	venueHandler := handlers.NewVenueHandler(venueService)
	equipmentHandler := handlers.NewEquipmentHandler(equipmentService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, logger)

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		authHandler,
		memberHandler,
		teamHandler,
		eventHandler,
		matchHandler,
		venueHandler,
		equipmentHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
