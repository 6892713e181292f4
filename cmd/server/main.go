package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iconsult/match-backend/internal/config"
	"github.com/iconsult/match-backend/internal/db"
	"github.com/iconsult/match-backend/internal/geocode"
	httpHandlers "github.com/iconsult/match-backend/internal/http/handlers"
	httpRouter "github.com/iconsult/match-backend/internal/http/router"
	"github.com/iconsult/match-backend/internal/logger"
	"github.com/iconsult/match-backend/internal/matching"
	"github.com/iconsult/match-backend/internal/repository"
	"github.com/iconsult/match-backend/internal/service"
	"github.com/iconsult/match-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
	}
	logger.Init(logLevel, cfg.Env)

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	cache := service.NewCacheService()
	geocoder := geocode.NewClient(cfg.GeocodeBaseURL, cfg.GeocodeUserAgent)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	candidateRepo := repository.NewCandidateRepository(dbConn)
	companyRepo := repository.NewCompanyRepository(dbConn)
	listingRepo := repository.NewListingRepository(dbConn)
	skillRepo := repository.NewSkillRepository(dbConn)
	unlockRepo := repository.NewUnlockRepository(dbConn)
	collaborationRepo := repository.NewCollaborationRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	go hub.Run()

	// Сервисы.
	notificationService := service.NewNotificationService(notificationRepo, hub)
	skillService := service.NewSkillService(skillRepo, cache)
	authService := service.NewAuthService(userRepo, candidateRepo, companyRepo, tokenManager)
	collaborationService := service.NewCollaborationService(collaborationRepo, candidateRepo, companyRepo, notificationService)
	candidateService := service.NewCandidateService(candidateRepo, unlockRepo, collaborationService, skillService, geocoder, cache)
	companyService := service.NewCompanyService(companyRepo, geocoder)
	listingService := service.NewListingService(listingRepo, companyRepo, skillService, unlockRepo, geocoder)
	unlockService := service.NewUnlockService(unlockRepo, candidateRepo, listingRepo, companyRepo, notificationService)
	rankingService := service.NewRankingService(candidateRepo, listingRepo, companyRepo, unlockRepo, matching.DefaultWeights(), geocoder, cache)

	var seedService *service.SeedService
	if cfg.Env == "development" {
		seedService = service.NewSeedService(userRepo, candidateRepo, companyRepo, listingRepo, skillService)
	}

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	candidateHandler := httpHandlers.NewCandidateHandler(candidateService, rankingService)
	companyHandler := httpHandlers.NewCompanyHandler(companyService)
	listingHandler := httpHandlers.NewListingHandler(listingService, rankingService)
	skillHandler := httpHandlers.NewSkillHandler(skillService)
	unlockHandler := httpHandlers.NewUnlockHandler(unlockService)
	collaborationHandler := httpHandlers.NewCollaborationHandler(collaborationService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn, hub)

	var seedHandler *httpHandlers.SeedHandler
	if seedService != nil {
		seedHandler = httpHandlers.NewSeedHandler(seedService)
	}

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		candidateHandler,
		companyHandler,
		listingHandler,
		skillHandler,
		unlockHandler,
		collaborationHandler,
		notificationHandler,
		wsHandler,
		healthHandler,
		seedHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
