package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/payouts-backend/internal/config"
	"github.com/ignatzorin/payouts-backend/internal/db"
	httpHandlers "github.com/ignatzorin/payouts-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/payouts-backend/internal/http/router"
	"github.com/ignatzorin/payouts-backend/internal/logger"
	"github.com/ignatzorin/payouts-backend/internal/repository"
	"github.com/ignatzorin/payouts-backend/internal/service"
	"github.com/ignatzorin/payouts-backend/internal/ws"
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
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Проверка токенов: decode-only верификатор разрешён только вне production.
	var verifier service.TokenVerifier
	if cfg.InsecureAuth {
		verifier = service.NewInsecureTokenVerifier()
	} else {
		verifier = service.NewHMACTokenVerifier(cfg.JWTSecret)
	}

	// Репозитории.
	withdrawalRepo := repository.NewWithdrawalRepository(dbConn)
	eventRepo := repository.NewEventRepository(dbConn)

	// Вебсокеты для push-уведомлений о статусах.
	hub := ws.NewHub()
	go hub.Run()

	// Реконсилятор — единственная точка записи статусов заявок.
	reconciler := service.NewReconciler(cfg.ProviderName, cfg.WebhookSecret, withdrawalRepo, eventRepo)
	reconciler.SetNotifier(hub)

	// Симулятор исходов доставляет подписанные события реконсилятору in-process.
	simulator := service.NewSimulator(service.SimulatorConfig{
		Provider:    cfg.ProviderName,
		Secret:      cfg.WebhookSecret,
		SuccessRate: cfg.SimSuccessRate,
		MinDelay:    cfg.SimMinDelay,
		MaxDelay:    cfg.SimMaxDelay,
		QueueSize:   cfg.SimQueueSize,
		Workers:     cfg.SimWorkers,
	}, reconciler)
	simulator.Start(ctx)

	withdrawalService := service.NewWithdrawalService(withdrawalRepo, simulator)

	// HTTP хэндлеры.
	withdrawalHandler := httpHandlers.NewWithdrawalHandler(withdrawalService)
	webhookHandler := httpHandlers.NewWebhookHandler(cfg.ProviderName, reconciler)
	wsHandler := httpHandlers.NewWSHandler(hub, verifier)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, withdrawalHandler, webhookHandler, wsHandler, healthHandler, verifier)

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
