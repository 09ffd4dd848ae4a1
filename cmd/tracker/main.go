package main

import (
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/safeyatra/safeyatra/internal/pkg/config"
	"github.com/safeyatra/safeyatra/internal/pkg/database"
	"github.com/safeyatra/safeyatra/internal/pkg/health"
	"github.com/safeyatra/safeyatra/internal/pkg/logger"
	"github.com/safeyatra/safeyatra/internal/pkg/middleware"
	natspkg "github.com/safeyatra/safeyatra/internal/pkg/nats"
	"github.com/safeyatra/safeyatra/internal/pkg/server"
	wspkg "github.com/safeyatra/safeyatra/internal/pkg/websocket"
	"github.com/safeyatra/safeyatra/services/tracking/gateway"
	"github.com/safeyatra/safeyatra/services/tracking/handler"
	httpHandler "github.com/safeyatra/safeyatra/services/tracking/handler/http"
	natsHandler "github.com/safeyatra/safeyatra/services/tracking/handler/nats"
	wsHandler "github.com/safeyatra/safeyatra/services/tracking/handler/websocket"
	"github.com/safeyatra/safeyatra/services/tracking/repository"
	"github.com/safeyatra/safeyatra/services/tracking/usecase"
	"go.uber.org/zap"
)

func main() {
	appName := "tracker-service"
	configPath := os.Getenv("CONFIG_PATH")
	configs := config.InitConfig(configPath)

	zapLogger, err := logger.NewZapLogger(configs.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	zapLogger.Info("Starting application",
		zap.String("app", appName),
		zap.String("version", configs.App.Version),
		zap.String("environment", configs.App.Environment),
	)

	// Initialize PostgreSQL database connection
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer postgresClient.Close()

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize NATS
	natsClient, err := natspkg.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsClient.Close()

	// Initialize repositories
	deviceRepo := repository.NewDeviceRepository(redisClient)
	historyRepo := repository.NewHistoryRepository(postgresClient.GetDB())

	// Initialize gateway
	trackingGW := gateway.NewTrackingGW(natsClient)

	// Initialize use case
	trackingUC := usecase.NewTrackingUC(deviceRepo, historyRepo, trackingGW, configs)

	// Handlers for WebSocket
	manager := wspkg.NewManager(configs.JWT)
	dispatcher := wsHandler.NewDispatcher(trackingUC, manager, configs)

	// Handlers for HTTP
	trackingHandler := httpHandler.NewTrackingHandler(trackingUC, dispatcher)

	// Handlers for NATS
	natsH := natsHandler.NewHandler(dispatcher, natsClient, configs)

	h := handler.NewHandler(trackingHandler, dispatcher, natsH, configs)
	if err := h.InitNATSConsumers(); err != nil {
		zapLogger.Fatal("Failed to initialize NATS consumers", zap.Error(err))
	}

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	health.RegisterHealthEndpoints(e, appName)
	h.RegisterRoutes(e)

	shutdownTimeout := time.Duration(configs.Server.ShutdownTimeout) * time.Second
	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port, shutdownTimeout)
	if err := srv.Start(); err != nil {
		zapLogger.Error("Server exited with error", zap.Error(err))
	}
}
