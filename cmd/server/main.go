package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/stocknest/inventory-service/config"
	"github.com/stocknest/inventory-service/internal/server"
	"github.com/stocknest/inventory-service/pkg/broker"
	"github.com/stocknest/inventory-service/pkg/cache"
	"github.com/stocknest/inventory-service/pkg/database/postgres"
	"github.com/stocknest/inventory-service/pkg/logger"
	"github.com/stocknest/inventory-service/pkg/search"

	alertH "github.com/stocknest/inventory-service/internal/alert/handler"
	alertRepoPkg "github.com/stocknest/inventory-service/internal/alert/repository"
	alertUCPkg "github.com/stocknest/inventory-service/internal/alert/usecase"

	ledgerH "github.com/stocknest/inventory-service/internal/ledger/handler"
	ledgerRepoPkg "github.com/stocknest/inventory-service/internal/ledger/repository"
	ledgerUCPkg "github.com/stocknest/inventory-service/internal/ledger/usecase"

	locationH "github.com/stocknest/inventory-service/internal/location/handler"
	locationRepoPkg "github.com/stocknest/inventory-service/internal/location/repository"
	locationUCPkg "github.com/stocknest/inventory-service/internal/location/usecase"

	productH "github.com/stocknest/inventory-service/internal/product/handler"
	productRepoPkg "github.com/stocknest/inventory-service/internal/product/repository"
	productUCPkg "github.com/stocknest/inventory-service/internal/product/usecase"

	salesH "github.com/stocknest/inventory-service/internal/sales/handler"
	salesListenerPkg "github.com/stocknest/inventory-service/internal/sales/listener"
	salesRepoPkg "github.com/stocknest/inventory-service/internal/sales/repository"
	salesUCPkg "github.com/stocknest/inventory-service/internal/sales/usecase"

	transferH "github.com/stocknest/inventory-service/internal/transfer/handler"
	transferRepoPkg "github.com/stocknest/inventory-service/internal/transfer/repository"
	transferUCPkg "github.com/stocknest/inventory-service/internal/transfer/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 6. Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch, product search falls back to SQL", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 7. Initialize Repositories
	productRepo := productRepoPkg.NewPGRepository(db)
	locationRepo := locationRepoPkg.NewPGRepository(db)
	ledgerRepo := ledgerRepoPkg.NewPGRepository(db)
	alertRepo := alertRepoPkg.NewPGRepository(db)
	transferRepo := transferRepoPkg.NewPGRepository(db)
	salesRepo := salesRepoPkg.NewPGRepository(db)

	// 8. Initialize UseCases
	productUC := productUCPkg.NewProductUseCase(productRepo, redisClient, esClient, appLogger)
	locationUC := locationUCPkg.NewLocationUseCase(locationRepo, appLogger)
	ledgerUC := ledgerUCPkg.NewLedgerUseCase(ledgerRepo, appLogger)
	alertUC := alertUCPkg.NewAlertUseCase(alertRepo, cfg.Alerts.DedupWindow, appLogger)
	transferUC := transferUCPkg.NewTransferUseCase(transferRepo, locationRepo, ledgerUC, appLogger)
	salesUC := salesUCPkg.NewSalesUseCase(salesRepo, productRepo, locationRepo, ledgerUC, alertUC, cfg.Alerts.DefaultReorderPoint, appLogger)

	// 9. Start the order-event listener
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	salesListener := salesListenerPkg.NewSalesListener(kafkaConsumer, salesUC, appLogger)
	go salesListener.Start(ctx)

	// 10. HTTP server
	e := server.NewEcho(appLogger)
	api := e.Group("/api/v1", server.Identity())

	productH.NewProductHandler(productUC, appLogger).RegisterRoutes(api)
	locationH.NewLocationHandler(locationUC, appLogger).RegisterRoutes(api)
	ledgerH.NewLedgerHandler(ledgerUC, appLogger).RegisterRoutes(api)
	alertH.NewAlertHandler(alertUC, appLogger).RegisterRoutes(api)
	transferH.NewTransferHandler(transferUC, appLogger).RegisterRoutes(api)
	salesH.NewSalesHandler(salesUC, appLogger).RegisterRoutes(api)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	go func() {
		if err := e.Start(port); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()
	appLogger.Info("Starting HTTP server", zap.String("port", port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown error", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
