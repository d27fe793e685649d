package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fekuna/stockmanager/config"
	"github.com/fekuna/stockmanager/internal/health"
	"github.com/fekuna/stockmanager/internal/metrics"
	"github.com/fekuna/stockmanager/internal/server"
	"github.com/fekuna/stockmanager/pkg/cache"
	"github.com/fekuna/stockmanager/pkg/database"
	"github.com/fekuna/stockmanager/pkg/logger"

	itemH "github.com/fekuna/stockmanager/internal/item/handler"
	itemRepoPkg "github.com/fekuna/stockmanager/internal/item/repository"
	itemUCPkg "github.com/fekuna/stockmanager/internal/item/usecase"

	prodH "github.com/fekuna/stockmanager/internal/product/handler"
	prodRepoPkg "github.com/fekuna/stockmanager/internal/product/repository"
	prodUCPkg "github.com/fekuna/stockmanager/internal/product/usecase"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}

	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := database.Open(context.Background(), &database.Config{
		Driver:          cfg.Database.Driver,
		SQLitePath:      cfg.Database.SQLitePath,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	// 4. Initialize Repositories
	prodRepo := prodRepoPkg.NewSQLRepository(db)
	itemRepo := itemRepoPkg.NewSQLRepository(db)

	// 5. Initialize Redis (optional product list cache)
	var redisClient *cache.RedisClient
	if cfg.Server.EnableCache {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, product list cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 6. Initialize Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServer(registry)

	// 7. Initialize UseCases
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, redisClient, serverMetrics, appLogger)
	itemUC := itemUCPkg.NewItemUseCase(itemRepo, prodUC, appLogger)

	// 8. Initialize Handlers
	healthServer := health.NewServer(db, appLogger)
	router := server.NewRouter(server.Deps{
		Items:    itemH.NewItemHandler(itemUC, appLogger),
		Products: prodH.NewProductHandler(prodUC, appLogger),
		Health:   healthServer,
		Metrics:  serverMetrics,
		Gatherer: registry,
		Logger:   appLogger,
	})

	// 9. Start HTTP Server
	httpServer := &http.Server{Addr: cfg.Server.HTTPAddr, Handler: router}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", cfg.Server.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 10. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(health.LoggingInterceptor(appLogger)),
	)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
