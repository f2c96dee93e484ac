package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	_ "github.com/lib/pq"

	api "toolrental-backend/internal/api/grpc"
	"toolrental-backend/internal/api/grpc/interceptor"
	httpapi "toolrental-backend/internal/api/http"
	"toolrental-backend/internal/config"
	"toolrental-backend/internal/events"
	"toolrental-backend/internal/jobs"
	"toolrental-backend/internal/logger"
	"toolrental-backend/internal/metrics"
	"toolrental-backend/internal/repository"
	"toolrental-backend/internal/repository/memory"
	"toolrental-backend/internal/repository/postgres"
	rediscache "toolrental-backend/internal/repository/redis"
	"toolrental-backend/internal/scheduler"
	"toolrental-backend/internal/security"
	"toolrental-backend/internal/service"
	"toolrental-backend/internal/utils"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Tool Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "grpc_address", cfg.GetServerAddress(), "http_address", cfg.GetHTTPAddress())

	tools, err := cfg.Tools()
	if err != nil {
		log.Fatalf("Invalid tool catalog: %v", err)
	}

	ctx := context.Background()

	// Initialize Repositories
	var toolRepo repository.ToolRepository
	var rentalRepo repository.RentalRepository
	switch cfg.Storage.Type {
	case "postgres":
		logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")

		store := postgres.NewStore(db)
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		for i := range tools {
			if err := store.ToolRepository.Create(ctx, &tools[i]); err != nil {
				log.Fatalf("Failed to seed tool %s: %v", tools[i].Code, err)
			}
		}
		toolRepo, rentalRepo = store.ToolRepository, store.RentalRepository
	default:
		logger.Info("Using in-memory storage", "tools", len(tools))
		store := memory.NewStore(tools)
		toolRepo, rentalRepo = store.ToolRepository, store.RentalRepository
	}

	// Tool cache
	if cfg.Redis.Enabled {
		cache := rediscache.NewRedisToolCache(cfg.Redis)
		defer cache.Close()
		if err := cache.Ping(ctx); err != nil {
			logger.Warn("Redis unreachable, tool cache will fall through", "address", cfg.GetRedisAddress(), "error", err)
		} else {
			logger.Info("Tool cache enabled", "address", cfg.GetRedisAddress(), "ttl_seconds", cfg.Redis.TTLSeconds)
		}
		toolRepo = rediscache.NewCachedToolRepository(toolRepo, cache)
	}

	// Rental events
	var publisher service.RentalPublisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("Publishing rental events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.RentalsTopic)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize Security
	var tokenManager security.TokenManager
	if cfg.JWT.Secret != "" {
		tokenManager = security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	} else {
		logger.Warn("JWT secret not configured, checkout endpoints are unauthenticated")
	}

	// Initialize Services
	checkoutSvc := service.NewCheckoutService(toolRepo, rentalRepo, utils.NewChargeDayCalculator(utils.USObservedHolidays), publisher, m)
	rentalSvc := service.NewRentalService(toolRepo, rentalRepo, publisher, m)

	// Scheduler
	jobRunner := jobs.NewJobRunner(rentalRepo, publisher, m, cfg)
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Set up gRPC server
	lis, err := net.Listen("tcp", cfg.GetServerAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetServerAddress())
		log.Fatalf("Failed to listen: %v", err)
	}

	authInterceptor := interceptor.NewAuthInterceptor(tokenManager)
	s := grpc.NewServer(
		grpc.UnaryInterceptor(authInterceptor.Unary()),
	)
	api.RegisterCheckoutServiceServer(s, api.NewCheckoutHandler(checkoutSvc, rentalSvc))

	// Register reflection service for grpcurl
	reflection.Register(s)

	// Set up HTTP server
	router := httpapi.NewRouter(
		httpapi.NewHandler(checkoutSvc, rentalSvc),
		tokenManager,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	httpServer := &http.Server{
		Addr:              cfg.GetHTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		logger.Info("gRPC server listening", "address", cfg.GetServerAddress())
		if err := s.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutting down", "signal", fmt.Sprint(sig))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	s.GracefulStop()
	logger.Info("Server stopped")
}
