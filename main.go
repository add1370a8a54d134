// main.go
package main

import (
	"context"
	"log"
	"time"

	"flight-booking/cmd"
	"flight-booking/internal/adaptor"
	"flight-booking/internal/cache"
	"flight-booking/internal/data/repository"
	"flight-booking/internal/notify"
	"flight-booking/internal/usecase"
	"flight-booking/internal/wire"
	"flight-booking/pkg/database"
	"flight-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Schema
	if config.Database.MigrationsPath != "" {
		version, err := database.Migrate(config.Database.MigrationsPath, config.Database)
		if err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Migrations applied", zap.Uint("version", version))
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)
	checks := map[string]adaptor.HealthCheck{"database": db.Ping}

	// Optional collaborators; each falls back to a local default
	deps := usecase.Deps{}

	if len(config.Kafka.Brokers) > 0 {
		publisher := notify.NewKafkaPublisher(config.Kafka.Brokers, config.Kafka.NotificationTopic, logger)
		defer publisher.Close()
		deps.Publisher = publisher
		logger.Info("Kafka notifications enabled",
			zap.Strings("brokers", config.Kafka.Brokers),
			zap.String("topic", config.Kafka.NotificationTopic))
	}

	if config.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		client, err := cache.NewRedisClient(ctx, config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		cancel()
		if err != nil {
			logger.Warn("Redis unavailable, dashboard stats are not cached", zap.Error(err))
		} else {
			defer client.Close()
			deps.Stats = cache.NewRedisStatsCache(client, config.Redis.StatsTTL)
			checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
			logger.Info("Redis stats cache enabled", zap.String("addr", config.Redis.Addr))
		}
	}

	// First admin
	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if _, err := usecase.SeedAdmin(seedCtx, repos, config.Seed, logger); err != nil {
		logger.Fatal("Failed to seed admin user", zap.Error(err))
	}
	cancel()

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger, deps, checks)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}
