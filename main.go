// main.go
package main

import (
	"context"
	"log"
	"time"

	"cinema-reservation/cmd"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/event"
	"cinema-reservation/internal/wire"
	"cinema-reservation/pkg/cache"
	"cinema-reservation/pkg/database"
	"cinema-reservation/pkg/telemetry"
	"cinema-reservation/pkg/utils"

	"go.uber.org/zap"
)

const sessionCleanupInterval = time.Hour

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracer, err := telemetry.InitTracer(ctx, config.Telemetry, logger)
	if err != nil {
		logger.Fatal("Failed to init tracing", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	if config.Database.AutoMigrate {
		if err := database.RunMigrations(config.Database.DSN(), config.Database.MigrationsPath); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Info("Database migrations applied")
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	rdb, err := cache.NewRedisClient(config.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	publisher, err := event.NewPublisher(config.RabbitMQ.URL, config.RabbitMQ.Exchange, logger)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer publisher.Close()

	if config.RabbitMQ.ConsumerEnabled && config.RabbitMQ.URL != "" {
		consumer := event.NewConsumer(config.RabbitMQ.URL, config.RabbitMQ.Exchange, config.RabbitMQ.ConsumerQueue, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("Notification consumer stopped", zap.Error(err))
			}
		}()
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)
	go cleanSessions(ctx, repos.Session, logger)

	// Wire all dependencies
	app := wire.Wiring(wire.Deps{
		DB:     db,
		Repo:   repos,
		Redis:  rdb,
		Events: publisher,
		Config: config,
		Logger: logger,
	})

	if err := cmd.APIServer(app.Router, config.App.Port, config.App.ShutdownTimeout, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
	}
}

// cleanSessions hapus session expired secara berkala
func cleanSessions(ctx context.Context, sessions repository.SessionRepository, logger *zap.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sessions.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Warn("Failed to clean expired sessions", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("Expired sessions cleaned", zap.Int64("removed", removed))
			}
		}
	}
}
