package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"cinema-reservation/cmd"
	"cinema-reservation/internal/data/repository"
	"cinema-reservation/internal/events"
	"cinema-reservation/internal/wire"
	"cinema-reservation/internal/worker"
	"cinema-reservation/pkg/database"
	"cinema-reservation/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)
	txManager := repository.NewTxManager(db, logger)

	// Room layouts are immutable, so a Redis read-through cache is safe.
	// Without Redis configured, layout reads hit the database directly.
	rooms := repos.Room
	if config.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		defer rdb.Close()
		rooms = repository.NewCachedRoomRepository(repos.Room, rdb, config.Redis.TTL, logger)
		logger.Info("Room layout cache enabled", zap.String("redis_addr", config.Redis.Addr))
	}

	// Event publishing is optional; without a broker the services run with
	// a no-op publisher.
	var publisher events.Publisher = events.NopPublisher{}
	if config.AMQP.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(config.AMQP.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		logger.Info("Event publisher connected")
	}

	// Wire all dependencies
	app := wire.Wiring(repos, txManager, rooms, publisher, config, logger)

	// Background reclaimer: expired locks and timed-out orders
	reclaimer := worker.NewReclaimer(app.Service.SeatLock, app.Service.Order, config, logger)
	go reclaimer.Run(ctx)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
