// main.go
package main

import (
	"context"
	"log"
	"time"
	_ "time/tzdata"

	"feline-finder/cmd"
	"feline-finder/internal/data/repository"
	"feline-finder/internal/integration/calendar"
	"feline-finder/internal/integration/notify"
	"feline-finder/internal/lifecycle"
	"feline-finder/internal/wire"
	"feline-finder/internal/worker"
	"feline-finder/pkg/database"
	"feline-finder/pkg/mq"
	"feline-finder/pkg/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"google.golang.org/api/option"
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

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Redis keeps saved view presets
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.PresetDB,
	})
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis not reachable, presets will fail until it is", zap.Error(err))
	}
	cancel()

	// Initialize all repositories
	presetTTL := time.Duration(config.Preset.TTLDays) * 24 * time.Hour
	repos := repository.NewRepository(db, rdb, presetTTL, logger)

	// Side-effect adapters
	cal := newCalendar(config.Calendar, logger)
	notifier, closeNotifier := newNotifier(config.Notify, logger)
	defer closeNotifier()

	// Failed side effects are retried from a separate redis database
	queueRedis := asynq.RedisClientOpt{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.QueueDB,
	}
	queueClient := asynq.NewClient(queueRedis)
	defer queueClient.Close()

	retryQueue := worker.NewRetryQueue(queueClient, config.Retry.MaxAttempts, logger)
	engine := lifecycle.NewEngine(repos.Booking, cal, notifier, retryQueue, logger)

	retryServer := worker.NewRetryServer(worker.RetryServerConfig{
		Redis:       queueRedis,
		Concurrency: config.Retry.Concurrency,
	}, worker.NewRetryHandler(engine, logger), logger)
	if err := retryServer.Start(); err != nil {
		logger.Fatal("Failed to start retry worker", zap.Error(err))
	}

	// Wire all dependencies
	app := wire.Wiring(repos, engine, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger, retryServer.Shutdown); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

func newCalendar(cfg utils.CalendarConfig, logger *zap.Logger) lifecycle.CalendarSyncer {
	if cfg.Provider != "google" {
		logger.Info("Calendar sync disabled, events are only logged")
		return calendar.NewLogSyncer(logger)
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	syncer, err := calendar.NewGoogleSyncer(context.Background(), cfg.CalendarID, logger, opts...)
	if err != nil {
		logger.Fatal("Failed to init Google Calendar", zap.Error(err))
	}
	logger.Info("Google Calendar sync enabled", zap.String("calendar_id", cfg.CalendarID))
	return syncer
}

func newNotifier(cfg utils.NotifyConfig, logger *zap.Logger) (lifecycle.Notifier, func()) {
	if cfg.Provider != "amqp" {
		logger.Info("Notification broker disabled, messages are only logged")
		return notify.NewLogNotifier(logger), func() {}
	}

	pub, err := mq.NewPublisher(cfg.AMQPURL, cfg.Exchange)
	if err != nil {
		logger.Fatal("Failed to connect to message broker", zap.Error(err))
	}
	logger.Info("Notification broker connected", zap.String("exchange", cfg.Exchange))

	return notify.NewBrokerNotifier(pub, logger), func() {
		if err := pub.Close(); err != nil {
			logger.Warn("Failed to close broker connection", zap.Error(err))
		}
	}
}
