package main

import (
	"context"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avast/retry-go"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orbitalis/starbooking/config"
	"github.com/orbitalis/starbooking/internal/bootstrap"
	"github.com/orbitalis/starbooking/internal/cache"
	"github.com/orbitalis/starbooking/internal/catalog"
	"github.com/orbitalis/starbooking/internal/kafka"
	"github.com/orbitalis/starbooking/internal/metrics"
	"github.com/orbitalis/starbooking/internal/repository"
	"github.com/orbitalis/starbooking/internal/service/trips"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := connectPostgres(ctx, cfg)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	metrics.Register()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.BookingsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	cat := catalog.New(rand.New(rand.NewSource(time.Now().UnixNano())))

	bookingRepo := repository.NewBookingRepository(pool)
	cancellationRepo := repository.NewCancellationRepository(pool)
	tripService := trips.NewTripService(
		bookingRepo,
		cancellationRepo,
		cat,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		logger,
		trips.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, cat, tripService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func connectPostgres(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	attempts := cfg.Database.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	var pool *pgxpool.Pool
	err := retry.Do(
		func() error {
			var err error
			pool, err = pgxpool.New(ctx, cfg.Database.DSN())
			if err != nil {
				return err
			}
			return pool.Ping(ctx)
		},
		retry.Attempts(attempts),
		retry.Delay(time.Second),
	)
	return pool, err
}
