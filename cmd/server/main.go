package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"booking-flow/internal/auth"
	"booking-flow/internal/configs"
	"booking-flow/internal/draft"
	httpdelivery "booking-flow/internal/delivery/http"
	"booking-flow/internal/delivery/kafka"
	"booking-flow/internal/repository"
	"booking-flow/internal/repository/cache"
	"booking-flow/internal/repository/postgres"
	"booking-flow/internal/service"
	"booking-flow/internal/validation"
)

// @title booking flow service
// @version 1.0
// @description Multi-step booking flows with validation gates, quotes and an idempotent booking sink fed over HTTP and Kafka.

// @host localhost:8081
// @basePath /

func main() {
	_ = godotenv.Load()
	cfg, err := configs.LoadConfig()
	if err != nil {
		logrus.Fatalf("config load: %s", err)
	}
	logrus.Print("config parsed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Open(cfg.PgDSN())
	if err != nil {
		logrus.Fatalf("postgres connect: %s", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logrus.Errorf("db close: %v", err)
		}
	}()
	logrus.Print("connected to postgres")

	confirmations := cache.NewCache(cache.WithTTL(cfg.IdempotencyTTL))
	defer confirmations.Close()
	sessions := cache.NewShardedCache(cache.WithShardTTL(cfg.SessionTTL))
	defer sessions.Close()
	attempts := cache.NewCache(cache.WithTTL(cfg.AuthWindow))
	defer attempts.Close()

	repo := repository.NewRepository(db,
		repository.WithConfirmationStore(confirmations),
		repository.WithSessionStore(sessions),
	)
	gate := validation.NewGate()

	authSvc := auth.NewService(repo.Accounts, gate, cache.NewAttemptCounter(attempts, cfg.AuthMaxAttempts))

	events := kafka.NewPublisher(cfg.KafkaBrokersSlice(), cfg.KafkaEventsTopic)
	defer func() {
		if err := events.Close(); err != nil {
			logrus.Errorf("events publisher close: %v", err)
		}
	}()

	svc := service.NewService(repo, gate,
		service.WithRates(cfg.Rates()),
		service.WithProgressRange(draft.Range{Min: cfg.ProgressMin, Max: cfg.ProgressMax}),
		service.WithEvents(events),
		service.WithProfiles(authSvc),
		service.WithSubmitTimeout(cfg.SubmitTimeout),
		service.WithWarmLimit(cfg.CacheWarmLimit),
	)

	if err := svc.PutBookingsFromDbToCache(); err != nil {
		logrus.Fatalf("warm cache: %s", err)
	}
	logrus.Print("idempotency cache warmed from db")

	consumer := kafka.NewConsumer(kafka.Config{
		Brokers:     cfg.KafkaBrokersSlice(),
		GroupID:     cfg.KafkaGroupID,
		Topic:       cfg.KafkaTopic,
		DLQ:         cfg.KafkaDLQ,
		MaxRetries:  cfg.KafkaMaxRetries,
		BaseBackoff: cfg.KafkaBaseBackoff,
	}, svc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Subscribe(ctx); err != nil {
			logrus.Errorf("consumer stopped: %v", err)
			cancel()
		}
	}()
	logrus.Print("kafka subscription started")

	h := httpdelivery.NewHandler(svc, authSvc)
	srv := new(httpdelivery.Server)

	go func() {
		if err := srv.Run(cfg.HTTPAddr, h.InitRoutes()); err != nil {
			logrus.Errorf("http run: %v", err)
			cancel()
		}
	}()
	logrus.Printf("http server started on %s", cfg.HTTPAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
		logrus.Print("shutdown signal received")
	case <-ctx.Done():
		logrus.Print("context canceled, shutting down")
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("http shutdown: %s", err)
	}

	cancel()
	wg.Wait()
	if err := consumer.Close(); err != nil {
		logrus.Errorf("consumer close: %s", err)
	}
	logrus.Print("service stopped")
}
