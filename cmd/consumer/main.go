package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/parkqr/parking/internal/config"
	"github.com/parkqr/parking/internal/db"
	"github.com/parkqr/parking/internal/kafka"
	"github.com/parkqr/parking/internal/logger"
	"github.com/parkqr/parking/internal/receipts"
	"github.com/parkqr/parking/internal/repository/postgresql"
)

// The receipts consumer reads paid registration events and marks receipts as
// issued in the row store.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	l := logger.New(cfg.IsProduction())
	defer func() { _ = l.Sync() }()

	if !cfg.HasKafka() || !cfg.HasDatabase() {
		l.Fatal("receipts consumer needs KAFKA_BROKERS and a database")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	database, err := db.NewDb(ctx, cfg.DSN())
	if err != nil {
		l.Fatal("database init failed", zap.Error(err))
	}
	defer database.Close()

	registrations := postgresql.NewRegistrationRepo(database, postgresql.NewOutboxTaskRepo())
	handler := receipts.NewHandler(registrations, cfg.StoreTimeout, l)

	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.PaymentsTopic, l)
	consumer := kafka.NewConsumer(reader, l)

	l.Info("receipts consumer started",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.PaymentsTopic),
		zap.String("group", cfg.ConsumerGroup))

	if err := consumer.Run(ctx, handler.Handle); err != nil {
		l.Fatal("receipts consumer stopped with error", zap.Error(err))
	}
	l.Info("receipts consumer stopped")
}
