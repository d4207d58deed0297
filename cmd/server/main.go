package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/parkqr/parking/internal/auth"
	"github.com/parkqr/parking/internal/config"
	"github.com/parkqr/parking/internal/db"
	"github.com/parkqr/parking/internal/grpcserver"
	"github.com/parkqr/parking/internal/idempotency"
	"github.com/parkqr/parking/internal/kafka"
	"github.com/parkqr/parking/internal/logger"
	"github.com/parkqr/parking/internal/payment"
	"github.com/parkqr/parking/internal/repository"
	"github.com/parkqr/parking/internal/repository/memory"
	"github.com/parkqr/parking/internal/repository/postgresql"
	"github.com/parkqr/parking/internal/server"
	"github.com/parkqr/parking/internal/storage"
)

const healthProbeInterval = 10 * time.Second

type backend struct {
	rates         storage.RateRepository
	registrations storage.RegistrationRepository
	exemptions    storage.ExemptionRepository
	users         storage.AdminUserRepository
	pinger        storage.Pinger
	events        server.AuditSink
	publisher     *kafka.Publisher
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	l := logger.New(cfg.IsProduction())
	defer func() { _ = l.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, l); err != nil {
		l.Fatal("parking service stopped with error", zap.Error(err))
	}
	l.Info("parking service stopped")
}

func run(ctx context.Context, cfg *config.Config, l *zap.Logger) error {
	producer := newProducer(cfg, l)
	closeProducer := func() {
		if err := producer.Close(); err != nil {
			l.Error("failed to close producer", zap.Error(err))
		}
	}

	var (
		be  *backend
		err error
	)
	if cfg.HasDatabase() {
		be, err = postgresBackend(ctx, cfg, producer, l)
	} else {
		be, err = memoryBackend(cfg, producer, l)
	}
	if err != nil {
		closeProducer()
		return err
	}
	defer be.close()
	// The publisher closes the producer on shutdown.
	if be.publisher == nil {
		defer closeProducer()
	}

	idem, closeIdem, err := newIdempotencyStore(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer closeIdem()

	st := storage.NewParkingStorage(be.rates, be.registrations, be.exemptions, newPaymentProcessor(cfg, l), idem, storage.Options{
		StoreTimeout: cfg.StoreTimeout,
		Currency:     cfg.StripeCurrency,
		PaidTopic:    cfg.PaymentsTopic,
		Pinger:       be.pinger,
		Logger:       l,
	})

	authenticator := auth.NewAuthenticator(be.users)
	if cfg.HasDatabase() && cfg.AdminUsername != "" && cfg.AdminPasswordHash != "" {
		created, err := authenticator.EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPasswordHash)
		if err != nil {
			return err
		}
		if created {
			l.Info("admin user created", zap.String("username", cfg.AdminUsername))
		}
	}

	srv := server.New(st, authenticator, auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL), server.Options{
		PublicBaseURL: cfg.PublicBaseURL,
		Production:    cfg.IsProduction(),
		AuditTopic:    cfg.AuditTopic,
		AuditSink:     be.events,
		Logger:        l,
	})
	health := grpcserver.NewHealthServer(st, healthProbeInterval, l)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, cfg.HTTPPort)
	})
	g.Go(func() error {
		return health.Run(gctx, cfg.GRPCPort)
	})
	if be.publisher != nil {
		g.Go(func() error {
			be.publisher.Run(gctx)
			be.publisher.Shutdown()
			return nil
		})
	}

	l.Info("parking service started",
		zap.String("env", cfg.Env),
		zap.Bool("postgres", cfg.HasDatabase()),
		zap.Bool("stripe", cfg.HasStripe()),
		zap.Bool("kafka", cfg.HasKafka()),
		zap.Bool("redis", cfg.RedisURL != ""))

	return g.Wait()
}

func postgresBackend(ctx context.Context, cfg *config.Config, producer kafka.Producer, l *zap.Logger) (*backend, error) {
	if err := db.MigrateUp(cfg.MigrationURL()); err != nil {
		return nil, err
	}
	database, err := db.NewDb(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}

	outbox := postgresql.NewOutboxTaskRepo()
	return &backend{
		rates:         postgresql.NewRateRepo(database),
		registrations: postgresql.NewRegistrationRepo(database, outbox),
		exemptions:    postgresql.NewExemptionRepo(database),
		users:         postgresql.NewAdminUserRepo(database),
		pinger:        database,
		events:        kafka.NewOutboxEnqueuer(database, outbox),
		publisher: kafka.NewPublisher(database, outbox, producer, kafka.PublisherConfig{
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    cfg.OutboxBatchSize,
			MaxAttempts:  cfg.OutboxMaxAttempts,
			Lease:        cfg.OutboxLease,
		}, l),
		close: database.Close,
	}, nil
}

func memoryBackend(cfg *config.Config, producer kafka.Producer, l *zap.Logger) (*backend, error) {
	l.Warn("no database configured, state is kept in memory and lost on restart")

	var admins []repository.AdminUser
	if cfg.AdminUsername != "" && cfg.AdminPasswordHash != "" {
		admins = append(admins, repository.AdminUser{
			ID:           "admin",
			Username:     cfg.AdminUsername,
			PasswordHash: cfg.AdminPasswordHash,
			CreatedAt:    time.Now().UTC(),
		})
	} else {
		l.Warn("ADMIN_USERNAME/ADMIN_PASSWORD_HASH not set, admin login is disabled")
	}

	events := kafka.NewDirectEnqueuer(producer)
	return &backend{
		rates:         memory.NewRateRepo(),
		registrations: memory.NewRegistrationRepo(events),
		exemptions:    memory.NewExemptionRepo(),
		users:         memory.NewAdminUserRepo(admins...),
		events:        events,
		close:         func() {},
	}, nil
}

func newProducer(cfg *config.Config, l *zap.Logger) kafka.Producer {
	if cfg.HasKafka() {
		return kafka.NewKafkaProducer(cfg.KafkaBrokers, l)
	}
	l.Warn("KAFKA_BROKERS not set, events are written to the log")
	return kafka.NewConsoleProducer(l)
}

func newPaymentProcessor(cfg *config.Config, l *zap.Logger) storage.PaymentProcessor {
	if cfg.HasStripe() {
		return payment.NewStripeProcessor(cfg.StripeSecretKey, cfg.StripeCurrency, cfg.PaymentTimeout, l)
	}
	l.Warn("STRIPE_SECRET_KEY not set, using placeholder payment processor")
	return payment.NewPlaceholderProcessor(cfg.StripeCurrency, l)
}

func newIdempotencyStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (storage.IdempotencyStore, func(), error) {
	if cfg.RedisURL == "" {
		return idempotency.NewMemoryStore(cfg.IdempotencyTTL), func() {}, nil
	}
	client, err := idempotency.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return idempotency.NewRedisStore(client, cfg.IdempotencyTTL), func() {
		if err := client.Close(); err != nil {
			l.Error("failed to close redis client", zap.Error(err))
		}
	}, nil
}
