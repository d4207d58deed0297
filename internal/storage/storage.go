package storage

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultStoreTimeout = 5 * time.Second

type Options struct {
	// StoreTimeout bounds every row store call.
	StoreTimeout time.Duration
	Currency     string
	PaidTopic    string
	Pinger       Pinger
	Logger       *zap.Logger
}

// ParkingStorage implements the rate catalog, registration ledger, staff
// exemption list and status resolver on top of the row store repositories.
type ParkingStorage struct {
	rates         RateRepository
	registrations RegistrationRepository
	exemptions    ExemptionRepository
	payments      PaymentProcessor
	idempotency   IdempotencyStore
	pinger        Pinger

	storeTimeout time.Duration
	currency     string
	paidTopic    string
	logger       *zap.Logger
	timeNow      func() time.Time
}

func NewParkingStorage(
	rates RateRepository,
	registrations RegistrationRepository,
	exemptions ExemptionRepository,
	payments PaymentProcessor,
	idempotency IdempotencyStore,
	opts Options,
) *ParkingStorage {
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Currency == "" {
		opts.Currency = "gbp"
	}
	if opts.PaidTopic == "" {
		opts.PaidTopic = "parking.registration.paid"
	}
	return &ParkingStorage{
		rates:         rates,
		registrations: registrations,
		exemptions:    exemptions,
		payments:      payments,
		idempotency:   idempotency,
		pinger:        opts.Pinger,
		storeTimeout:  opts.StoreTimeout,
		currency:      opts.Currency,
		paidTopic:     opts.PaidTopic,
		logger:        opts.Logger.With(zap.String("component", "storage")),
		timeNow:       time.Now,
	}
}

func (s *ParkingStorage) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

func (s *ParkingStorage) now() time.Time {
	return s.timeNow().UTC()
}

// Ping checks that the row store is reachable.
func (s *ParkingStorage) Ping(ctx context.Context) error {
	if s.pinger == nil {
		return nil
	}
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.pinger.Ping(ctx); err != nil {
		return storeError("ping row store", err)
	}
	return nil
}
