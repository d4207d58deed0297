package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parkqr/parking/internal/metrics"
	"github.com/parkqr/parking/internal/repository"
)

type defaultRate struct {
	durationType  string
	price         string
	durationHours int
	description   string
}

var defaultRates = []defaultRate{
	{"1_hour", "2.50", 1, "1 Hour"},
	{"2_hours", "4.00", 2, "2 Hours"},
	{"4_hours", "8.00", 4, "4 Hours"},
	{"8_hours", "15.00", 8, "8 Hours"},
	{"12_hours", "20.00", 12, "12 Hours"},
	{"24_hours", "32.00", 24, "24 Hours"},
}

// DefaultRates returns the six canonical tiers served when the catalog cannot be read.
func DefaultRates() []ParkingRate {
	rates := make([]ParkingRate, len(defaultRates))
	for i, d := range defaultRates {
		rates[i] = ParkingRate{
			ID:            "default-" + d.durationType,
			DurationType:  d.durationType,
			Price:         MustMoney(d.price),
			DurationHours: d.durationHours,
			Description:   d.description,
		}
	}
	return rates
}

// ListRates returns the catalog ordered by duration. An empty catalog is
// seeded first. When the row store fails the defaults are returned with
// Degraded set instead of an error.
func (s *ParkingStorage) ListRates(ctx context.Context) (RateListing, error) {
	rates, err := s.loadRates(ctx)
	if err != nil {
		s.logger.Warn("rate catalog unavailable, serving default rates", zap.Error(err))
		metrics.DegradedResponsesTotal.WithLabelValues("list_rates").Inc()
		return RateListing{Rates: DefaultRates(), Degraded: true}, nil
	}
	return RateListing{Rates: rates}, nil
}

func (s *ParkingStorage) GetRateByType(ctx context.Context, durationType string) (*ParkingRate, error) {
	rates, err := s.loadRates(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rates {
		if rates[i].DurationType == durationType {
			return &rates[i], nil
		}
	}
	return nil, fmt.Errorf("rate %q: %w", durationType, ErrNotFound)
}

func (s *ParkingStorage) UpdateRate(ctx context.Context, id string, price Money) (*ParkingRate, error) {
	if price.IsNegative() {
		return nil, validationError("price must not be negative")
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	row, err := s.rates.UpdatePrice(ctx, id, price.String(), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, fmt.Errorf("rate %s: %w", id, ErrNotFound)
		}
		return nil, storeError("update rate", err)
	}

	rate, err := toRate(row)
	if err != nil {
		return nil, storeError("decode rate", err)
	}
	s.logger.Info("rate updated", zap.String("rate_id", id), zap.String("price", rate.Price.String()))
	return rate, nil
}

// SeedDefaultRates inserts any missing canonical tier.
func (s *ParkingStorage) SeedDefaultRates(ctx context.Context) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	now := s.now()
	rows := make([]*repository.Rate, len(defaultRates))
	for i, d := range defaultRates {
		rows[i] = &repository.Rate{
			ID:            uuid.NewString(),
			DurationType:  d.durationType,
			Price:         d.price,
			DurationHours: d.durationHours,
			Description:   d.description,
			UpdatedAt:     now,
		}
	}
	if err := s.rates.Seed(ctx, rows); err != nil {
		return storeError("seed rates", err)
	}
	return nil
}

func (s *ParkingStorage) loadRates(ctx context.Context) ([]ParkingRate, error) {
	rows, err := s.listRateRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		s.logger.Info("rate catalog is empty, seeding defaults")
		if err := s.SeedDefaultRates(ctx); err != nil {
			return nil, err
		}
		if rows, err = s.listRateRows(ctx); err != nil {
			return nil, err
		}
	}

	rates := make([]ParkingRate, 0, len(rows))
	for _, row := range rows {
		rate, err := toRate(row)
		if err != nil {
			return nil, storeError("decode rate", err)
		}
		rates = append(rates, *rate)
	}
	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].DurationHours < rates[j].DurationHours
	})
	return rates, nil
}

func (s *ParkingStorage) listRateRows(ctx context.Context) ([]*repository.Rate, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	rows, err := s.rates.List(ctx)
	if err != nil {
		return nil, storeError("list rates", err)
	}
	return rows, nil
}

func toRate(row *repository.Rate) (*ParkingRate, error) {
	price, err := ParseMoney(row.Price)
	if err != nil {
		return nil, fmt.Errorf("rate %s has malformed price %q", row.ID, row.Price)
	}
	return &ParkingRate{
		ID:            row.ID,
		DurationType:  row.DurationType,
		Price:         price,
		DurationHours: row.DurationHours,
		Description:   row.Description,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}
