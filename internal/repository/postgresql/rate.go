package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/parkqr/parking/internal/db"
	"github.com/parkqr/parking/internal/repository"
	"github.com/parkqr/parking/internal/storage"
)

const rateColumns = "id, duration_type, price::text AS price, duration_hours, description, updated_at"

type RateRepo struct {
	db db.DB
}

func NewRateRepo(db db.DB) storage.RateRepository {
	return &RateRepo{db: db}
}

func (r *RateRepo) List(ctx context.Context) ([]*repository.Rate, error) {
	var rates []*repository.Rate
	err := r.db.Select(ctx, &rates, "SELECT "+rateColumns+" FROM parking_rates ORDER BY duration_hours ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	return rates, nil
}

func (r *RateRepo) Seed(ctx context.Context, rates []*repository.Rate) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, rate := range rates {
		_, err := tx.Exec(ctx, `
            INSERT INTO parking_rates (id, duration_type, price, duration_hours, description, updated_at)
            VALUES ($1, $2, $3::numeric, $4, $5, $6)
            ON CONFLICT (duration_type) DO NOTHING
        `, rate.ID, rate.DurationType, rate.Price, rate.DurationHours, rate.Description, rate.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to seed rate %s: %w", rate.DurationType, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *RateRepo) UpdatePrice(ctx context.Context, id, price string, updatedAt time.Time) (*repository.Rate, error) {
	var rate repository.Rate
	err := r.db.Get(ctx, &rate, `
        UPDATE parking_rates
        SET price = $1::numeric, updated_at = $2
        WHERE id = $3
        RETURNING `+rateColumns, price, updatedAt, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to update rate %s: %w", id, err)
	}
	return &rate, nil
}
