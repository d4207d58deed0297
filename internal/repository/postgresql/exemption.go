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

type ExemptionRepo struct {
	db db.DB
}

func NewExemptionRepo(db db.DB) storage.ExemptionRepository {
	return &ExemptionRepo{db: db}
}

func (r *ExemptionRepo) Create(ctx context.Context, e *repository.Exemption) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO staff_exemptions (id, license_plate, staff_name, start_date, end_date, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, e.ID, e.LicensePlate, e.StaffName, e.StartDate, e.EndDate, e.IsActive, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert exemption: %w", err)
	}
	return nil
}

func (r *ExemptionRepo) GetByID(ctx context.Context, id string) (*repository.Exemption, error) {
	var e repository.Exemption
	err := r.db.Get(ctx, &e, "SELECT * FROM staff_exemptions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *ExemptionRepo) List(ctx context.Context) ([]*repository.Exemption, error) {
	var exemptions []*repository.Exemption
	if err := r.db.Select(ctx, &exemptions, "SELECT * FROM staff_exemptions ORDER BY start_date ASC"); err != nil {
		return nil, fmt.Errorf("failed to list exemptions: %w", err)
	}
	return exemptions, nil
}

func (r *ExemptionRepo) Update(ctx context.Context, e *repository.Exemption) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE staff_exemptions
        SET
            license_plate = $1,
            staff_name = $2,
            start_date = $3,
            end_date = $4,
            is_active = $5
        WHERE id = $6
    `, e.LicensePlate, e.StaffName, e.StartDate, e.EndDate, e.IsActive, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update exemption %s: %w", e.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *ExemptionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM staff_exemptions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete exemption %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *ExemptionRepo) FindActive(ctx context.Context, plate string, asOf time.Time) (*repository.Exemption, error) {
	var e repository.Exemption
	err := r.db.Get(ctx, &e, `
        SELECT * FROM staff_exemptions
        WHERE license_plate = $1
          AND is_active
          AND start_date < $2
          AND end_date > $2
        ORDER BY end_date DESC
        LIMIT 1
    `, plate, asOf)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to find active exemption: %w", err)
	}
	return &e, nil
}
