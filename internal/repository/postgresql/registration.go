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

const registrationColumns = `id, license_plate, email, duration_type, amount::text AS amount,
    payment_intent_id, payment_method, status, start_time, end_time, created_at, receipt_sent`

type RegistrationRepo struct {
	db     db.DB
	outbox storage.OutboxTaskRepository
}

func NewRegistrationRepo(db db.DB, outbox storage.OutboxTaskRepository) storage.RegistrationRepository {
	return &RegistrationRepo{db: db, outbox: outbox}
}

func (r *RegistrationRepo) Create(ctx context.Context, reg *repository.Registration) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO parking_registrations (
            id, license_plate, email, duration_type, amount, payment_method,
            status, start_time, end_time, created_at, receipt_sent
        ) VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10, $11)
    `, reg.ID, reg.LicensePlate, reg.Email, reg.DurationType, reg.Amount, reg.PaymentMethod,
		reg.Status, reg.StartTime, reg.EndTime, reg.CreatedAt, reg.ReceiptSent)
	if err != nil {
		return fmt.Errorf("failed to insert registration: %w", err)
	}
	return nil
}

func (r *RegistrationRepo) GetByID(ctx context.Context, id string) (*repository.Registration, error) {
	var reg repository.Registration
	err := r.db.Get(ctx, &reg, "SELECT "+registrationColumns+" FROM parking_registrations WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepo) SetPaymentIntent(ctx context.Context, id, paymentIntentID string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE parking_registrations SET payment_intent_id = $1 WHERE id = $2",
		paymentIntentID, id)
	if err != nil {
		return fmt.Errorf("failed to set payment intent for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *RegistrationRepo) MarkPaid(ctx context.Context, id, paymentIntentID string, event *repository.OutboxTask) (bool, error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	tag, err := tx.Exec(ctx, `
        UPDATE parking_registrations
        SET status = $1, payment_intent_id = $2
        WHERE id = $3 AND status = $4
    `, repository.RegistrationStatusPaid, paymentIntentID, id, repository.RegistrationStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark registration %s paid: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if event != nil {
		if err := r.outbox.CreateTx(ctx, tx, event); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit paid registration %s: %w", id, err)
	}
	return true, nil
}

func (r *RegistrationRepo) List(ctx context.Context, from, to *time.Time) ([]*repository.Registration, error) {
	query := "SELECT " + registrationColumns + " FROM parking_registrations"
	var args []interface{}

	if from != nil && to != nil {
		query += " WHERE start_time >= $1 AND start_time <= $2"
		args = append(args, *from, *to)
	}
	query += " ORDER BY start_time DESC"

	var regs []*repository.Registration
	if err := r.db.Select(ctx, &regs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return regs, nil
}

func (r *RegistrationRepo) LatestPaidByPlate(ctx context.Context, plate string) (*repository.Registration, error) {
	var reg repository.Registration
	err := r.db.Get(ctx, &reg, `
        SELECT `+registrationColumns+`
        FROM parking_registrations
        WHERE license_plate = $1 AND status = $2
        ORDER BY end_time DESC
        LIMIT 1
    `, plate, repository.RegistrationStatusPaid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to find paid registration: %w", err)
	}
	return &reg, nil
}

func (r *RegistrationRepo) MarkReceiptSent(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "UPDATE parking_registrations SET receipt_sent = TRUE WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to mark receipt sent for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}
