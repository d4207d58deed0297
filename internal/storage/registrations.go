package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parkqr/parking/internal/metrics"
	"github.com/parkqr/parking/internal/payment"
	"github.com/parkqr/parking/internal/repository"
)

// CreateRegistration records a pending registration priced from the current
// rate catalog. With an idempotency key, repeated calls return the
// registration created by the first one.
func (s *ParkingStorage) CreateRegistration(ctx context.Context, in NewRegistration) (*ParkingRegistration, error) {
	rate, err := s.GetRateByType(ctx, in.DurationType)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w %q", ErrInvalidDuration, in.DurationType)
		}
		return nil, err
	}

	plate := NormalizePlate(in.LicensePlate)
	if plate == "" {
		return nil, validationError("license plate must contain letters or digits")
	}

	email := strings.TrimSpace(in.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, validationError("invalid email address %q", email)
		}
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		existing, err := s.reserveIdempotencyKey(ctx, in.IdempotencyKey)
		if err != nil || existing != nil {
			return existing, err
		}
	}

	start := s.now()
	row := &repository.Registration{
		ID:            uuid.NewString(),
		LicensePlate:  plate,
		DurationType:  rate.DurationType,
		Amount:        rate.Price.String(),
		PaymentMethod: DefaultPaymentMethod,
		Status:        repository.RegistrationStatusPending,
		StartTime:     start,
		EndTime:       start.Add(time.Duration(rate.DurationHours) * time.Hour),
		CreatedAt:     start,
	}
	if email != "" {
		row.Email = &email
	}

	if err := s.createRegistrationRow(ctx, row); err != nil {
		if in.IdempotencyKey != "" && s.idempotency != nil {
			s.releaseIdempotencyKey(ctx, in.IdempotencyKey)
		}
		return nil, err
	}

	if in.IdempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.Complete(ctx, in.IdempotencyKey, row.ID); err != nil {
			s.logger.Warn("failed to record idempotency key",
				zap.String("registration_id", row.ID), zap.Error(err))
		}
	}

	metrics.RegistrationsCreatedTotal.Inc()
	s.logger.Info("registration created",
		zap.String("registration_id", row.ID),
		zap.String("license_plate", plate),
		zap.String("duration_type", rate.DurationType))

	return toRegistration(row)
}

func (s *ParkingStorage) reserveIdempotencyKey(ctx context.Context, key string) (*ParkingRegistration, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	reserved, registrationID, err := s.idempotency.Reserve(ctx, key)
	if err != nil {
		return nil, storeError("reserve idempotency key", err)
	}
	if reserved {
		return nil, nil
	}
	if registrationID == "" {
		return nil, ErrConflict
	}
	s.logger.Debug("idempotent replay", zap.String("registration_id", registrationID))
	return s.GetRegistration(ctx, registrationID)
}

func (s *ParkingStorage) releaseIdempotencyKey(ctx context.Context, key string) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.idempotency.Release(ctx, key); err != nil {
		s.logger.Warn("failed to release idempotency key", zap.Error(err))
	}
}

func (s *ParkingStorage) createRegistrationRow(ctx context.Context, row *repository.Registration) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.registrations.Create(ctx, row); err != nil {
		return storeError("create registration", err)
	}
	return nil
}

func (s *ParkingStorage) GetRegistration(ctx context.Context, id string) (*ParkingRegistration, error) {
	row, err := s.getRegistrationRow(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRegistration(row)
}

func (s *ParkingStorage) getRegistrationRow(ctx context.Context, id string) (*repository.Registration, error) {
	if strings.TrimSpace(id) == "" {
		return nil, validationError("registration id is required")
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	row, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, fmt.Errorf("registration %s: %w", id, ErrNotFound)
		}
		return nil, storeError("get registration", err)
	}
	return row, nil
}

// CreatePaymentIntent asks the payment processor for an intent covering the
// registration's amount and returns its client secret.
func (s *ParkingStorage) CreatePaymentIntent(ctx context.Context, registrationID string, amount Money) (string, error) {
	row, err := s.getRegistrationRow(ctx, registrationID)
	if err != nil {
		return "", err
	}
	reg, err := toRegistration(row)
	if err != nil {
		return "", err
	}
	if reg.Status == StatusPaid {
		return "", fmt.Errorf("registration %s: %w", reg.ID, ErrAlreadyPaid)
	}
	if !amount.Equal(reg.Amount) {
		return "", validationError("amount %s does not match registration amount %s", amount, reg.Amount)
	}

	intent, err := s.payments.CreateIntent(ctx, payment.CreateIntentParams{
		RegistrationID: reg.ID,
		Amount:         reg.Amount.Decimal(),
		Currency:       s.currency,
		Email:          reg.Email,
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_payment_intent").Inc()
		return "", fmt.Errorf("%w: %w", ErrPaymentProcessor, err)
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	if err := s.registrations.SetPaymentIntent(storeCtx, reg.ID, intent.ID); err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return "", fmt.Errorf("registration %s: %w", reg.ID, ErrNotFound)
		}
		return "", storeError("store payment intent", err)
	}

	s.logger.Info("payment intent attached",
		zap.String("registration_id", reg.ID), zap.String("payment_intent_id", intent.ID))
	return intent.ClientSecret, nil
}

// ConfirmPayment transitions a pending registration to paid. Confirming again
// with the same payment intent returns the paid registration unchanged.
func (s *ParkingStorage) ConfirmPayment(ctx context.Context, registrationID, paymentIntentID string) (*ParkingRegistration, error) {
	paymentIntentID = strings.TrimSpace(paymentIntentID)
	row, err := s.getRegistrationRow(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if paymentIntentID == "" {
		return nil, validationError("payment intent id is required")
	}
	if row.Status == repository.RegistrationStatusPaid {
		return s.alreadyPaid(row, paymentIntentID)
	}

	if err := s.verifyIntent(ctx, row.ID, paymentIntentID); err != nil {
		return nil, err
	}

	paidAt := s.now()
	event, err := s.paidEvent(row, paymentIntentID, paidAt)
	if err != nil {
		return nil, err
	}

	storeCtx, cancel := s.storeCtx(ctx)
	defer cancel()

	updated, err := s.registrations.MarkPaid(storeCtx, row.ID, paymentIntentID, event)
	if err != nil {
		if !updated {
			return nil, storeError("mark registration paid", err)
		}
		s.logger.Warn("registration paid but paid event was not recorded",
			zap.String("registration_id", row.ID), zap.Error(err))
	}
	if !updated {
		// Lost a race with a concurrent confirmation.
		current, err := s.getRegistrationRow(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		return s.alreadyPaid(current, paymentIntentID)
	}

	metrics.PaymentsConfirmedTotal.Inc()
	s.logger.Info("registration paid",
		zap.String("registration_id", row.ID), zap.String("payment_intent_id", paymentIntentID))

	row.Status = repository.RegistrationStatusPaid
	row.PaymentIntentID = &paymentIntentID
	return toRegistration(row)
}

func (s *ParkingStorage) alreadyPaid(row *repository.Registration, paymentIntentID string) (*ParkingRegistration, error) {
	if row.PaymentIntentID != nil && *row.PaymentIntentID == paymentIntentID {
		return toRegistration(row)
	}
	return nil, fmt.Errorf("registration %s: %w", row.ID, ErrAlreadyPaid)
}

func (s *ParkingStorage) verifyIntent(ctx context.Context, registrationID, paymentIntentID string) error {
	intent, err := s.payments.GetIntent(ctx, paymentIntentID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("confirm_payment").Inc()
		return fmt.Errorf("%w: %w", ErrPaymentProcessor, err)
	}
	if intent.Status != payment.StatusSucceeded {
		return fmt.Errorf("%w: payment intent status is %s", ErrPaymentNotConfirmed, intent.Status)
	}
	if owner, ok := intent.Metadata[payment.MetadataRegistrationID]; ok && owner != registrationID {
		return fmt.Errorf("%w: payment intent belongs to another registration", ErrPaymentNotConfirmed)
	}
	return nil
}

func (s *ParkingStorage) paidEvent(row *repository.Registration, paymentIntentID string, paidAt time.Time) (*repository.OutboxTask, error) {
	payload := repository.RegistrationPaidPayload{
		RegistrationID:  row.ID,
		LicensePlate:    row.LicensePlate,
		DurationType:    row.DurationType,
		Amount:          row.Amount,
		PaymentIntentID: paymentIntentID,
		PaymentMethod:   row.PaymentMethod,
		StartTime:       row.StartTime,
		EndTime:         row.EndTime,
		PaidAt:          paidAt,
	}
	if row.Email != nil {
		payload.Email = *row.Email
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode paid event: %w", err)
	}
	return &repository.OutboxTask{
		ID:        uuid.New(),
		Status:    repository.TaskStatusCreated,
		Payload:   raw,
		Topic:     s.paidTopic,
		CreatedAt: paidAt,
		UpdatedAt: paidAt,
	}, nil
}

// ListRegistrations returns registrations newest first. The range filters by
// start time only when both ends are given.
func (s *ParkingStorage) ListRegistrations(ctx context.Context, r DateRange) ([]ParkingRegistration, error) {
	var from, to *time.Time
	if r.From != nil && r.To != nil {
		if r.To.Before(*r.From) {
			return nil, validationError("endDate is before startDate")
		}
		from, to = r.From, r.To
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	rows, err := s.registrations.List(ctx, from, to)
	if err != nil {
		return nil, storeError("list registrations", err)
	}

	out := make([]ParkingRegistration, 0, len(rows))
	for _, row := range rows {
		reg, err := toRegistration(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *reg)
	}
	return out, nil
}

func toRegistration(row *repository.Registration) (*ParkingRegistration, error) {
	amount, err := ParseMoney(row.Amount)
	if err != nil {
		return nil, storeError("decode registration", fmt.Errorf("registration %s has malformed amount %q", row.ID, row.Amount))
	}
	reg := &ParkingRegistration{
		ID:            row.ID,
		LicensePlate:  row.LicensePlate,
		DurationType:  row.DurationType,
		Amount:        amount,
		PaymentMethod: row.PaymentMethod,
		Status:        row.Status,
		StartTime:     row.StartTime,
		EndTime:       row.EndTime,
		CreatedAt:     row.CreatedAt,
		ReceiptSent:   row.ReceiptSent,
	}
	if row.Email != nil {
		reg.Email = *row.Email
	}
	if row.PaymentIntentID != nil {
		reg.PaymentIntentID = *row.PaymentIntentID
	}
	return reg, nil
}
