package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/parkqr/parking/internal/metrics"
	"github.com/parkqr/parking/internal/repository"
)

const (
	statusStaff    = "Staff parking - valid exemption"
	statusPaid     = "Valid paid parking"
	statusExpired  = "Parking expired"
	statusNotFound = "No valid parking found"
)

// CheckStatus resolves the legality of a plate. An active staff exemption wins
// over any registration, then the paid registration ending last decides
// between paid and expired.
func (s *ParkingStorage) CheckStatus(ctx context.Context, rawPlate string) (*ParkingStatus, error) {
	plate := NormalizePlate(rawPlate)
	now := s.now()
	if plate == "" {
		// Nothing can be registered under an empty plate.
		metrics.StatusChecksTotal.WithLabelValues(VerdictNotFound).Inc()
		return notFoundStatus(), nil
	}

	var (
		exemption *repository.Exemption
		paid      *repository.Registration
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ctx, cancel := s.storeCtx(gctx)
		defer cancel()

		row, err := s.exemptions.FindActive(ctx, plate, now)
		if err != nil && !errors.Is(err, repository.ErrObjectNotFound) {
			return storeError("find active exemption", err)
		}
		exemption = row
		return nil
	})
	g.Go(func() error {
		ctx, cancel := s.storeCtx(gctx)
		defer cancel()

		row, err := s.registrations.LatestPaidByPlate(ctx, plate)
		if err != nil && !errors.Is(err, repository.ErrObjectNotFound) {
			return storeError("find paid registration", err)
		}
		paid = row
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("check_status").Inc()
		return nil, err
	}

	result, err := resolveStatus(exemption, paid, now)
	if err != nil {
		return nil, err
	}
	metrics.StatusChecksTotal.WithLabelValues(result.Type).Inc()
	return result, nil
}

func resolveStatus(exemption *repository.Exemption, paid *repository.Registration, now time.Time) (*ParkingStatus, error) {
	if exemption != nil {
		validUntil := exemption.EndDate
		return &ParkingStatus{
			IsLegal:    true,
			Status:     statusStaff,
			Type:       VerdictStaff,
			ValidUntil: &validUntil,
		}, nil
	}

	if paid != nil {
		amount, err := ParseMoney(paid.Amount)
		if err != nil {
			return nil, storeError("decode registration", fmt.Errorf("registration %s has malformed amount %q", paid.ID, paid.Amount))
		}
		method := paid.PaymentMethod
		if method == "" {
			method = DefaultPaymentMethod
		}
		validUntil := paid.EndTime
		result := &ParkingStatus{
			ValidUntil:    &validUntil,
			Amount:        &amount,
			PaymentMethod: method,
		}
		if paid.EndTime.After(now) {
			result.IsLegal, result.Status, result.Type = true, statusPaid, VerdictPaid
		} else {
			result.IsLegal, result.Status, result.Type = false, statusExpired, VerdictExpired
		}
		return result, nil
	}

	return notFoundStatus(), nil
}

func notFoundStatus() *ParkingStatus {
	return &ParkingStatus{
		IsLegal: false,
		Status:  statusNotFound,
		Type:    VerdictNotFound,
	}
}
