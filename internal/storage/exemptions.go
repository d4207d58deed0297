package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parkqr/parking/internal/repository"
)

func (s *ParkingStorage) ListExemptions(ctx context.Context) ([]StaffExemption, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	rows, err := s.exemptions.List(ctx)
	if err != nil {
		return nil, storeError("list exemptions", err)
	}
	out := make([]StaffExemption, len(rows))
	for i, row := range rows {
		out[i] = toExemption(row)
	}
	return out, nil
}

func (s *ParkingStorage) CreateExemption(ctx context.Context, in ExemptionInput) (*StaffExemption, error) {
	row := &repository.Exemption{
		ID:           uuid.NewString(),
		LicensePlate: NormalizePlate(in.LicensePlate),
		StaffName:    strings.TrimSpace(in.StaffName),
		StartDate:    in.StartDate.UTC(),
		EndDate:      in.EndDate.UTC(),
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	if in.IsActive != nil {
		row.IsActive = *in.IsActive
	}
	if err := validateExemption(row); err != nil {
		return nil, err
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.exemptions.Create(ctx, row); err != nil {
		return nil, storeError("create exemption", err)
	}
	s.logger.Info("staff exemption created",
		zap.String("exemption_id", row.ID), zap.String("license_plate", row.LicensePlate))

	e := toExemption(row)
	return &e, nil
}

// UpdateExemption applies the non-nil fields of patch.
func (s *ParkingStorage) UpdateExemption(ctx context.Context, id string, patch ExemptionPatch) (*StaffExemption, error) {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	row, err := s.exemptions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, fmt.Errorf("exemption %s: %w", id, ErrNotFound)
		}
		return nil, storeError("get exemption", err)
	}

	if patch.LicensePlate != nil {
		row.LicensePlate = NormalizePlate(*patch.LicensePlate)
	}
	if patch.StaffName != nil {
		row.StaffName = strings.TrimSpace(*patch.StaffName)
	}
	if patch.StartDate != nil {
		row.StartDate = patch.StartDate.UTC()
	}
	if patch.EndDate != nil {
		row.EndDate = patch.EndDate.UTC()
	}
	if patch.IsActive != nil {
		row.IsActive = *patch.IsActive
	}
	if err := validateExemption(row); err != nil {
		return nil, err
	}

	if err := s.exemptions.Update(ctx, row); err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, fmt.Errorf("exemption %s: %w", id, ErrNotFound)
		}
		return nil, storeError("update exemption", err)
	}

	e := toExemption(row)
	return &e, nil
}

func (s *ParkingStorage) DeleteExemption(ctx context.Context, id string) error {
	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.exemptions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return fmt.Errorf("exemption %s: %w", id, ErrNotFound)
		}
		return storeError("delete exemption", err)
	}
	s.logger.Info("staff exemption deleted", zap.String("exemption_id", id))
	return nil
}

func validateExemption(row *repository.Exemption) error {
	if row.LicensePlate == "" {
		return validationError("license plate must contain letters or digits")
	}
	if row.StaffName == "" {
		return validationError("staff name is required")
	}
	if row.StartDate.IsZero() || row.EndDate.IsZero() {
		return validationError("start and end dates are required")
	}
	if !row.StartDate.Before(row.EndDate) {
		return validationError("start date must be before end date")
	}
	return nil
}

func toExemption(row *repository.Exemption) StaffExemption {
	return StaffExemption{
		ID:           row.ID,
		LicensePlate: row.LicensePlate,
		StaffName:    row.StaffName,
		StartDate:    row.StartDate,
		EndDate:      row.EndDate,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt,
	}
}
