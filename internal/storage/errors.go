package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrInvalidDuration     = fmt.Errorf("%w: invalid duration type", ErrValidation)
	ErrNotFound            = errors.New("not found")
	ErrAlreadyPaid         = errors.New("registration already paid")
	ErrConflict            = errors.New("request with this idempotency key is still in progress")
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")
	ErrPaymentProcessor    = errors.New("payment processor error")
	ErrBackingStore        = errors.New("backing store error")
	ErrBackingStoreTimeout = fmt.Errorf("%w: timeout", ErrBackingStore)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeError classifies a row store failure for operation op.
func storeError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed to %s: %w: %w", op, ErrBackingStoreTimeout, err)
	}
	return fmt.Errorf("failed to %s: %w: %w", op, ErrBackingStore, err)
}
