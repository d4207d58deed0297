package receipts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/parkqr/parking/internal/repository"
)

// ReceiptMarker is satisfied by the registration repositories. A missing
// registration is reported as repository.ErrObjectNotFound.
type ReceiptMarker interface {
	MarkReceiptSent(ctx context.Context, registrationID string) error
}

// Handler issues a receipt for every paid registration event.
type Handler struct {
	marker  ReceiptMarker
	timeout time.Duration
	logger  *zap.Logger
}

// NewHandler bounds each store write by timeout when it is positive.
func NewHandler(marker ReceiptMarker, timeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		marker:  marker,
		timeout: timeout,
		logger:  logger.With(zap.String("component", "receipts")),
	}
}

// Handle is a kafka.MessageHandler. Malformed payloads are logged and skipped.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	var paid repository.RegistrationPaidPayload
	if err := json.Unmarshal(msg.Value, &paid); err != nil || paid.RegistrationID == "" {
		h.logger.Warn("skipping malformed paid event", zap.ByteString("value", msg.Value), zap.Error(err))
		return nil
	}

	log := h.logger.With(zap.String("registration_id", paid.RegistrationID))
	if paid.Email == "" {
		log.Info("no receipt address, nothing to send")
		return nil
	}

	log.Info("receipt issued",
		zap.String("email", paid.Email),
		zap.String("license_plate", paid.LicensePlate),
		zap.String("duration_type", paid.DurationType),
		zap.String("amount", paid.Amount),
		zap.Time("valid_until", paid.EndTime),
	)

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := h.marker.MarkReceiptSent(ctx, paid.RegistrationID); err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			log.Warn("paid registration no longer exists")
			return nil
		}
		return fmt.Errorf("failed to mark receipt sent: %w", err)
	}
	return nil
}
