//go:generate mockgen -source ./repositories.go -destination=./mocks/repositories.go -package=mock_storage
package storage

import (
	"context"
	"time"

	"github.com/parkqr/parking/internal/payment"
	"github.com/parkqr/parking/internal/repository"
)

type RateRepository interface {
	// List returns all rates ordered by duration_hours ascending.
	List(ctx context.Context) ([]*repository.Rate, error)
	// Seed inserts rates whose duration type is not present yet.
	Seed(ctx context.Context, rates []*repository.Rate) error
	UpdatePrice(ctx context.Context, id, price string, updatedAt time.Time) (*repository.Rate, error)
}

type RegistrationRepository interface {
	Create(ctx context.Context, reg *repository.Registration) error
	GetByID(ctx context.Context, id string) (*repository.Registration, error)
	SetPaymentIntent(ctx context.Context, id, paymentIntentID string) error
	// MarkPaid moves a pending registration to paid and records event alongside it.
	// It reports false when the registration was not pending. An error with
	// true means the registration is paid but the event was not recorded.
	MarkPaid(ctx context.Context, id, paymentIntentID string, event *repository.OutboxTask) (bool, error)
	// List returns registrations newest first, filtered by start time when from and to are set.
	List(ctx context.Context, from, to *time.Time) ([]*repository.Registration, error)
	// LatestPaidByPlate returns the paid registration with the latest end time.
	LatestPaidByPlate(ctx context.Context, plate string) (*repository.Registration, error)
	MarkReceiptSent(ctx context.Context, id string) error
}

type ExemptionRepository interface {
	Create(ctx context.Context, e *repository.Exemption) error
	GetByID(ctx context.Context, id string) (*repository.Exemption, error)
	// List returns exemptions ordered by start date ascending.
	List(ctx context.Context) ([]*repository.Exemption, error)
	Update(ctx context.Context, e *repository.Exemption) error
	Delete(ctx context.Context, id string) error
	// FindActive returns the active exemption covering asOf with the latest end date.
	FindActive(ctx context.Context, plate string, asOf time.Time) (*repository.Exemption, error)
}

type AdminUserRepository interface {
	Create(ctx context.Context, user *repository.AdminUser) error
	GetByUsername(ctx context.Context, username string) (*repository.AdminUser, error)
}

type PaymentProcessor interface {
	CreateIntent(ctx context.Context, params payment.CreateIntentParams) (*payment.Intent, error)
	GetIntent(ctx context.Context, intentID string) (*payment.Intent, error)
}

type IdempotencyStore interface {
	// Reserve claims key for a new registration. When the key is already
	// claimed it returns reserved=false and the registration id recorded
	// under it, which is empty while the first request is still running.
	Reserve(ctx context.Context, key string) (reserved bool, registrationID string, err error)
	Complete(ctx context.Context, key, registrationID string) error
	Release(ctx context.Context, key string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}
