package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/parkqr/parking/internal/repository"
)

// EventSink receives events recorded alongside a state change.
type EventSink interface {
	Enqueue(ctx context.Context, topic, key string, payload []byte) error
}

type RegistrationRepo struct {
	mu            sync.RWMutex
	registrations map[string]repository.Registration
	events        EventSink
}

// NewRegistrationRepo returns an empty ledger. events may be nil.
func NewRegistrationRepo(events EventSink) *RegistrationRepo {
	return &RegistrationRepo{
		registrations: make(map[string]repository.Registration),
		events:        events,
	}
}

func (r *RegistrationRepo) Create(_ context.Context, reg *repository.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registrations[reg.ID] = cloneRegistration(*reg)
	return nil
}

func (r *RegistrationRepo) GetByID(_ context.Context, id string) (*repository.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.registrations[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	reg = cloneRegistration(reg)
	return &reg, nil
}

func (r *RegistrationRepo) SetPaymentIntent(_ context.Context, id, paymentIntentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.registrations[id]
	if !ok {
		return repository.ErrObjectNotFound
	}
	reg.PaymentIntentID = &paymentIntentID
	r.registrations[id] = reg
	return nil
}

func (r *RegistrationRepo) MarkPaid(ctx context.Context, id, paymentIntentID string, event *repository.OutboxTask) (bool, error) {
	r.mu.Lock()
	reg, ok := r.registrations[id]
	if !ok || reg.Status != repository.RegistrationStatusPending {
		r.mu.Unlock()
		return false, nil
	}
	reg.Status = repository.RegistrationStatusPaid
	reg.PaymentIntentID = &paymentIntentID
	r.registrations[id] = reg
	r.mu.Unlock()

	if event != nil && r.events != nil {
		if err := r.events.Enqueue(ctx, event.Topic, event.ID.String(), event.Payload); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (r *RegistrationRepo) List(_ context.Context, from, to *time.Time) ([]*repository.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*repository.Registration, 0, len(r.registrations))
	for _, reg := range r.registrations {
		if from != nil && to != nil && (reg.StartTime.Before(*from) || reg.StartTime.After(*to)) {
			continue
		}
		reg := cloneRegistration(reg)
		out = append(out, &reg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out, nil
}

func (r *RegistrationRepo) LatestPaidByPlate(_ context.Context, plate string) (*repository.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *repository.Registration
	for _, reg := range r.registrations {
		if reg.LicensePlate != plate || reg.Status != repository.RegistrationStatusPaid {
			continue
		}
		if latest == nil || reg.EndTime.After(latest.EndTime) {
			reg := cloneRegistration(reg)
			latest = &reg
		}
	}
	if latest == nil {
		return nil, repository.ErrObjectNotFound
	}
	return latest, nil
}

func (r *RegistrationRepo) MarkReceiptSent(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.registrations[id]
	if !ok {
		return repository.ErrObjectNotFound
	}
	reg.ReceiptSent = true
	r.registrations[id] = reg
	return nil
}

func cloneRegistration(reg repository.Registration) repository.Registration {
	if reg.Email != nil {
		email := *reg.Email
		reg.Email = &email
	}
	if reg.PaymentIntentID != nil {
		intent := *reg.PaymentIntentID
		reg.PaymentIntentID = &intent
	}
	return reg
}
