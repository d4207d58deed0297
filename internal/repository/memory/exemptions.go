package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/parkqr/parking/internal/repository"
)

type ExemptionRepo struct {
	mu         sync.RWMutex
	exemptions map[string]repository.Exemption
}

func NewExemptionRepo() *ExemptionRepo {
	return &ExemptionRepo{exemptions: make(map[string]repository.Exemption)}
}

func (r *ExemptionRepo) Create(_ context.Context, e *repository.Exemption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exemptions[e.ID] = *e
	return nil
}

func (r *ExemptionRepo) GetByID(_ context.Context, id string) (*repository.Exemption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.exemptions[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	return &e, nil
}

func (r *ExemptionRepo) List(_ context.Context) ([]*repository.Exemption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*repository.Exemption, 0, len(r.exemptions))
	for _, e := range r.exemptions {
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

func (r *ExemptionRepo) Update(_ context.Context, e *repository.Exemption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.exemptions[e.ID]; !ok {
		return repository.ErrObjectNotFound
	}
	r.exemptions[e.ID] = *e
	return nil
}

func (r *ExemptionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.exemptions[id]; !ok {
		return repository.ErrObjectNotFound
	}
	delete(r.exemptions, id)
	return nil
}

func (r *ExemptionRepo) FindActive(_ context.Context, plate string, asOf time.Time) (*repository.Exemption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *repository.Exemption
	for _, e := range r.exemptions {
		if e.LicensePlate != plate || !e.IsActive {
			continue
		}
		if !e.StartDate.Before(asOf) || !e.EndDate.After(asOf) {
			continue
		}
		if found == nil || e.EndDate.After(found.EndDate) {
			e := e
			found = &e
		}
	}
	if found == nil {
		return nil, repository.ErrObjectNotFound
	}
	return found, nil
}
