// Package memory holds process-local repositories used when no row store is
// configured in development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/parkqr/parking/internal/repository"
)

type RateRepo struct {
	mu    sync.RWMutex
	rates map[string]repository.Rate
}

func NewRateRepo() *RateRepo {
	return &RateRepo{rates: make(map[string]repository.Rate)}
}

func (r *RateRepo) List(_ context.Context) ([]*repository.Rate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*repository.Rate, 0, len(r.rates))
	for _, rate := range r.rates {
		rate := rate
		out = append(out, &rate)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DurationHours < out[j].DurationHours
	})
	return out, nil
}

func (r *RateRepo) Seed(_ context.Context, rates []*repository.Rate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := make(map[string]struct{}, len(r.rates))
	for _, rate := range r.rates {
		existing[rate.DurationType] = struct{}{}
	}
	for _, rate := range rates {
		if _, ok := existing[rate.DurationType]; ok {
			continue
		}
		r.rates[rate.ID] = *rate
		existing[rate.DurationType] = struct{}{}
	}
	return nil
}

func (r *RateRepo) UpdatePrice(_ context.Context, id, price string, updatedAt time.Time) (*repository.Rate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rate, ok := r.rates[id]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	rate.Price = price
	rate.UpdatedAt = updatedAt
	r.rates[id] = rate
	return &rate, nil
}
