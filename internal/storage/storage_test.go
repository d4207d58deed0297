package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/parkqr/parking/internal/payment"
	"github.com/parkqr/parking/internal/repository/memory"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	storage       *ParkingStorage
	rates         *memory.RateRepo
	registrations *memory.RegistrationRepo
	exemptions    *memory.ExemptionRepo
	payments      *payment.PlaceholderProcessor
	idempotency   *fakeIdempotency
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		rates:         memory.NewRateRepo(),
		registrations: memory.NewRegistrationRepo(nil),
		exemptions:    memory.NewExemptionRepo(),
		payments:      payment.NewPlaceholderProcessor("gbp", zap.NewNop()),
		idempotency:   newFakeIdempotency(),
	}
	env.storage = NewParkingStorage(env.rates, env.registrations, env.exemptions, env.payments, env.idempotency, Options{
		StoreTimeout: time.Second,
		Logger:       zap.NewNop(),
	})
	env.storage.timeNow = func() time.Time { return fixedNow }
	return env
}

func (e *testEnv) setNow(t time.Time) {
	e.storage.timeNow = func() time.Time { return t }
}

type fakeIdempotency struct {
	mu   sync.Mutex
	keys map[string]string
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{keys: make(map[string]string)}
}

func (f *fakeIdempotency) Reserve(_ context.Context, key string) (bool, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.keys[key]; ok {
		return false, id, nil
	}
	f.keys[key] = ""
	return true, "", nil
}

func (f *fakeIdempotency) Complete(_ context.Context, key, registrationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[key] = registrationID
	return nil
}

func (f *fakeIdempotency) Release(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, key)
	return nil
}
