package memory

import (
	"context"
	"sync"

	"github.com/parkqr/parking/internal/repository"
)

type AdminUserRepo struct {
	mu    sync.RWMutex
	users map[string]repository.AdminUser
}

func NewAdminUserRepo(users ...repository.AdminUser) *AdminUserRepo {
	r := &AdminUserRepo{users: make(map[string]repository.AdminUser, len(users))}
	for _, u := range users {
		r.users[u.Username] = u
	}
	return r
}

func (r *AdminUserRepo) Create(_ context.Context, user *repository.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Username] = *user
	return nil
}

func (r *AdminUserRepo) GetByUsername(_ context.Context, username string) (*repository.AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, repository.ErrObjectNotFound
	}
	return &u, nil
}
