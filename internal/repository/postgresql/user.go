package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/parkqr/parking/internal/db"
	"github.com/parkqr/parking/internal/repository"
	"github.com/parkqr/parking/internal/storage"
)

type AdminUserRepo struct {
	db db.DB
}

func NewAdminUserRepo(db db.DB) storage.AdminUserRepository {
	return &AdminUserRepo{db: db}
}

func (r *AdminUserRepo) Create(ctx context.Context, user *repository.AdminUser) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO admin_users (id, username, password_hash, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
    `, user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert admin user %s: %w", user.Username, err)
	}
	return nil
}

func (r *AdminUserRepo) GetByUsername(ctx context.Context, username string) (*repository.AdminUser, error) {
	var user repository.AdminUser
	err := r.db.Get(ctx, &user, "SELECT * FROM admin_users WHERE username = $1", username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &user, nil
}
