package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/parkqr/parking/internal/repository"
	"github.com/parkqr/parking/internal/storage"
)

// Authenticator checks admin credentials against bcrypt hashes.
type Authenticator struct {
	users storage.AdminUserRepository
}

func NewAuthenticator(users storage.AdminUserRepository) *Authenticator {
	return &Authenticator{users: users}
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// ValidateUser reports whether the password matches. Unknown users are not an error.
func (a *Authenticator) ValidateUser(ctx context.Context, username, password string) (bool, error) {
	user, err := a.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

func (a *Authenticator) CreateUser(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username must not be empty")
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	return a.users.Create(ctx, &repository.AdminUser{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	})
}

// EnsureUser creates username with an already hashed password unless the
// account exists. It reports whether a user was created.
func (a *Authenticator) EnsureUser(ctx context.Context, username, passwordHash string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || passwordHash == "" {
		return false, errors.New("username and password hash must not be empty")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return false, fmt.Errorf("password hash is not a bcrypt hash: %w", err)
	}

	_, err := a.users.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrObjectNotFound) {
		return false, fmt.Errorf("failed to load admin user: %w", err)
	}

	err = a.users.Create(ctx, &repository.AdminUser{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
