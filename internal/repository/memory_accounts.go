package repository

import (
	"context"
	"sync"
	"time"

	"github.com/MarceloCarneiro100/agenda/internal/models"

	"github.com/google/uuid"
)

// MemoryAccountsRepo is an in-memory AccountsRepo for local development and
// tests, keyed by email like the unique constraint of the real table.
type MemoryAccountsRepo struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

func NewMemoryAccountsRepo() *MemoryAccountsRepo {
	return &MemoryAccountsRepo{accounts: map[string]models.Account{}}
}

var _ AccountsRepo = (*MemoryAccountsRepo)(nil)

func (r *MemoryAccountsRepo) Create(_ context.Context, email, passwordHash string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[email]; ok {
		return nil, ErrDuplicateEmail
	}
	a := models.Account{
		AccountID:    uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	r.accounts[email] = a
	return &a, nil
}

func (r *MemoryAccountsRepo) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}
