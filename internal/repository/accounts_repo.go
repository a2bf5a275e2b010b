package repository

import (
	"context"
	"errors"

	"github.com/MarceloCarneiro100/agenda/internal/models"
)

// ErrDuplicateEmail means the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// AccountsRepo is the account persistence contract. Password material only
// ever crosses this boundary as a bcrypt hash.
type AccountsRepo interface {
	// Create persists a new account; an already-registered email yields
	// ErrDuplicateEmail.
	Create(ctx context.Context, email, passwordHash string) (*models.Account, error)
	// FindByEmail returns the account or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}
