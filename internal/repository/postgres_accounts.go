package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MarceloCarneiro100/agenda/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresAccountsRepo is the Postgres implementation of AccountsRepo.
type PostgresAccountsRepo struct {
	db *sql.DB
}

func NewPostgresAccountsRepo(db *sql.DB) *PostgresAccountsRepo {
	return &PostgresAccountsRepo{db: db}
}

var _ AccountsRepo = (*PostgresAccountsRepo)(nil)

const accountColumns = `account_id::text, email, password_hash, created_at`

func (r *PostgresAccountsRepo) Create(ctx context.Context, email, passwordHash string) (*models.Account, error) {
	query := `
		INSERT INTO accounts (account_id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + accountColumns

	var a models.Account
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), email, passwordHash).Scan(
		&a.AccountID,
		&a.Email,
		&a.PasswordHash,
		&a.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}
	return &a, nil
}

func (r *PostgresAccountsRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	var a models.Account
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&a.AccountID,
		&a.Email,
		&a.PasswordHash,
		&a.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return &a, nil
}
