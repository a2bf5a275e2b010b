package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MarceloCarneiro100/agenda/internal/models"
	"github.com/MarceloCarneiro100/agenda/internal/repository"
	"github.com/MarceloCarneiro100/agenda/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService registers and authenticates accounts. Validation failures come
// back as violation lists; the error return is reserved for infrastructure
// failures.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.Account, []string, error)
	Authenticate(ctx context.Context, email, password string) (*models.Account, []string, error)
}

type authService struct {
	accounts repository.AccountsRepo
	logger   *zap.Logger
}

func NewAuthService(accounts repository.AccountsRepo, logger *zap.Logger) AuthService {
	return &authService{accounts: accounts, logger: logger}
}

func (s *authService) Register(ctx context.Context, email, password string) (*models.Account, []string, error) {
	email = strings.TrimSpace(email)

	if violations := validation.ValidateCredentials(email, password); len(violations) > 0 {
		return nil, violations, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := s.accounts.Create(ctx, email, string(hash))
	if err != nil {
		// Duplicate email is a user mistake, not a crash.
		if err == repository.ErrDuplicateEmail {
			return nil, []string{validation.MsgDuplicateAccount}, nil
		}
		return nil, nil, err
	}

	s.logger.Info("account registered", zap.String("account_id", account.AccountID))
	return account, nil, nil
}

// Authenticate deliberately answers an unknown email and a wrong password
// with the same generic violation, so responses cannot be used to enumerate
// registered accounts.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*models.Account, []string, error) {
	email = strings.TrimSpace(email)

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, []string{validation.MsgInvalidCredentials}, nil
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, []string{validation.MsgInvalidCredentials}, nil
	}

	return account, nil, nil
}
