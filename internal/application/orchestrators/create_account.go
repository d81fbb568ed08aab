package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"congrega/internal/domain/account"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email    string
	Password string
	Role     string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteCreateAccount coordinates account creation.
// PRE: Valid email, password >= 12 chars, valid role
// POST: Account created with hashed password
// INVARIANT: Email must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return "", errors.New("email cannot be empty")
	}
	if input.Password == "" {
		return "", errors.New("password cannot be empty")
	}
	if input.Role == "" {
		return "", errors.New("role cannot be empty")
	}

	if _, err := deps.AccountStore.GetByEmail(ctx, email); err == nil {
		return "", ErrEmailAlreadyExists
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		Email:     email,
		Role:      input.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := acct.Validate(); err != nil {
		return "", err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "account_created", "email", email, "role", input.Role)
	return acct.ID, nil
}

// EnsureAdminInput carries the bootstrap admin credentials from configuration.
type EnsureAdminInput struct {
	Email    string
	Password string
}

// ExecuteEnsureAdmin creates the bootstrap admin when no account exists yet.
// Returns true when an account was created.
// POST: at least one account exists if Email and Password are set
func ExecuteEnsureAdmin(ctx context.Context, input EnsureAdminInput, deps CreateAccountDeps) (bool, error) {
	if input.Email == "" || input.Password == "" {
		return false, nil
	}
	n, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:    input.Email,
		Password: input.Password,
		Role:     account.RoleAdmin,
	}, deps); err != nil {
		return false, err
	}
	slog.Info("seed_event", "event", "admin_account_seeded", "email", input.Email)
	return true, nil
}
