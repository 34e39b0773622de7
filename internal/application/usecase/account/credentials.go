package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haiminh/geoatlas/internal/domain/user"
	"github.com/haiminh/geoatlas/pkg/apperror"
	"github.com/haiminh/geoatlas/pkg/auth"
	"github.com/haiminh/geoatlas/pkg/logger"
)

// dummyPasswordHash is compared against when a login targets an unknown
// email, so both failure branches pay the bcrypt cost. It is a hash of a
// throwaway string and never matches a submitted password.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CredentialStore owns user records: validation, email normalization,
// password hashing and the reset-token fields. It has no knowledge of
// transport or sessions.
type CredentialStore struct {
	repo   user.Repository
	logger logger.Logger
}

func NewCredentialStore(repo user.Repository, log logger.Logger) *CredentialStore {
	return &CredentialStore{repo: repo, logger: log}
}

type CreateInput struct {
	Name     string
	Email    string
	Password string
}

// Create validates required fields, normalizes the email, hashes the
// password and persists the user. A normalized-email collision surfaces as
// a conflict from the repository's unique index.
func (s *CredentialStore) Create(ctx context.Context, input CreateInput) (*user.User, error) {
	if input.Name == "" {
		return nil, apperror.NewInvalidInput("name is required", nil)
	}
	if input.Email == "" {
		return nil, apperror.NewInvalidInput("email is required", nil)
	}
	if !strings.Contains(input.Email, "@") {
		return nil, apperror.NewInvalidInput("email is malformed", nil)
	}
	if input.Password == "" {
		return nil, apperror.NewInvalidInput("password is required", nil)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        user.NormalizeEmail(input.Email),
		PasswordHash: hash,
	}

	if err := s.repo.Insert(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("User created", zap.String("user_id", u.ID.String()))
	return u, nil
}

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.repo.FindByEmail(ctx, user.NormalizeEmail(email))
}

func (s *CredentialStore) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.repo.FindByID(ctx, id)
}

type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

// Update applies partial changes to a user. The password is re-hashed only
// when a new plaintext is supplied; an email change re-runs the uniqueness
// check through the repository.
func (s *CredentialStore) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*user.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewInvalidInput("name cannot be empty", nil)
		}
		u.Name = *input.Name
	}
	if input.Email != nil {
		if *input.Email == "" {
			return nil, apperror.NewInvalidInput("email cannot be empty", nil)
		}
		u.Email = user.NormalizeEmail(*input.Email)
	}
	if input.Password != nil {
		if *input.Password == "" {
			return nil, apperror.NewInvalidInput("password cannot be empty", nil)
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, apperror.NewInternal("failed to hash password", err)
		}
		u.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// VerifyCredentials checks an email/password pair. Unknown email and wrong
// password return the same external error; the distinction exists only in
// the Details field, which stays in the logs.
func (s *CredentialStore) VerifyCredentials(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.repo.FindByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Burn the same bcrypt cost as the known-email path.
			auth.CheckPasswordHash(password, dummyPasswordHash)
			return nil, apperror.NewUnauthorized("unknown email", nil)
		}
		return nil, err
	}

	if !auth.CheckPasswordHash(password, u.PasswordHash) {
		return nil, apperror.NewUnauthorized("password mismatch", nil)
	}
	return u, nil
}

// SetResetToken stores a hashed reset token with its expiry, superseding
// any pending reset on the account.
func (s *CredentialStore) SetResetToken(ctx context.Context, email, hashedToken string, expires time.Time) error {
	return s.repo.SetResetToken(ctx, user.NormalizeEmail(email), hashedToken, expires)
}

// ConsumeResetToken redeems a pending reset: the email must match, the
// hash must match and the record must be unexpired. The repository clears
// the record in the same atomic operation, so a token redeems at most once.
func (s *CredentialStore) ConsumeResetToken(ctx context.Context, email, hashedToken string) (*user.User, error) {
	u, err := s.repo.ConsumeResetToken(ctx, user.NormalizeEmail(email), hashedToken, time.Now())
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewInvalidToken("no matching pending reset")
		}
		return nil, err
	}
	return u, nil
}
