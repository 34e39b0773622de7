package user

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is one account, unique per normalized email. PasswordHash and Reset
// never leave the process: JSON marshalling skips them and the HTTP layer
// additionally projects through a sanitized DTO.
type User struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Reset        *ResetRecord `json:"-"`
	CreatedAt    time.Time    `json:"-"`
	UpdatedAt    time.Time    `json:"-"`
}

// ResetRecord is the pending password-reset state on a user. Only the hash
// of the emailed token is kept; an expired record counts as absent.
type ResetRecord struct {
	HashedToken string
	Expires     time.Time
}

func (r *ResetRecord) IsExpired(now time.Time) bool {
	return !now.Before(r.Expires)
}

// NormalizeEmail lowercases an address for storage, uniqueness and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Repository interface {
	// Insert persists a new user. A normalized-email collision fails with
	// a conflict error backed by the store's unique index, so concurrent
	// inserts of the same address cannot both succeed.
	Insert(ctx context.Context, u *User) error

	// FindByEmail looks a user up by normalized email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// Update rewrites name, email and password hash. Email collisions fail
	// with the same conflict error as Insert.
	Update(ctx context.Context, u *User) error

	// SetResetToken stores the hashed token and expiry on the user with
	// the given email, replacing any previous pending reset.
	SetResetToken(ctx context.Context, email, hashedToken string, expires time.Time) error

	// ConsumeResetToken atomically clears a pending reset matching both
	// the email and the hashed token and still unexpired, returning the
	// user. The conditional update guarantees a token redeems at most
	// once even under concurrent attempts.
	ConsumeResetToken(ctx context.Context, email, hashedToken string, now time.Time) (*User, error)
}
