package account

import (
	"context"
	"errors"

	"github.com/haiminh/geoatlas/internal/domain/user"
	"github.com/haiminh/geoatlas/pkg/apperror"
)

type WhoAmIUseCase struct {
	creds    *CredentialStore
	sessions SessionStore
}

func NewWhoAmIUseCase(creds *CredentialStore, sessions SessionStore) *WhoAmIUseCase {
	return &WhoAmIUseCase{creds: creds, sessions: sessions}
}

// Execute resolves the session token to its user. A missing, unknown or
// expired token fails as not-authenticated; a session pointing at a user
// that no longer exists counts the same.
func (uc *WhoAmIUseCase) Execute(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, apperror.NewNotAuthenticated()
	}

	userID, err := uc.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotAuthenticated()
		}
		return nil, err
	}

	u, err := uc.creds.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotAuthenticated()
		}
		return nil, err
	}
	return u, nil
}
