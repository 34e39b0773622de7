package account

import (
	"context"
	"errors"

	"github.com/haiminh/geoatlas/pkg/apperror"
	"github.com/haiminh/geoatlas/pkg/logger"
)

type LogoutUseCase struct {
	sessions SessionStore
	logger   logger.Logger
}

func NewLogoutUseCase(sessions SessionStore, log logger.Logger) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions, logger: log}
}

// Execute destroys the session behind the token. Logging out without a
// session, or with one that is already gone, is a no-op success.
func (uc *LogoutUseCase) Execute(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := uc.sessions.Destroy(ctx, token); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		uc.logger.Error("Failed to destroy session", err)
		return apperror.NewInternal("failed to destroy session", err)
	}
	return nil
}
