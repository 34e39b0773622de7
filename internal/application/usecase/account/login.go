package account

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/haiminh/geoatlas/internal/domain/user"
	"github.com/haiminh/geoatlas/pkg/apperror"
	"github.com/haiminh/geoatlas/pkg/logger"
)

type LoginUseCase struct {
	creds    *CredentialStore
	sessions SessionStore
	gate     TransportGate
	logger   logger.Logger
}

func NewLoginUseCase(creds *CredentialStore, sessions SessionStore, gate TransportGate, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		creds:    creds,
		sessions: sessions,
		gate:     gate,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	User         *user.User
	SessionToken string
}

func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {

	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	if !uc.gate.Secure(ctx) {
		err := apperror.NewInsecureChannel("login")
		span.RecordError(err)
		return nil, err
	}

	u, err := uc.creds.VerifyCredentials(ctx, input.Email, input.Password)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.sessions.Create(ctx, u.ID)
	if err != nil {
		uc.logger.Error("Failed to create session", err, zap.String("user_id", u.ID.String()))
		err = apperror.NewInternal("failed to establish session", err)
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &LoginOutput{User: u, SessionToken: token}, nil
}
