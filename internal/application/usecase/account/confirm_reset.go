package account

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/haiminh/geoatlas/internal/domain/user"
	"github.com/haiminh/geoatlas/pkg/apperror"
	"github.com/haiminh/geoatlas/pkg/auth"
	"github.com/haiminh/geoatlas/pkg/logger"
)

type ConfirmResetUseCase struct {
	creds    *CredentialStore
	sessions SessionStore
	gate     TransportGate
	logger   logger.Logger
}

func NewConfirmResetUseCase(creds *CredentialStore, sessions SessionStore, gate TransportGate, log logger.Logger) *ConfirmResetUseCase {
	return &ConfirmResetUseCase{
		creds:    creds,
		sessions: sessions,
		gate:     gate,
		logger:   log,
	}
}

type ConfirmResetInput struct {
	Email       string
	Token       string
	NewPassword string
}

type ConfirmResetOutput struct {
	User         *user.User
	SessionToken string
}

// Execute redeems a reset token: sets the new password and establishes a
// session in one flow. Redemption consumes the pending record, so the same
// token cannot succeed twice.
func (uc *ConfirmResetUseCase) Execute(ctx context.Context, input ConfirmResetInput) (*ConfirmResetOutput, error) {

	ctx, span := tracer.Start(ctx, "ConfirmReset")
	defer span.End()

	if !uc.gate.Secure(ctx) {
		err := apperror.NewInsecureChannel("password reset")
		span.RecordError(err)
		return nil, err
	}

	if input.NewPassword == "" {
		return nil, apperror.NewInvalidInput("new password is required", nil)
	}
	if input.Email == "" || input.Token == "" {
		return nil, apperror.NewInvalidToken("missing email or token")
	}

	u, err := uc.creds.ConsumeResetToken(ctx, input.Email, auth.HashResetToken(input.Token))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if _, err := uc.creds.Update(ctx, u.ID, UpdateInput{Password: &input.NewPassword}); err != nil {
		uc.logger.Error("Failed to set new password after redemption", err, zap.String("user_id", u.ID.String()))
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.sessions.Create(ctx, u.ID)
	if err != nil {
		uc.logger.Error("Failed to create session after reset", err, zap.String("user_id", u.ID.String()))
		err = apperror.NewInternal("failed to establish session", err)
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &ConfirmResetOutput{User: u, SessionToken: token}, nil
}
