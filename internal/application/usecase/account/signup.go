package account

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/haiminh/geoatlas/internal/domain/user"
	"github.com/haiminh/geoatlas/pkg/apperror"
	"github.com/haiminh/geoatlas/pkg/logger"
)

var tracer = otel.Tracer("account_usecase")

type SignupUseCase struct {
	creds    *CredentialStore
	sessions SessionStore
	gate     TransportGate
	logger   logger.Logger
}

func NewSignupUseCase(creds *CredentialStore, sessions SessionStore, gate TransportGate, log logger.Logger) *SignupUseCase {
	return &SignupUseCase{
		creds:    creds,
		sessions: sessions,
		gate:     gate,
		logger:   log,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type SignupOutput struct {
	User         *user.User
	SessionToken string
}

func (uc *SignupUseCase) Execute(ctx context.Context, input SignupInput) (*SignupOutput, error) {

	ctx, span := tracer.Start(ctx, "Signup")
	defer span.End()

	// The channel check comes before any store access: an insecure
	// request must leave no trace.
	if !uc.gate.Secure(ctx) {
		err := apperror.NewInsecureChannel("signup")
		span.RecordError(err)
		return nil, err
	}

	u, err := uc.creds.Create(ctx, CreateInput(input))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.sessions.Create(ctx, u.ID)
	if err != nil {
		uc.logger.Error("Failed to create session after signup", err, zap.String("user_id", u.ID.String()))
		err = apperror.NewInternal("failed to establish session", err)
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &SignupOutput{User: u, SessionToken: token}, nil
}
