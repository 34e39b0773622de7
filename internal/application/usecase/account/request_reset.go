package account

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/haiminh/geoatlas/pkg/apperror"
	"github.com/haiminh/geoatlas/pkg/auth"
	"github.com/haiminh/geoatlas/pkg/logger"
)

type RequestResetUseCase struct {
	creds    *CredentialStore
	mailer   ResetMailer
	codec    *auth.ResetCodec
	resetTTL time.Duration
	logger   logger.Logger
}

func NewRequestResetUseCase(creds *CredentialStore, mailer ResetMailer, codec *auth.ResetCodec, resetTTL time.Duration, log logger.Logger) *RequestResetUseCase {
	return &RequestResetUseCase{
		creds:    creds,
		mailer:   mailer,
		codec:    codec,
		resetTTL: resetTTL,
		logger:   log,
	}
}

// Execute issues a reset token for a known email and hands the serialized
// reset string to the mail collaborator. An unknown email returns the same
// nil as a known one; the caller cannot tell which accounts exist. This
// operation does not itself change the password, so it carries no secure
// channel requirement.
func (uc *RequestResetUseCase) Execute(ctx context.Context, email string) error {

	ctx, span := tracer.Start(ctx, "RequestReset")
	defer span.End()

	token, err := auth.GenerateResetToken()
	if err != nil {
		err = apperror.NewInternal("failed to generate reset token", err)
		span.RecordError(err)
		return err
	}

	expires := time.Now().Add(uc.resetTTL)
	if err := uc.creds.SetResetToken(ctx, email, auth.HashResetToken(token), expires); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Same outward success as the known-email path.
			uc.logger.Debug("Reset requested for unknown email")
			return nil
		}
		span.RecordError(err)
		return err
	}

	resetString, err := uc.codec.Serialize(email, token)
	if err != nil {
		err = apperror.NewInternal("failed to serialize reset info", err)
		span.RecordError(err)
		return err
	}

	if err := uc.mailer.SendReset(ctx, email, resetString); err != nil {
		uc.logger.Error("Failed to hand reset mail to delivery", err, zap.String("email", email))
		err = apperror.NewInternal("failed to queue reset mail", err)
		span.RecordError(err)
		return err
	}

	return nil
}
