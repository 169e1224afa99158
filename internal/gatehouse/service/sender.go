package service

import (
	"context"
	"log/slog"

	"github.com/arborlabs/gatehouse/internal/gatehouse/domain"
	"github.com/arborlabs/gatehouse/pkg/slogx"
)

// CodeSender delivers a 2FA challenge to the account holder. Delivery
// failures surface as errors so the caller can roll back the pending
// challenge.
type CodeSender interface {
	SendCode(ctx context.Context, email domain.Email, challenge domain.Challenge) error
}

// LogCodeSender is the development sender. It logs that a code was issued
// without ever logging the code itself.
type LogCodeSender struct{}

var _ CodeSender = LogCodeSender{}

func (LogCodeSender) SendCode(ctx context.Context, email domain.Email, challenge domain.Challenge) error {
	slogx.FromContext(ctx).Info("2fa code issued",
		slog.String("email", email.String()),
		slog.String("login_attempt_id", challenge.AttemptID.String()),
	)
	return nil
}
