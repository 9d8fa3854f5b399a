package email

import (
	"context"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/logger"
)

type noopSender struct{}

func (noopSender) SendVerificationEmail(context.Context, domain.Account, string) error {
	return nil
}

// NewNoopSender returns a sender that silently discards mail.
func NewNoopSender() port.EmailSender {
	return noopSender{}
}

// LoggingSender records verification dispatches for observability
// without delivering them. Production deployments swap in the mail
// subsystem's sender behind the same interface.
type LoggingSender struct {
	logger *zap.Logger
}

// NewLoggingSender constructs an email sender backed by structured logging.
func NewLoggingSender(log *zap.Logger) port.EmailSender {
	if log == nil {
		return noopSender{}
	}
	return &LoggingSender{logger: log}
}

// SendVerificationEmail logs the dispatch with the recipient masked.
// The raw token is never logged.
func (s *LoggingSender) SendVerificationEmail(_ context.Context, account domain.Account, token string) error {
	s.logger.Info("verification email dispatched",
		zap.String("account_id", account.ID),
		zap.String("email", logger.MaskEmail(account.Email)),
		zap.String("token", logger.MaskString(token)),
	)
	return nil
}
