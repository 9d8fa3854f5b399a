package port

import (
	"context"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// EmailSender delivers account verification mail. Delivery is
// fire-and-forget from the service's perspective; retries belong to
// the mail subsystem.
type EmailSender interface {
	SendVerificationEmail(ctx context.Context, account domain.Account, token string) error
}
