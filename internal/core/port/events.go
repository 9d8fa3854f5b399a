package port

import (
	"context"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// EventPublisher emits account lifecycle events to downstream consumers.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error
	PublishAccountLocked(ctx context.Context, event domain.AccountLockedEvent) error
	PublishPasswordReset(ctx context.Context, event domain.PasswordResetEvent) error
	PublishEmailVerified(ctx context.Context, event domain.EmailVerifiedEvent) error
}
