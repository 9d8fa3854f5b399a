package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/security"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

// PasswordResetService sets a new password and clears lockout state.
type PasswordResetService struct {
	accounts  port.AccountRepository
	hasher    port.PasswordHasher
	validator *security.PasswordValidator
	events    port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewPasswordResetService constructs a PasswordResetService.
func NewPasswordResetService(accounts port.AccountRepository, hasher port.PasswordHasher, validator *security.PasswordValidator, events port.EventPublisher, log *zap.Logger) *PasswordResetService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PasswordResetService{
		accounts:  accounts,
		hasher:    hasher,
		validator: validator,
		events:    events,
		logger:    log,
		now:       time.Now,
	}
}

// WithClock overrides the time source (primarily for tests).
func (s *PasswordResetService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ResetPassword hashes and stores the new password, zeroes the failed
// attempt counter, and clears the lock, all in one transaction.
// Returns ErrAccountNotFound when the identifier does not resolve.
func (s *PasswordResetService) ResetPassword(ctx context.Context, id, newPassword string) error {
	newPassword = strings.TrimSpace(newPassword)
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidInput)
	}
	if err := s.validator.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	now := s.now().UTC()
	err = s.accounts.WithinTx(ctx, func(repo port.AccountRepository) error {
		account, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		account.HashedPassword = hashed
		account.FailedLoginAttempts = 0
		account.IsLocked = false
		account.UpdatedAt = now
		return repo.Update(ctx, *account)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("password reset skipped, account not found", zap.String("account_id", id))
			return ErrAccountNotFound
		}
		return fmt.Errorf("reset password: %w", err)
	}

	if s.events != nil {
		event := domain.PasswordResetEvent{
			AccountID: id,
			ResetAt:   now,
		}
		if err := s.events.PublishPasswordReset(ctx, event); err != nil {
			s.logger.Warn("publish password reset event", zap.Error(err))
		}
	}

	s.logger.Info("password reset", zap.String("account_id", id))
	return nil
}
