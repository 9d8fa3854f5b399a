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
	"github.com/arklim/social-platform-accounts/internal/repository"
)

// ErrAuthenticationFailed is the single caller-visible login failure.
// The concrete reason (unknown account, unverified email, locked
// account, wrong password) is deliberately not exposed to avoid
// leaking account existence or state; it appears only in logs.
var ErrAuthenticationFailed = errors.New("authentication failed")

// LoginFailureReason distinguishes login outcomes for logging and tests.
type LoginFailureReason string

const (
	LoginFailureNone            LoginFailureReason = ""
	LoginFailureUnknownAccount  LoginFailureReason = "unknown_account"
	LoginFailureEmailUnverified LoginFailureReason = "email_unverified"
	LoginFailureAccountLocked   LoginFailureReason = "account_locked"
	LoginFailureWrongPassword   LoginFailureReason = "wrong_password"
)

const defaultMaxLoginAttempts = 5

// AuthService coordinates the login flow and lockout state machine.
type AuthService struct {
	accounts         port.AccountRepository
	hasher           port.PasswordHasher
	events           port.EventPublisher
	logger           *zap.Logger
	now              func() time.Time
	maxLoginAttempts int
}

// NewAuthService constructs an AuthService. The lockout threshold is
// injected rather than read from ambient configuration.
func NewAuthService(accounts port.AccountRepository, hasher port.PasswordHasher, events port.EventPublisher, maxLoginAttempts int, log *zap.Logger) *AuthService {
	if maxLoginAttempts <= 0 {
		maxLoginAttempts = defaultMaxLoginAttempts
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		accounts:         accounts,
		hasher:           hasher,
		events:           events,
		logger:           log,
		now:              time.Now,
		maxLoginAttempts: maxLoginAttempts,
	}
}

// WithClock overrides the time source (primarily for tests).
func (s *AuthService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// LoginUser authenticates the email/password pair. Checks short-circuit
// in order: unknown account, unverified email, locked account, wrong
// password. Only a wrong password mutates state (counter, possible
// auto-lock); a successful login resets the counter and stamps the
// login time.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		s.logLoginFailure(LoginFailureUnknownAccount, email)
		return nil, ErrAuthenticationFailed
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logLoginFailure(LoginFailureUnknownAccount, email)
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if !account.EmailVerified {
		s.logLoginFailure(LoginFailureEmailUnverified, email)
		return nil, ErrAuthenticationFailed
	}

	if account.IsLocked {
		s.logLoginFailure(LoginFailureAccountLocked, email)
		return nil, ErrAuthenticationFailed
	}

	ok, err := s.hasher.Verify(password, account.HashedPassword)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !ok {
		if err := s.recordFailedAttempt(ctx, account); err != nil {
			return nil, err
		}
		s.logLoginFailure(LoginFailureWrongPassword, email)
		return nil, ErrAuthenticationFailed
	}

	now := s.now().UTC()
	err = s.accounts.WithinTx(ctx, func(repo port.AccountRepository) error {
		account.FailedLoginAttempts = 0
		account.LastLoginAt = &now
		account.UpdatedAt = now
		return repo.Update(ctx, *account)
	})
	if err != nil {
		return nil, fmt.Errorf("record successful login: %w", err)
	}

	s.logger.Info("login succeeded", zap.String("account_id", account.ID))
	return account, nil
}

func (s *AuthService) recordFailedAttempt(ctx context.Context, account *domain.Account) error {
	now := s.now().UTC()
	locked := false

	err := s.accounts.WithinTx(ctx, func(repo port.AccountRepository) error {
		account.FailedLoginAttempts++
		if account.FailedLoginAttempts >= s.maxLoginAttempts {
			account.IsLocked = true
			locked = true
		}
		account.UpdatedAt = now
		return repo.Update(ctx, *account)
	})
	if err != nil {
		return fmt.Errorf("record failed login attempt: %w", err)
	}

	if locked {
		s.logger.Warn("account locked after repeated failures",
			zap.String("account_id", account.ID),
			zap.Int("failed_attempts", account.FailedLoginAttempts),
		)
		if s.events != nil {
			event := domain.AccountLockedEvent{
				AccountID:      account.ID,
				LockedAt:       now,
				FailedAttempts: account.FailedLoginAttempts,
				Automatic:      true,
			}
			if err := s.events.PublishAccountLocked(ctx, event); err != nil {
				s.logger.Warn("publish account locked event", zap.Error(err))
			}
		}
	}

	return nil
}

func (s *AuthService) logLoginFailure(reason LoginFailureReason, email string) {
	s.logger.Warn("login failed",
		zap.String("reason", string(reason)),
		maskedEmailField(email),
	)
}
