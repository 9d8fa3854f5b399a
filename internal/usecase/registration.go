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
	"github.com/arklim/social-platform-accounts/internal/infra/nickname"
	"github.com/arklim/social-platform-accounts/internal/infra/security"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

const (
	defaultNicknameMaxAttempts = 5
	defaultTokenByteLength     = 32
	uniquifySuffixBytes        = 3
)

var (
	// ErrVerificationTokenInvalid indicates the supplied token does not match or was already used.
	ErrVerificationTokenInvalid = errors.New("verification token invalid")
	// ErrAlreadyVerified indicates the account email is already verified.
	ErrAlreadyVerified = errors.New("email already verified")
)

// RegisterInput carries the raw registration payload.
type RegisterInput struct {
	Email     string
	Password  string
	Nickname  string
	FirstName *string
	LastName  *string
	Bio       *string
}

// RegistrationService handles new account onboarding.
type RegistrationService struct {
	accounts  port.AccountRepository
	hasher    port.PasswordHasher
	validator *security.PasswordValidator
	nicknames port.NicknameGenerator
	emails    port.EmailSender
	events    port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time

	nicknameMaxAttempts int
	tokenByteLength     int
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(
	accounts port.AccountRepository,
	hasher port.PasswordHasher,
	validator *security.PasswordValidator,
	nicknames port.NicknameGenerator,
	emails port.EmailSender,
	events port.EventPublisher,
	log *zap.Logger,
) *RegistrationService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationService{
		accounts:            accounts,
		hasher:              hasher,
		validator:           validator,
		nicknames:           nicknames,
		emails:              emails,
		events:              events,
		logger:              log,
		now:                 time.Now,
		nicknameMaxAttempts: defaultNicknameMaxAttempts,
		tokenByteLength:     defaultTokenByteLength,
	}
}

// WithNicknameMaxAttempts caps candidate generation retries.
func (s *RegistrationService) WithNicknameMaxAttempts(max int) {
	if max > 0 {
		s.nicknameMaxAttempts = max
	}
}

// WithTokenByteLength sets the entropy of generated verification tokens.
func (s *RegistrationService) WithTokenByteLength(n int) {
	if n > 0 {
		s.tokenByteLength = n
	}
}

// WithClock overrides the time source (primarily for tests).
func (s *RegistrationService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// RegisterUser validates the payload, assigns a unique nickname, and
// persists the account with a single-use verification token. The row
// and token are written in one transaction; exactly one verification
// email is dispatched after a successful commit.
func (s *RegistrationService) RegisterUser(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	password := strings.TrimSpace(input.Password)
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if err := s.validator.Validate(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	explicitNickname := strings.TrimSpace(input.Nickname)
	if explicitNickname != "" {
		if err := domain.ValidateNickname(explicitNickname); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		s.logger.Warn("registration rejected, email already exists", maskedEmailField(email))
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	assignedNickname := explicitNickname
	if assignedNickname == "" {
		assignedNickname, err = s.uniqueNickname(ctx)
		if err != nil {
			return nil, err
		}
	} else if _, err := s.accounts.GetByNickname(ctx, assignedNickname); err == nil {
		return nil, ErrNicknameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check nickname uniqueness: %w", err)
	}

	token, err := security.GenerateSecureToken(s.tokenByteLength)
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	now := s.now().UTC()
	account := domain.Account{
		ID:                newAccountID(),
		Nickname:          assignedNickname,
		Email:             email,
		FirstName:         trimPtr(input.FirstName),
		LastName:          trimPtr(input.LastName),
		Bio:               trimPtr(input.Bio),
		HashedPassword:    hashed,
		Role:              domain.RoleAnonymous,
		VerificationToken: &token,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.accounts.WithinTx(ctx, func(repo port.AccountRepository) error {
		return repo.Create(ctx, account)
	})
	if err != nil {
		// A concurrent registration may win the unique constraint race;
		// the loser fails cleanly with no partial row.
		s.logger.Warn("registration persist failed", maskedEmailField(email), zap.Error(err))
		return nil, translateRepoErr(err)
	}

	if s.events != nil {
		event := domain.AccountRegisteredEvent{
			AccountID:    account.ID,
			Nickname:     account.Nickname,
			Email:        account.Email,
			Role:         string(account.Role),
			RegisteredAt: now,
		}
		if err := s.events.PublishAccountRegistered(ctx, event); err != nil {
			s.logger.Warn("publish account registered event", zap.Error(err))
		}
	}

	if s.emails != nil {
		if err := s.emails.SendVerificationEmail(ctx, account, token); err != nil {
			// Delivery is the mail subsystem's responsibility; the
			// account is already committed.
			s.logger.Warn("send verification email", zap.String("account_id", account.ID), zap.Error(err))
		}
	}

	s.logger.Info("account registered",
		zap.String("account_id", account.ID),
		zap.String("nickname", account.Nickname),
		maskedEmailField(account.Email),
	)

	return &account, nil
}

// uniqueNickname requests candidates from the generator until one is
// unused, up to the configured cap, then falls back to a random
// uniquifying suffix instead of retrying forever.
func (s *RegistrationService) uniqueNickname(ctx context.Context) (string, error) {
	var candidate string
	for attempt := 0; attempt < s.nicknameMaxAttempts; attempt++ {
		candidate = s.nicknames.Generate()
		_, err := s.accounts.GetByNickname(ctx, candidate)
		if errors.Is(err, repository.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check nickname candidate: %w", err)
		}
	}

	suffixed := candidate + nickname.RandomSuffix(uniquifySuffixBytes)
	if len(suffixed) > domain.NicknameMaxLength {
		suffixed = suffixed[len(suffixed)-domain.NicknameMaxLength:]
	}

	s.logger.Warn("nickname candidates exhausted, applying suffix",
		zap.Int("attempts", s.nicknameMaxAttempts),
		zap.String("nickname", suffixed),
	)
	return suffixed, nil
}

// VerifyEmail consumes the single-use verification token, marks the
// email verified, and promotes an anonymous account to authenticated.
func (s *RegistrationService) VerifyEmail(ctx context.Context, id, token string) (*domain.Account, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	var verified *domain.Account
	err := s.accounts.WithinTx(ctx, func(repo port.AccountRepository) error {
		account, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if account.EmailVerified {
			return ErrAlreadyVerified
		}
		if account.VerificationToken == nil || *account.VerificationToken != token {
			return ErrVerificationTokenInvalid
		}

		account.EmailVerified = true
		account.VerificationToken = nil
		if account.Role == domain.RoleAnonymous {
			account.Role = domain.RoleAuthenticated
		}
		account.UpdatedAt = s.now().UTC()

		if err := repo.Update(ctx, *account); err != nil {
			return err
		}

		verified = account
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVerificationTokenInvalid
		}
		return nil, err
	}

	if s.events != nil {
		event := domain.EmailVerifiedEvent{
			AccountID:  verified.ID,
			Email:      verified.Email,
			VerifiedAt: s.now().UTC(),
		}
		if err := s.events.PublishEmailVerified(ctx, event); err != nil {
			s.logger.Warn("publish email verified event", zap.Error(err))
		}
	}

	s.logger.Info("email verified", zap.String("account_id", verified.ID))
	return verified, nil
}
