package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/core/port"
	"github.com/arklim/social-platform-accounts/internal/infra/logger"
	"github.com/arklim/social-platform-accounts/internal/infra/security"
	"github.com/arklim/social-platform-accounts/internal/repository"
)

const (
	maxEmailLength = 255
	maxNameLength  = 100
	maxBioLength   = 500
	maxURLLength   = 255
)

var (
	// ErrAccountNotFound indicates the target identifier does not resolve to an account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailTaken indicates an account with the same email already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNicknameTaken indicates an account with the same nickname already exists.
	ErrNicknameTaken = errors.New("nickname already taken")
	// ErrInvalidInput indicates the request payload violates field constraints.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPasswordPolicyViolation indicates the password does not satisfy complexity requirements.
	ErrPasswordPolicyViolation = errors.New("password does not meet complexity requirements")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail enforces the email shape and length constraints.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("%w: email must be at most %d characters", ErrInvalidInput, maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: email is malformed", ErrInvalidInput)
	}
	return nil
}

// AccountUpdate carries the partial field set for Update. Nil fields
// are left untouched.
type AccountUpdate struct {
	Nickname           *string
	Email              *string
	Password           *string
	FirstName          *string
	LastName           *string
	Bio                *string
	ProfilePictureURL  *string
	LinkedinProfileURL *string
	GithubProfileURL   *string
}

func (u AccountUpdate) empty() bool {
	return u.Nickname == nil && u.Email == nil && u.Password == nil &&
		u.FirstName == nil && u.LastName == nil && u.Bio == nil &&
		u.ProfilePictureURL == nil && u.LinkedinProfileURL == nil &&
		u.GithubProfileURL == nil
}

// AccountService handles account lifecycle operations.
type AccountService struct {
	accounts  port.AccountRepository
	hasher    port.PasswordHasher
	validator *security.PasswordValidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewAccountService constructs an AccountService.
func NewAccountService(accounts port.AccountRepository, hasher port.PasswordHasher, validator *security.PasswordValidator, log *zap.Logger) *AccountService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{
		accounts:  accounts,
		hasher:    hasher,
		validator: validator,
		logger:    log,
		now:       time.Now,
	}
}

// WithClock overrides the time source (primarily for tests).
func (s *AccountService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// GetByID retrieves an account by identifier.
func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	return account, nil
}

// GetByNickname retrieves an account by nickname.
func (s *AccountService) GetByNickname(ctx context.Context, nickname string) (*domain.Account, error) {
	account, err := s.accounts.GetByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account by nickname: %w", err)
	}
	return account, nil
}

// GetByEmail retrieves an account by email.
func (s *AccountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account by email: %w", err)
	}
	return account, nil
}

// CreateAccount persists a pre-assembled account. Callers supply an
// already hashed password; registration is the usual entry point.
func (s *AccountService) CreateAccount(ctx context.Context, account domain.Account) error {
	if err := domain.ValidateNickname(account.Nickname); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := ValidateEmail(account.Email); err != nil {
		return err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return translateRepoErr(err)
	}
	return nil
}

// Update applies a partial field set and returns the refreshed account.
// A supplied password is policy checked and re-hashed before persistence.
func (s *AccountService) Update(ctx context.Context, id string, update AccountUpdate) (*domain.Account, error) {
	if update.empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	if update.Email != nil {
		// Emails are stored lowercase; login lowercases before lookup.
		normalized := strings.ToLower(strings.TrimSpace(*update.Email))
		update.Email = &normalized
	}

	if err := s.validateUpdate(update); err != nil {
		return nil, err
	}

	var updated *domain.Account
	err := s.accounts.WithinTx(ctx, func(repo port.AccountRepository) error {
		account, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if update.Nickname != nil {
			account.Nickname = *update.Nickname
		}
		if update.Email != nil {
			account.Email = *update.Email
		}
		if update.Password != nil {
			hashed, err := s.hasher.Hash(*update.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			account.HashedPassword = hashed
		}
		if update.FirstName != nil {
			account.FirstName = update.FirstName
		}
		if update.LastName != nil {
			account.LastName = update.LastName
		}
		if update.Bio != nil {
			account.Bio = update.Bio
		}
		if update.ProfilePictureURL != nil {
			account.ProfilePictureURL = update.ProfilePictureURL
		}
		if update.LinkedinProfileURL != nil {
			account.LinkedinProfileURL = update.LinkedinProfileURL
		}
		if update.GithubProfileURL != nil {
			account.GithubProfileURL = update.GithubProfileURL
		}

		account.UpdatedAt = s.now().UTC()

		if err := repo.Update(ctx, *account); err != nil {
			return err
		}

		updated = account
		return nil
	})
	if err != nil {
		return nil, translateRepoErr(err)
	}

	s.logger.Info("account updated", zap.String("account_id", id))
	return updated, nil
}

func (s *AccountService) validateUpdate(update AccountUpdate) error {
	if update.Nickname != nil {
		if err := domain.ValidateNickname(*update.Nickname); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if update.Email != nil {
		if err := ValidateEmail(*update.Email); err != nil {
			return err
		}
	}
	if update.Password != nil {
		if err := s.validator.Validate(*update.Password); err != nil {
			return fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
		}
	}
	for _, field := range []struct {
		name  string
		value *string
		max   int
	}{
		{"first_name", update.FirstName, maxNameLength},
		{"last_name", update.LastName, maxNameLength},
		{"bio", update.Bio, maxBioLength},
	} {
		if field.value != nil && len(*field.value) > field.max {
			return fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidInput, field.name, field.max)
		}
	}
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"profile_picture_url", update.ProfilePictureURL},
		{"linkedin_profile_url", update.LinkedinProfileURL},
		{"github_profile_url", update.GithubProfileURL},
	} {
		if field.value == nil {
			continue
		}
		if len(*field.value) > maxURLLength {
			return fmt.Errorf("%w: %s must be at most %d characters", ErrInvalidInput, field.name, maxURLLength)
		}
		if err := domain.ValidateProfileURL(*field.value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidInput, field.name, err)
		}
	}
	return nil
}

// Delete removes the account permanently. Deleting an unknown
// identifier reports false without treating it as an error.
func (s *AccountService) Delete(ctx context.Context, id string) (bool, error) {
	err := s.accounts.WithinTx(ctx, func(repo port.AccountRepository) error {
		return repo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("delete skipped, account not found", zap.String("account_id", id))
			return false, nil
		}
		return false, fmt.Errorf("delete account: %w", err)
	}

	s.logger.Info("account deleted", zap.String("account_id", id))
	return true, nil
}

// ListAccounts returns a page of accounts using skip/limit semantics.
func (s *AccountService) ListAccounts(ctx context.Context, skip, limit int) ([]domain.Account, error) {
	if skip < 0 || limit < 0 {
		return nil, fmt.Errorf("%w: skip and limit must be non-negative", ErrInvalidInput)
	}
	if limit == 0 {
		limit = 10
	}

	accounts, err := s.accounts.List(ctx, port.AccountFilter{Offset: skip, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// CountAccounts returns the total number of accounts.
func (s *AccountService) CountAccounts(ctx context.Context) (int, error) {
	count, err := s.accounts.Count(ctx, port.AccountFilter{})
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}

// Lock marks the account as locked.
func (s *AccountService) Lock(ctx context.Context, id string) error {
	return s.setLocked(ctx, id, true)
}

// Unlock clears the account lock.
func (s *AccountService) Unlock(ctx context.Context, id string) error {
	return s.setLocked(ctx, id, false)
}

func (s *AccountService) setLocked(ctx context.Context, id string, locked bool) error {
	err := s.accounts.WithinTx(ctx, func(repo port.AccountRepository) error {
		account, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		account.IsLocked = locked
		account.UpdatedAt = s.now().UTC()
		return repo.Update(ctx, *account)
	})
	if err != nil {
		return translateRepoErr(err)
	}

	s.logger.Info("account lock changed",
		zap.String("account_id", id),
		zap.Bool("locked", locked),
	)
	return nil
}

// UpdateRole assigns a new role to the account.
func (s *AccountService) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRole, role)
	}

	err := s.accounts.WithinTx(ctx, func(repo port.AccountRepository) error {
		account, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		account.Role = role
		account.UpdatedAt = s.now().UTC()
		return repo.Update(ctx, *account)
	})
	if err != nil {
		return translateRepoErr(err)
	}

	s.logger.Info("account role updated",
		zap.String("account_id", id),
		zap.String("role", string(role)),
	)
	return nil
}

// UpdateProfessionalStatus flips the professional flag. The service
// captures the mutation time and writes the status and its timestamp
// in the same transaction.
func (s *AccountService) UpdateProfessionalStatus(ctx context.Context, id string, professional bool) error {
	changedAt := s.now().UTC()

	err := s.accounts.WithinTx(ctx, func(repo port.AccountRepository) error {
		account, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		account.IsProfessional = professional
		account.ProfessionalStatusUpdatedAt = &changedAt
		account.UpdatedAt = changedAt
		return repo.Update(ctx, *account)
	})
	if err != nil {
		return translateRepoErr(err)
	}

	s.logger.Info("professional status updated",
		zap.String("account_id", id),
		zap.Bool("is_professional", professional),
	)
	return nil
}

func translateRepoErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrAccountNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrDuplicateNickname):
		return ErrNicknameTaken
	}
	return err
}

func newAccountID() string {
	return uuid.NewString()
}

func maskedEmailField(email string) zap.Field {
	return zap.String("email", logger.MaskEmail(email))
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}
