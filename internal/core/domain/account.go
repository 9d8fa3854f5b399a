package domain

import (
	"errors"
	"fmt"
	"net/url"
	"time"
	"unicode"
)

// Role enumerates authorization levels assigned to an account.
type Role string

const (
	RoleAnonymous     Role = "ANONYMOUS"
	RoleAuthenticated Role = "AUTHENTICATED"
	RoleManager       Role = "MANAGER"
	RoleAdmin         Role = "ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAnonymous, RoleAuthenticated, RoleManager, RoleAdmin:
		return true
	}
	return false
}

const (
	NicknameMinLength = 3
	NicknameMaxLength = 50
)

var (
	// ErrInvalidNickname indicates the nickname violates length or character constraints.
	ErrInvalidNickname = errors.New("invalid nickname")
	// ErrInvalidRole indicates an unknown role value.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidURL indicates a profile URL is not a well-formed http(s) URL.
	ErrInvalidURL = errors.New("invalid url")
)

// Account mirrors the persisted representation in the accounts table.
type Account struct {
	ID                          string
	Nickname                    string
	Email                       string
	FirstName                   *string
	LastName                    *string
	Bio                         *string
	ProfilePictureURL           *string
	LinkedinProfileURL          *string
	GithubProfileURL            *string
	HashedPassword              string
	Role                        Role
	EmailVerified               bool
	IsLocked                    bool
	FailedLoginAttempts         int
	IsProfessional              bool
	ProfessionalStatusUpdatedAt *time.Time
	VerificationToken           *string
	LastLoginAt                 *time.Time
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

// HasRole reports whether the account carries the given role.
func (a *Account) HasRole(role Role) bool {
	return a.Role == role
}

// ValidateNickname enforces the nickname contract: alphanumeric only,
// length between NicknameMinLength and NicknameMaxLength runes.
func ValidateNickname(nickname string) error {
	runes := []rune(nickname)
	if len(runes) < NicknameMinLength || len(runes) > NicknameMaxLength {
		return fmt.Errorf("%w: must be between %d and %d characters", ErrInvalidNickname, NicknameMinLength, NicknameMaxLength)
	}
	for _, r := range runes {
		if r > unicode.MaxASCII || (!unicode.IsLetter(r) && !unicode.IsDigit(r)) {
			return fmt.Errorf("%w: must contain only alphanumeric characters", ErrInvalidNickname)
		}
	}
	return nil
}

// ValidateProfileURL checks that the value is an absolute http or https URL.
func ValidateProfileURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}
	return nil
}
