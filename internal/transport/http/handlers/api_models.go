package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
)

// ErrorResponse represents a generic error payload with request ID for debugging.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorResponse creates an error response with request ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	requestID, _ := c.Get("request_id")
	requestIDStr, _ := requestID.(string)

	return ErrorResponse{
		Error:     errorMsg,
		RequestID: requestIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// AccountSummary describes the account view returned by the API. The
// password hash and verification token never leave the service.
type AccountSummary struct {
	ID                          string      `json:"id"`
	Nickname                    string      `json:"nickname"`
	Email                       string      `json:"email"`
	FirstName                   *string     `json:"first_name,omitempty"`
	LastName                    *string     `json:"last_name,omitempty"`
	Bio                         *string     `json:"bio,omitempty"`
	ProfilePictureURL           *string     `json:"profile_picture_url,omitempty"`
	LinkedinProfileURL          *string     `json:"linkedin_profile_url,omitempty"`
	GithubProfileURL            *string     `json:"github_profile_url,omitempty"`
	Role                        domain.Role `json:"role"`
	EmailVerified               bool        `json:"email_verified"`
	IsLocked                    bool        `json:"is_locked"`
	IsProfessional              bool        `json:"is_professional"`
	ProfessionalStatusUpdatedAt *time.Time  `json:"professional_status_updated_at,omitempty"`
	LastLoginAt                 *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt                   time.Time   `json:"created_at"`
	UpdatedAt                   time.Time   `json:"updated_at"`
}

func newAccountSummary(account *domain.Account) AccountSummary {
	return AccountSummary{
		ID:                          account.ID,
		Nickname:                    account.Nickname,
		Email:                       account.Email,
		FirstName:                   account.FirstName,
		LastName:                    account.LastName,
		Bio:                         account.Bio,
		ProfilePictureURL:           account.ProfilePictureURL,
		LinkedinProfileURL:          account.LinkedinProfileURL,
		GithubProfileURL:            account.GithubProfileURL,
		Role:                        account.Role,
		EmailVerified:               account.EmailVerified,
		IsLocked:                    account.IsLocked,
		IsProfessional:              account.IsProfessional,
		ProfessionalStatusUpdatedAt: account.ProfessionalStatusUpdatedAt,
		LastLoginAt:                 account.LastLoginAt,
		CreatedAt:                   account.CreatedAt,
		UpdatedAt:                   account.UpdatedAt,
	}
}

// RegistrationRequest defines the account registration payload.
type RegistrationRequest struct {
	Email     string  `json:"email" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	Nickname  string  `json:"nickname" binding:"omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// RegistrationResponse contains the created account and next steps.
type RegistrationResponse struct {
	Account AccountSummary `json:"account"`
	Message string         `json:"message"`
}

// VerifyEmailRequest holds the verification payload.
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyEmailResponse is returned after a successful verification.
type VerifyEmailResponse struct {
	Message string         `json:"message"`
	Account AccountSummary `json:"account"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse describes the response returned for a successful login.
type LoginResponse struct {
	Message string         `json:"message"`
	Account AccountSummary `json:"account"`
}

// AccountUpdateRequest carries the optional fields of a partial update.
type AccountUpdateRequest struct {
	Email              *string `json:"email,omitempty"`
	Nickname           *string `json:"nickname,omitempty"`
	Password           *string `json:"password,omitempty"`
	FirstName          *string `json:"first_name,omitempty"`
	LastName           *string `json:"last_name,omitempty"`
	Bio                *string `json:"bio,omitempty"`
	ProfilePictureURL  *string `json:"profile_picture_url,omitempty"`
	LinkedinProfileURL *string `json:"linkedin_profile_url,omitempty"`
	GithubProfileURL   *string `json:"github_profile_url,omitempty"`
}

// RoleUpdateRequest assigns a new role to an account.
type RoleUpdateRequest struct {
	Role string `json:"role" binding:"required"`
}

// ProfessionalStatusRequest toggles the professional flag on an account.
type ProfessionalStatusRequest struct {
	IsProfessional *bool `json:"is_professional" binding:"required"`
}

// PasswordResetRequest carries the replacement password.
type PasswordResetRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// AccountListResponse wraps a page of accounts with the total count.
type AccountListResponse struct {
	Accounts []AccountSummary `json:"accounts"`
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness results.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
