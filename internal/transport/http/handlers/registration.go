package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-accounts/internal/usecase"
)

// RegistrationHandler exposes endpoints for account registration and email verification.
type RegistrationHandler struct {
	registration *usecase.RegistrationService
}

func NewRegistrationHandler(registration *usecase.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registration: registration}
}

// RegisterRoutes binds registration endpoints.
func (h *RegistrationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.POST("/:id/verify", h.Verify)
}

// Register godoc
// @Summary Register a new account
// @Description Creates a new account with the provided credentials and optional profile details.
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body RegistrationRequest true "Registration request"
// @Success 201 {object} RegistrationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/accounts/register [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	account, err := h.registration.RegisterUser(c.Request.Context(), usecase.RegisterInput{
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		Nickname:  strings.TrimSpace(req.Nickname),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
			{Err: usecase.ErrNicknameTaken, Status: http.StatusConflict, Message: "nickname already taken"},
			{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
			{Err: usecase.ErrInvalidInput, Status: http.StatusBadRequest, Message: "invalid registration payload"},
		}, http.StatusInternalServerError, "failed to register account")
		return
	}

	c.JSON(http.StatusCreated, RegistrationResponse{
		Account: newAccountSummary(account),
		Message: "verification email sent",
	})
}

// Verify godoc
// @Summary Verify an account email
// @Description Confirms a verification token to mark the account email as verified.
// @Tags Registration
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body VerifyEmailRequest true "Verification request"
// @Success 200 {object} VerifyEmailResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/accounts/{id}/verify [post]
func (h *RegistrationHandler) Verify(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid verification payload"))
		return
	}

	account, err := h.registration.VerifyEmail(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Token))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrVerificationTokenInvalid, Status: http.StatusBadRequest, Message: "verification token is invalid"},
			{Err: usecase.ErrAlreadyVerified, Status: http.StatusBadRequest, Message: "email is already verified"},
		}, http.StatusInternalServerError, "failed to verify email")
		return
	}

	c.JSON(http.StatusOK, VerifyEmailResponse{
		Message: "email verified",
		Account: newAccountSummary(account),
	})
}
