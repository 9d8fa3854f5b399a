package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-accounts/internal/usecase"
)

// PasswordHandler exposes the password reset endpoint.
type PasswordHandler struct {
	passwords *usecase.PasswordResetService
}

func NewPasswordHandler(passwords *usecase.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{passwords: passwords}
}

// RegisterRoutes binds password management endpoints.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/:id/password/reset", h.Reset)
}

// Reset godoc
// @Summary Reset an account password
// @Description Replaces the password, clears the failed login counter, and unlocks the account.
// @Tags Password
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body PasswordResetRequest true "Password reset request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/accounts/{id}/password/reset [post]
func (h *PasswordHandler) Reset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid password reset payload"))
		return
	}

	if err := h.passwords.ResetPassword(c.Request.Context(), c.Param("id"), req.NewPassword); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
			{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
			{Err: usecase.ErrInvalidInput, Status: http.StatusBadRequest, Message: "invalid password reset payload"},
		}, http.StatusInternalServerError, "failed to reset password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password reset"})
}
