package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-accounts/internal/core/domain"
	"github.com/arklim/social-platform-accounts/internal/usecase"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// AccountHandler exposes account retrieval and management endpoints.
type AccountHandler struct {
	accounts *usecase.AccountService
}

func NewAccountHandler(accounts *usecase.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// RegisterRoutes binds account management endpoints.
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.GET("/nickname/:nickname", h.GetByNickname)
	r.PATCH("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
	r.POST("/:id/lock", h.Lock)
	r.POST("/:id/unlock", h.Unlock)
	r.PUT("/:id/role", h.UpdateRole)
	r.PUT("/:id/professional-status", h.UpdateProfessionalStatus)
}

var accountNotFoundCase = ErrorCase{
	Err:     usecase.ErrAccountNotFound,
	Status:  http.StatusNotFound,
	Message: "account not found",
}

// Get godoc
// @Summary Fetch an account by ID
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} AccountSummary
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/accounts/{id} [get]
func (h *AccountHandler) Get(c *gin.Context) {
	account, err := h.accounts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{accountNotFoundCase},
			http.StatusInternalServerError, "failed to fetch account")
		return
	}

	c.JSON(http.StatusOK, newAccountSummary(account))
}

// GetByNickname godoc
// @Summary Fetch an account by nickname
// @Tags Accounts
// @Produce json
// @Param nickname path string true "Nickname"
// @Success 200 {object} AccountSummary
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/accounts/nickname/{nickname} [get]
func (h *AccountHandler) GetByNickname(c *gin.Context) {
	account, err := h.accounts.GetByNickname(c.Request.Context(), c.Param("nickname"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{accountNotFoundCase},
			http.StatusInternalServerError, "failed to fetch account")
		return
	}

	c.JSON(http.StatusOK, newAccountSummary(account))
}

// List godoc
// @Summary List accounts
// @Description Returns a page of accounts ordered by creation time, along with the total count.
// @Tags Accounts
// @Produce json
// @Param skip query int false "Number of accounts to skip"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} AccountListResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	skip, err := parseQueryInt(c, "skip", 0)
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "skip must be a non-negative integer"))
		return
	}

	limit, err := parseQueryInt(c, "limit", defaultListLimit)
	if err != nil || limit <= 0 || limit > maxListLimit {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "limit must be between 1 and 100"))
		return
	}

	accounts, err := h.accounts.ListAccounts(c.Request.Context(), skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list accounts"))
		return
	}

	total, err := h.accounts.CountAccounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to count accounts"))
		return
	}

	summaries := make([]AccountSummary, 0, len(accounts))
	for i := range accounts {
		summaries = append(summaries, newAccountSummary(&accounts[i]))
	}

	c.JSON(http.StatusOK, AccountListResponse{
		Accounts: summaries,
		Total:    total,
		Skip:     skip,
		Limit:    limit,
	})
}

// Update godoc
// @Summary Partially update an account
// @Description Applies the provided fields to the account. Omitted fields are left unchanged.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body AccountUpdateRequest true "Update request"
// @Success 200 {object} AccountSummary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/accounts/{id} [patch]
func (h *AccountHandler) Update(c *gin.Context) {
	var req AccountUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid update payload"))
		return
	}

	account, err := h.accounts.Update(c.Request.Context(), c.Param("id"), usecase.AccountUpdate{
		Email:              req.Email,
		Nickname:           req.Nickname,
		Password:           req.Password,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Bio:                req.Bio,
		ProfilePictureURL:  req.ProfilePictureURL,
		LinkedinProfileURL: req.LinkedinProfileURL,
		GithubProfileURL:   req.GithubProfileURL,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			accountNotFoundCase,
			{Err: usecase.ErrEmailTaken, Status: http.StatusConflict, Message: "email already registered"},
			{Err: usecase.ErrNicknameTaken, Status: http.StatusConflict, Message: "nickname already taken"},
			{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
			{Err: usecase.ErrInvalidInput, Status: http.StatusBadRequest, Message: "invalid update payload"},
		}, http.StatusInternalServerError, "failed to update account")
		return
	}

	c.JSON(http.StatusOK, newAccountSummary(account))
}

// Delete godoc
// @Summary Delete an account
// @Description Removes the account. Deleting an unknown account returns 404.
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/accounts/{id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	deleted, err := h.accounts.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to delete account"))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, NewErrorResponse(c, "account not found"))
		return
	}

	c.Status(http.StatusNoContent)
}

// Lock godoc
// @Summary Lock an account
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/accounts/{id}/lock [post]
func (h *AccountHandler) Lock(c *gin.Context) {
	if err := h.accounts.Lock(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{accountNotFoundCase},
			http.StatusInternalServerError, "failed to lock account")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "account locked"})
}

// Unlock godoc
// @Summary Unlock an account
// @Description Unlocks the account. The failed login counter is left as is; it resets on the next successful login.
// @Tags Accounts
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/accounts/{id}/unlock [post]
func (h *AccountHandler) Unlock(c *gin.Context) {
	if err := h.accounts.Unlock(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{accountNotFoundCase},
			http.StatusInternalServerError, "failed to unlock account")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "account unlocked"})
}

// UpdateRole godoc
// @Summary Change the role of an account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body RoleUpdateRequest true "Role update request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/accounts/{id}/role [put]
func (h *AccountHandler) UpdateRole(c *gin.Context) {
	var req RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid role payload"))
		return
	}

	role := domain.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown role"))
		return
	}

	if err := h.accounts.UpdateRole(c.Request.Context(), c.Param("id"), role); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{accountNotFoundCase},
			http.StatusInternalServerError, "failed to update role")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "role updated"})
}

// UpdateProfessionalStatus godoc
// @Summary Toggle the professional flag of an account
// @Description Sets or clears the professional flag and records when the change happened.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body ProfessionalStatusRequest true "Professional status request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/accounts/{id}/professional-status [put]
func (h *AccountHandler) UpdateProfessionalStatus(c *gin.Context) {
	var req ProfessionalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsProfessional == nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid professional status payload"))
		return
	}

	if err := h.accounts.UpdateProfessionalStatus(c.Request.Context(), c.Param("id"), *req.IsProfessional); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{accountNotFoundCase},
			http.StatusInternalServerError, "failed to update professional status")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "professional status updated"})
}

func parseQueryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
