package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lambojac/mirriora/internal/transport/http/middleware"
	"github.com/lambojac/mirriora/internal/usecase"
)

// AccountHandler exposes the authenticated account surface.
type AccountHandler struct {
	account *usecase.AccountService
}

func NewAccountHandler(account *usecase.AccountService) *AccountHandler {
	return &AccountHandler{account: account}
}

// Profile godoc
// @Summary Fetch the authenticated account profile
// @Tags Account
// @Security BearerAuth
// @Produce json
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/auth/profile [get]
func (h *AccountHandler) Profile(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	user, err := h.account.Profile(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		Success: true,
		User:    newUserSummary(*user),
	})
}

// DeleteAccount godoc
// @Summary Permanently delete the authenticated account
// @Description Requires the current password. Clears the auth cookie on success.
// @Tags Account
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body DeleteAccountRequest true "Deletion confirmation"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/auth/account [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "password is required"))
		return
	}

	if err := h.account.DeleteAccount(c.Request.Context(), userID, req.Password); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "account not found"},
			{Err: usecase.ErrCurrentPasswordRequired, Status: http.StatusBadRequest, Message: "password is required"},
			{Err: usecase.ErrCurrentPasswordInvalid, Status: http.StatusUnauthorized, Message: "password is incorrect"},
			{Err: usecase.ErrAccountDeactivated, Status: http.StatusForbidden, Message: "account is deactivated"},
		}, http.StatusInternalServerError, "failed to delete account")
		return
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("token", "", -1, "/", "", true, true)

	c.JSON(http.StatusOK, newMessageResponse("account deleted"))
}
