package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lambojac/mirriora/internal/transport/http/middleware"
	"github.com/lambojac/mirriora/internal/usecase"
)

// PasswordHandler exposes the password reset state machine and the
// authenticated change-password endpoint.
type PasswordHandler struct {
	reset   *usecase.PasswordResetService
	account *usecase.AccountService
}

func NewPasswordHandler(reset *usecase.PasswordResetService, account *usecase.AccountService) *PasswordHandler {
	return &PasswordHandler{reset: reset, account: account}
}

// RequestPasswordReset godoc
// @Summary Start a password reset
// @Description Sends a one-time reset code to the account's contact channel.
// @Tags Password
// @Accept json
// @Produce json
// @Param request body PasswordResetRequest true "Reset request"
// @Success 200 {object} PasswordResetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/auth/request-password-reset [post]
func (h *PasswordHandler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "identifier is required"))
		return
	}

	masked, err := h.reset.RequestReset(c.Request.Context(), req.Identifier)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "account not found"},
			{Err: usecase.ErrAccountNotVerified, Status: http.StatusForbidden, Message: "account is not verified"},
			{Err: usecase.ErrAccountDeactivated, Status: http.StatusForbidden, Message: "account is deactivated"},
		}, http.StatusInternalServerError, "failed to request password reset")
		return
	}

	c.JSON(http.StatusOK, PasswordResetResponse{
		Success:           true,
		Message:           "reset code sent",
		MaskedDestination: masked,
	})
}

// VerifyResetOTP godoc
// @Summary Verify a password reset code
// @Tags Password
// @Accept json
// @Produce json
// @Param request body VerifyResetOTPRequest true "Verification request"
// @Success 200 {object} VerifyResetOTPResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/auth/verify-reset-otp [post]
func (h *PasswordHandler) VerifyResetOTP(c *gin.Context) {
	var req VerifyResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "otp is required"))
		return
	}

	verification, err := h.reset.VerifyResetOTP(c.Request.Context(), req.Identifier, req.OTP)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "account not found"},
			{Err: usecase.ErrResetOTPExpired, Status: http.StatusBadRequest, Message: "reset code is expired or invalid"},
		}, http.StatusInternalServerError, "failed to verify reset code")
		return
	}

	c.JSON(http.StatusOK, VerifyResetOTPResponse{
		Success:    true,
		Message:    "reset code verified",
		UserID:     verification.UserID,
		Identifier: verification.Identifier,
	})
}

// ResetPassword godoc
// @Summary Commit a verified password reset
// @Tags Password
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset commit"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/auth/reset-password [post]
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "identifier and passwords are required"))
		return
	}

	err := h.reset.CommitReset(c.Request.Context(), usecase.CommitResetInput{
		Identifier:      req.Identifier,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "account not found"},
			{Err: usecase.ErrPasswordMismatch, Status: http.StatusBadRequest, Message: "passwords do not match"},
			{Err: usecase.ErrPasswordInvalid, Status: http.StatusBadRequest, Message: "password must be at least 6 characters"},
			{Err: usecase.ErrResetSessionInvalid, Status: http.StatusConflict, Message: "reset session is invalid or expired, request a new code"},
		}, http.StatusInternalServerError, "failed to reset password")
		return
	}

	c.JSON(http.StatusOK, newMessageResponse("password reset successful"))
}

// ResendResetOTP godoc
// @Summary Resend the password reset code
// @Tags Password
// @Accept json
// @Produce json
// @Param request body ResendOTPRequest true "Resend request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/v1/auth/resend-password-reset-otp [post]
func (h *PasswordHandler) ResendResetOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "identifier is required"))
		return
	}

	if err := h.reset.ResendResetOTP(c.Request.Context(), req.Identifier); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "account not found"},
			{Err: usecase.ErrAccountNotVerified, Status: http.StatusForbidden, Message: "account is not verified"},
			{Err: usecase.ErrAccountDeactivated, Status: http.StatusForbidden, Message: "account is deactivated"},
		}, http.StatusInternalServerError, "failed to resend reset code")
		return
	}

	c.JSON(http.StatusOK, newMessageResponse("reset code sent"))
}

// ChangePassword godoc
// @Summary Change the authenticated account's password
// @Tags Password
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Change password request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/change-password [post]
func (h *PasswordHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "not authorized, please login"))
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "current and new passwords are required"))
		return
	}

	err := h.account.ChangePassword(c.Request.Context(), userID, usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "account not found"},
			{Err: usecase.ErrCurrentPasswordRequired, Status: http.StatusBadRequest, Message: "current password is required"},
			{Err: usecase.ErrCurrentPasswordInvalid, Status: http.StatusUnauthorized, Message: "current password is incorrect"},
			{Err: usecase.ErrPasswordMismatch, Status: http.StatusBadRequest, Message: "passwords do not match"},
			{Err: usecase.ErrNewPasswordInvalid, Status: http.StatusBadRequest, Message: "new password is invalid"},
		}, http.StatusInternalServerError, "failed to change password")
		return
	}

	c.JSON(http.StatusOK, newMessageResponse("password changed"))
}
