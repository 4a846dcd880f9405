package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lambojac/mirriora/internal/usecase"
)

// AuthHandler exposes registration, login, and OTP verification endpoints.
type AuthHandler struct {
	auth         *usecase.AuthService
	registration *usecase.RegistrationService
}

func NewAuthHandler(auth *usecase.AuthService, registration *usecase.RegistrationService) *AuthHandler {
	return &AuthHandler{auth: auth, registration: registration}
}

// Register godoc
// @Summary Register a new account
// @Description Creates an unverified account and sends a one-time code to the supplied contact.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	out, err := h.registration.Register(c.Request.Context(), usecase.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrContactRequired, Status: http.StatusBadRequest, Message: "either email or phone is required"},
			{Err: usecase.ErrEmailInvalid, Status: http.StatusBadRequest, Message: "email is invalid"},
			{Err: usecase.ErrPhoneInvalid, Status: http.StatusBadRequest, Message: "phone is invalid"},
			{Err: usecase.ErrPasswordInvalid, Status: http.StatusBadRequest, Message: "password must be at least 6 characters"},
			{Err: usecase.ErrContactTaken, Status: http.StatusConflict, Message: "account with this contact already exists"},
		}, http.StatusInternalServerError, "failed to register account")
		return
	}

	message := "account created, verification code sent"
	if !out.VerificationSent {
		message = "account created, verification code could not be sent, use resend"
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Success:          true,
		Message:          message,
		VerificationSent: out.VerificationSent,
		User:             newUserSummary(out.User),
	})
}

// Login godoc
// @Summary Authenticate with email or phone
// @Description Validates credentials and issues a bearer token, also set as an httpOnly cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "identifier and password are required"))
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "account not found"},
			{Err: usecase.ErrAccountNotVerified, Status: http.StatusForbidden, Message: "account is not verified"},
			{Err: usecase.ErrAccountDeactivated, Status: http.StatusForbidden, Message: "account is deactivated"},
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
		}, http.StatusInternalServerError, "failed to login")
		return
	}

	h.setAuthCookie(c, token, int(h.auth.TokenTTL().Seconds()))

	c.JSON(http.StatusOK, LoginResponse{
		Success: true,
		Message: "login successful",
		Token:   token,
		User:    newUserSummary(user),
	})
}

// Logout godoc
// @Summary Clear the auth cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /api/v1/auth/logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setAuthCookie(c, "", -1)
	c.JSON(http.StatusOK, newMessageResponse("logged out"))
}

// VerifyOTP godoc
// @Summary Verify an account with a one-time code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Verification request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "identifier and otp are required"))
		return
	}

	if err := h.registration.VerifyOTP(c.Request.Context(), req.Identifier, req.OTP); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "account not found"},
			{Err: usecase.ErrAlreadyVerified, Status: http.StatusConflict, Message: "account is already verified"},
			{Err: usecase.ErrOTPExpired, Status: http.StatusBadRequest, Message: "verification code has expired"},
			{Err: usecase.ErrOTPInvalid, Status: http.StatusBadRequest, Message: "verification code is invalid"},
		}, http.StatusInternalServerError, "failed to verify account")
		return
	}

	c.JSON(http.StatusOK, newMessageResponse("account verified"))
}

// ResendVerificationOTP godoc
// @Summary Resend the account verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ResendOTPRequest true "Resend request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/v1/auth/resend-verification-otp [post]
func (h *AuthHandler) ResendVerificationOTP(c *gin.Context) {
	var req ResendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "identifier is required"))
		return
	}

	if err := h.registration.ResendVerificationOTP(c.Request.Context(), req.Identifier); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "account not found"},
			{Err: usecase.ErrAlreadyVerified, Status: http.StatusConflict, Message: "account is already verified"},
		}, http.StatusInternalServerError, "failed to resend verification code")
		return
	}

	c.JSON(http.StatusOK, newMessageResponse("verification code sent"))
}

// setAuthCookie writes the bearer token cookie. SameSite=None with the secure
// flag so browser clients on other origins can send it back.
func (h *AuthHandler) setAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("token", token, maxAge, "/", "", true, true)
}
