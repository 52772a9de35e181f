package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/handler/http/middleware"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/service"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/utils/metrics"
)

// AuthHandler serves registration, login, token refresh and password
// recovery endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	tokens *service.TokenService
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, tokens *service.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens, logger: logger.Named("auth_handler")}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type verifyEmailRequest struct {
	Code string `json:"code" binding:"required"`
}

type twoFactorLoginRequest struct {
	ChallengeToken string `json:"challenge_token" binding:"required"`
	Code           string `json:"code" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Register creates a pending account and issues an email verification code.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}

	user, _, err := h.auth.Register(c.Request.Context(), req, h.requestMeta(c))
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}

	resp := user.ToResponse()
	c.JSON(http.StatusCreated, gin.H{
		"message": "registration accepted, check your email for a verification code",
		"user":    resp,
	})
}

// VerifyEmail activates an account with the emailed code.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	if err := h.auth.VerifyEmail(c.Request.Context(), req.Code, h.requestMeta(c)); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

// Login authenticates with email and password. Accounts with verified 2FA
// receive a challenge token instead of a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, h.requestMeta(c))
	if errors.Is(err, domainErrors.Err2FARequired) {
		metrics.LoginAttemptsTotal.WithLabelValues("two_factor_required").Inc()
		c.JSON(http.StatusOK, result)
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUserLockedOut):
			metrics.LoginAttemptsTotal.WithLabelValues("locked_out").Inc()
		default:
			metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		}
		respondDomainError(c, err, h.logger)
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, result)
}

// VerifyTwoFactor exchanges a challenge token plus a TOTP or backup code for
// a token pair.
func (h *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	var req twoFactorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}

	result, err := h.auth.CompleteTwoFactorLogin(c.Request.Context(), req.ChallengeToken, req.Code, h.requestMeta(c))
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		respondDomainError(c, err, h.logger)
		return
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, result)
}

// Refresh rotates a refresh token into a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}

	pair, user, err := h.tokens.Refresh(c.Request.Context(), req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, domainErrors.ErrRefreshTokenReused) {
			metrics.TokenRefreshesTotal.WithLabelValues("reuse_detected").Inc()
		} else {
			metrics.TokenRefreshesTotal.WithLabelValues("invalid").Inc()
		}
		respondDomainError(c, err, h.logger)
		return
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	resp := user.ToResponse()
	c.JSON(http.StatusOK, gin.H{"tokens": pair, "user": resp})
}

// Logout terminates the current session and blacklists the access token.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims, h.requestMeta(c)); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// LogoutAll terminates every session of the caller.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	if err := h.auth.LogoutAll(c.Request.Context(), claims, h.requestMeta(c)); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// ForgotPassword issues a reset code. The response does not reveal whether
// the account exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	if _, err := h.auth.ForgotPassword(c.Request.Context(), req.Email, h.requestMeta(c)); err != nil {
		h.logger.Error("password reset issuance failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a reset code has been sent"})
}

// ResetPassword completes recovery with an emailed code.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.Code, req.NewPassword, h.requestMeta(c)); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password has been reset"})
}

func (h *AuthHandler) requestMeta(c *gin.Context) service.RequestMeta {
	meta := service.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if device := c.GetHeader("X-Device-Info"); device != "" && json.Valid([]byte(device)) {
		meta.DeviceInfo = json.RawMessage(device)
	}
	return meta
}
