package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/handler/http/middleware"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/service"
)

// MeHandler serves the authenticated user's own profile, sessions, 2FA
// settings, preferences and loyalty data.
type MeHandler struct {
	users        *service.UserService
	auth         *service.AuthService
	sessions     *service.SessionService
	twoFactor    *service.TwoFactorService
	settings     *service.SettingsService
	gamification *service.GamificationService
	events       *service.EventService
	logger       *zap.Logger
}

func NewMeHandler(
	users *service.UserService,
	auth *service.AuthService,
	sessions *service.SessionService,
	twoFactor *service.TwoFactorService,
	settings *service.SettingsService,
	gamification *service.GamificationService,
	events *service.EventService,
	logger *zap.Logger,
) *MeHandler {
	return &MeHandler{
		users:        users,
		auth:         auth,
		sessions:     sessions,
		twoFactor:    twoFactor,
		settings:     settings,
		gamification: gamification,
		events:       events,
		logger:       logger.Named("me_handler"),
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type confirmEnrollmentRequest struct {
	Code string `json:"code" binding:"required"`
}

type passwordConfirmRequest struct {
	Password string `json:"password" binding:"required"`
}

// Profile returns the caller's account.
func (h *MeHandler) Profile(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	resp := user.ToResponse()
	c.JSON(http.StatusOK, resp)
}

// ChangePassword replaces the password and logs out every other device.
func (h *MeHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}

	err := h.auth.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword, sessionID, requestMetaFromContext(c))
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed, other sessions have been terminated"})
}

// ListSessions returns the caller's active sessions.
func (h *MeHandler) ListSessions(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	sessions, err := h.sessions.ListActive(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// TerminateSession revokes one of the caller's sessions by ID.
func (h *MeHandler) TerminateSession(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid session id", "bad_request")
		return
	}
	if err := h.sessions.Terminate(c.Request.Context(), userID, sessionID, "terminated_by_user"); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// TerminateOtherSessions revokes every session except the current one.
func (h *MeHandler) TerminateOtherSessions(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	count, err := h.sessions.TerminateAllExcept(c.Request.Context(), userID, sessionID, "terminated_by_user")
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"terminated": count})
}

// EnrollTwoFactor starts TOTP enrollment and returns the provisioning URL.
func (h *MeHandler) EnrollTwoFactor(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	enrollment, err := h.twoFactor.Enroll(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// ConfirmTwoFactor finishes enrollment with a first valid code. The backup
// codes in the response are shown exactly once.
func (h *MeHandler) ConfirmTwoFactor(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	var req confirmEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	codes, err := h.twoFactor.ConfirmEnrollment(c.Request.Context(), userID, req.Code)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "two-factor authentication enabled",
		"backup_codes": codes,
	})
}

// DisableTwoFactor removes the second factor after a password check.
func (h *MeHandler) DisableTwoFactor(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	var req passwordConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	if err := h.twoFactor.Disable(c.Request.Context(), userID, req.Password); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "two-factor authentication disabled"})
}

// RegenerateBackupCodes replaces all backup codes after a password check.
func (h *MeHandler) RegenerateBackupCodes(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	var req passwordConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	codes, err := h.twoFactor.RegenerateBackupCodes(c.Request.Context(), userID, req.Password)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"backup_codes": codes})
}

// TwoFactorStatus reports whether 2FA is enabled and how many backup codes
// remain.
func (h *MeHandler) TwoFactorStatus(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	enabled, remaining, err := h.twoFactor.Status(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"enabled":           enabled,
		"backup_codes_left": remaining,
	})
}

// GetPreferences returns the caller's preferences, defaulted when unset.
func (h *MeHandler) GetPreferences(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	prefs, err := h.settings.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences applies a partial preference update.
func (h *MeHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	var req models.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	prefs, err := h.settings.UpdatePreferences(c.Request.Context(), userID, req)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// LoyaltySummary returns the caller's points balance and badges.
func (h *MeHandler) LoyaltySummary(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	summary, err := h.gamification.Summary(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// LoyaltyHistory returns the caller's point ledger, newest first.
func (h *MeHandler) LoyaltyHistory(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	page, pageSize := paginationParams(c)
	entries, total, err := h.gamification.History(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, PaginatedResponse{Items: entries, TotalCount: total, Page: page, PageSize: pageSize})
}

// ListRegistrations returns the caller's event registrations.
func (h *MeHandler) ListRegistrations(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	page, pageSize := paginationParams(c)
	regs, total, err := h.events.ListRegistrationsByUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, PaginatedResponse{Items: regs, TotalCount: total, Page: page, PageSize: pageSize})
}

func paginationParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func requestMetaFromContext(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
