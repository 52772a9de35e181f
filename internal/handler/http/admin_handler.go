package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/handler/http/middleware"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/service"
)

// AdminHandler serves the administrative API: user management, roles,
// audit logs, system settings and the badge catalog.
type AdminHandler struct {
	users        *service.UserService
	rbac         *service.RBACService
	audit        *service.AuditService
	settings     *service.SettingsService
	gamification *service.GamificationService
	logger       *zap.Logger
}

func NewAdminHandler(
	users *service.UserService,
	rbac *service.RBACService,
	audit *service.AuditService,
	settings *service.SettingsService,
	gamification *service.GamificationService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		users:        users,
		rbac:         rbac,
		audit:        audit,
		settings:     settings,
		gamification: gamification,
		logger:       logger.Named("admin_handler"),
	}
}

type assignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type upsertSettingRequest struct {
	Value string             `json:"value" binding:"required"`
	Type  models.SettingType `json:"type" binding:"required,oneof=string int bool json"`
}

type createBadgeRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description"`
	Threshold   int    `json:"threshold" binding:"required,min=1"`
}

// ListUsers returns accounts matching the query filters.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize := paginationParams(c)
	params := models.ListUsersParams{
		Page:             page,
		PageSize:         pageSize,
		Status:           models.UserStatus(c.Query("status")),
		UsernameContains: c.Query("username"),
		EmailContains:    c.Query("email"),
	}
	users, total, err := h.users.List(c.Request.Context(), params)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	responses := make([]models.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	c.JSON(http.StatusOK, PaginatedResponse{Items: responses, TotalCount: total, Page: page, PageSize: pageSize})
}

// GetUser returns a single account with its roles.
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id", "bad_request")
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

// BlockUser blocks an account and terminates its sessions.
func (h *AdminHandler) BlockUser(c *gin.Context) {
	h.userAction(c, h.users.Block, "user blocked")
}

// UnblockUser reactivates a blocked account.
func (h *AdminHandler) UnblockUser(c *gin.Context) {
	h.userAction(c, h.users.Unblock, "user unblocked")
}

// DeleteUser soft-deletes an account and terminates its sessions.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	h.userAction(c, h.users.Delete, "user deleted")
}

// RevokeUserSessions force-terminates every active session of an account.
func (h *AdminHandler) RevokeUserSessions(c *gin.Context) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id", "bad_request")
		return
	}
	revoked, err := h.users.RevokeSessions(c.Request.Context(), actorID, userID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revoked": revoked})
}

// CreateRole creates a custom role with optional permissions.
func (h *AdminHandler) CreateRole(c *gin.Context) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	var req models.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	role, err := h.rbac.CreateRole(c.Request.Context(), actorID, req)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, role)
}

// UpdateRole edits a role's description or permission set.
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid role id", "bad_request")
		return
	}
	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	role, err := h.rbac.UpdateRole(c.Request.Context(), actorID, roleID, req)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, role)
}

// DeleteRole removes a non-system role.
func (h *AdminHandler) DeleteRole(c *gin.Context) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid role id", "bad_request")
		return
	}
	if err := h.rbac.DeleteRole(c.Request.Context(), actorID, roleID); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetRole returns a role with its permissions.
func (h *AdminHandler) GetRole(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid role id", "bad_request")
		return
	}
	role, err := h.rbac.GetRole(c.Request.Context(), roleID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, role)
}

// ListRoles returns all roles.
func (h *AdminHandler) ListRoles(c *gin.Context) {
	roles, err := h.rbac.ListRoles(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// ListPermissions returns the permission catalog.
func (h *AdminHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.rbac.ListPermissions(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"permissions": permissions})
}

// AssignRole grants a role to a user by role name.
func (h *AdminHandler) AssignRole(c *gin.Context) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id", "bad_request")
		return
	}
	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	if err := h.rbac.AssignRole(c.Request.Context(), actorID, userID, req.Role); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role assigned"})
}

// RemoveRole revokes a role from a user by role name.
func (h *AdminHandler) RemoveRole(c *gin.Context) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id", "bad_request")
		return
	}
	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	if err := h.rbac.RemoveRole(c.Request.Context(), actorID, userID, req.Role); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role removed"})
}

// ListAuditLogs returns audit records matching the query filters.
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	page, pageSize := paginationParams(c)
	params := models.ListAuditLogsParams{Page: page, PageSize: pageSize}
	if raw := c.Query("actor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid actor_id", "bad_request")
			return
		}
		params.ActorID = &id
	}
	if raw := c.Query("action"); raw != "" {
		params.Action = &raw
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AuditLogStatus(raw)
		params.Status = &status
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid from timestamp", "bad_request")
			return
		}
		params.DateFrom = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid to timestamp", "bad_request")
			return
		}
		params.DateTo = &t
	}

	logs, total, err := h.audit.List(c.Request.Context(), params)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, PaginatedResponse{Items: logs, TotalCount: total, Page: page, PageSize: pageSize})
}

// GetAuditLog returns a single audit record.
func (h *AdminHandler) GetAuditLog(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid audit log id", "bad_request")
		return
	}
	log, err := h.audit.Get(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, log)
}

// ListSettings returns all system settings.
func (h *AdminHandler) ListSettings(c *gin.Context) {
	settings, err := h.settings.ListSettings(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// GetSetting returns one system setting by key.
func (h *AdminHandler) GetSetting(c *gin.Context) {
	setting, err := h.settings.GetSetting(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// UpsertSetting writes a typed system setting.
func (h *AdminHandler) UpsertSetting(c *gin.Context) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	var req upsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	setting := &models.SystemSetting{
		Key:   c.Param("key"),
		Value: req.Value,
		Type:  req.Type,
	}
	if err := h.settings.UpsertSetting(c.Request.Context(), actorID, setting); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// DeleteSetting removes a system setting.
func (h *AdminHandler) DeleteSetting(c *gin.Context) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	if err := h.settings.DeleteSetting(c.Request.Context(), actorID, c.Param("key")); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateBadge adds a badge to the catalog.
func (h *AdminHandler) CreateBadge(c *gin.Context) {
	var req createBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	badge, err := h.gamification.CreateBadge(c.Request.Context(), req.Name, req.Description, req.Threshold)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, badge)
}

// ListBadges returns the badge catalog.
func (h *AdminHandler) ListBadges(c *gin.Context) {
	badges, err := h.gamification.ListBadges(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

func (h *AdminHandler) userAction(c *gin.Context, op func(ctx context.Context, actorID, userID uuid.UUID) error, message string) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id", "bad_request")
		return
	}
	if err := op(c.Request.Context(), actorID, userID); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
