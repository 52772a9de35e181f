package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/errors"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// PaginatedResponse wraps list payloads.
type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

func respondError(c *gin.Context, status int, message, code string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// respondDomainError maps a service error to an HTTP status using the
// domain error classifiers.
func respondDomainError(c *gin.Context, err error, logger *zap.Logger) {
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		respondError(c, appErr.StatusCode, appErr.Message, appErr.Code)
		return
	}

	switch {
	case domainErrors.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error(), "not_found")
	case domainErrors.IsConflict(err):
		respondError(c, http.StatusConflict, err.Error(), "conflict")
	case domainErrors.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, err.Error(), "unauthorized")
	case domainErrors.IsForbidden(err):
		respondError(c, http.StatusForbidden, err.Error(), "forbidden")
	case domainErrors.IsBadRequest(err):
		respondError(c, http.StatusBadRequest, err.Error(), "bad_request")
	case errors.Is(err, domainErrors.ErrUserLockedOut):
		respondError(c, http.StatusLocked, err.Error(), "locked_out")
	case errors.Is(err, domainErrors.ErrUserBlocked):
		respondError(c, http.StatusForbidden, err.Error(), "blocked")
	case errors.Is(err, domainErrors.ErrEmailNotVerified):
		respondError(c, http.StatusForbidden, err.Error(), "email_not_verified")
	case errors.Is(err, domainErrors.ErrEventNotPublished),
		errors.Is(err, domainErrors.ErrEventFull),
		errors.Is(err, domainErrors.ErrEventStarted):
		respondError(c, http.StatusConflict, err.Error(), "registration_rejected")
	case errors.Is(err, domainErrors.ErrRateLimited):
		respondError(c, http.StatusTooManyRequests, err.Error(), "rate_limited")
	case errors.Is(err, domainErrors.ErrSystemRole):
		respondError(c, http.StatusForbidden, err.Error(), "system_role")
	case errors.Is(err, domainErrors.Err2FARequired):
		respondError(c, http.StatusUnauthorized, err.Error(), "2fa_required")
	default:
		logger.Error("unhandled service error",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err))
		respondError(c, http.StatusInternalServerError, domainErrors.ErrInternal.Error(), "internal")
	}
}
