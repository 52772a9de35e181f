package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/service"
)

// SystemHandler serves health and key discovery endpoints.
type SystemHandler struct {
	tokens *service.TokenService
}

func NewSystemHandler(tokens *service.TokenService) *SystemHandler {
	return &SystemHandler{tokens: tokens}
}

// Health reports liveness.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// JWKS publishes the RSA public key for access token verification.
func (h *SystemHandler) JWKS(c *gin.Context) {
	c.JSON(http.StatusOK, h.tokens.JWKS())
}
