package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/handler/http/middleware"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/service"
)

// SpeakerHandler serves speaker profiles and contract lifecycle endpoints.
type SpeakerHandler struct {
	speakers *service.SpeakerService
	logger   *zap.Logger
}

func NewSpeakerHandler(speakers *service.SpeakerService, logger *zap.Logger) *SpeakerHandler {
	return &SpeakerHandler{speakers: speakers, logger: logger.Named("speaker_handler")}
}

type updateSpeakerRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Company  *string `json:"company,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// CreateSpeaker creates a speaker profile.
func (h *SpeakerHandler) CreateSpeaker(c *gin.Context) {
	var req models.CreateSpeakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	speaker, err := h.speakers.CreateSpeaker(c.Request.Context(), req)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, speaker)
}

// GetSpeaker returns a speaker profile.
func (h *SpeakerHandler) GetSpeaker(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid speaker id", "bad_request")
		return
	}
	speaker, err := h.speakers.GetSpeaker(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, speaker)
}

// ListSpeakers returns speaker profiles, paginated.
func (h *SpeakerHandler) ListSpeakers(c *gin.Context) {
	page, pageSize := paginationParams(c)
	speakers, total, err := h.speakers.ListSpeakers(c.Request.Context(), page, pageSize)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, PaginatedResponse{Items: speakers, TotalCount: total, Page: page, PageSize: pageSize})
}

// UpdateSpeaker edits a speaker profile.
func (h *SpeakerHandler) UpdateSpeaker(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid speaker id", "bad_request")
		return
	}
	var req updateSpeakerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}

	speaker, err := h.speakers.GetSpeaker(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	if req.FullName != nil {
		speaker.FullName = *req.FullName
	}
	if req.Bio != nil {
		speaker.Bio = *req.Bio
	}
	if req.Company != nil {
		speaker.Company = *req.Company
	}
	if req.Email != nil {
		speaker.Email = *req.Email
	}
	if err := h.speakers.UpdateSpeaker(c.Request.Context(), speaker); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, speaker)
}

// CreateContract drafts an engagement contract for an event and speaker.
func (h *SpeakerHandler) CreateContract(c *gin.Context) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	var req models.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	contract, err := h.speakers.CreateContract(c.Request.Context(), actorID, middleware.HasRole(c, models.RoleAdmin), req)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

// GetContract returns a contract to its organizer, speaker or an admin.
func (h *SpeakerHandler) GetContract(c *gin.Context) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid contract id", "bad_request")
		return
	}
	contract, err := h.speakers.GetContract(c.Request.Context(), actorID, middleware.HasRole(c, models.RoleAdmin), id)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// ListContractsByEvent returns the contracts attached to an event.
func (h *SpeakerHandler) ListContractsByEvent(c *gin.Context) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid event id", "bad_request")
		return
	}
	contracts, err := h.speakers.ListContractsByEvent(c.Request.Context(), actorID, middleware.HasRole(c, models.RoleAdmin), eventID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}

// SendContract moves a draft contract to sent.
func (h *SpeakerHandler) SendContract(c *gin.Context) {
	h.transition(c, h.speakers.SendContract)
}

// SignContract moves a sent contract to signed.
func (h *SpeakerHandler) SignContract(c *gin.Context) {
	h.transition(c, func(ctx context.Context, actorID uuid.UUID, _ bool, contractID uuid.UUID) (*models.SpeakerContract, error) {
		return h.speakers.SignContract(ctx, actorID, contractID)
	})
}

// DeclineContract moves a sent contract to declined.
func (h *SpeakerHandler) DeclineContract(c *gin.Context) {
	h.transition(c, func(ctx context.Context, actorID uuid.UUID, _ bool, contractID uuid.UUID) (*models.SpeakerContract, error) {
		return h.speakers.DeclineContract(ctx, actorID, contractID)
	})
}

// CancelContract cancels a contract where the lifecycle allows it.
func (h *SpeakerHandler) CancelContract(c *gin.Context) {
	h.transition(c, h.speakers.CancelContract)
}

func (h *SpeakerHandler) transition(c *gin.Context, op func(ctx context.Context, actorID uuid.UUID, isAdmin bool, contractID uuid.UUID) (*models.SpeakerContract, error)) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid contract id", "bad_request")
		return
	}
	contract, err := op(c.Request.Context(), actorID, middleware.HasRole(c, models.RoleAdmin), contractID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, contract)
}
