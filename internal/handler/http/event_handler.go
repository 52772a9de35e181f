package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/domain/models"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/handler/http/middleware"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/service"
	"github.com/NormanSinay/tradeconnect-v1-sub002/internal/utils/metrics"
)

// EventHandler serves event lifecycle and registration endpoints.
type EventHandler struct {
	events *service.EventService
	logger *zap.Logger
}

func NewEventHandler(events *service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger.Named("event_handler")}
}

type registerForEventRequest struct {
	Mode models.ParticipationMode `json:"mode" binding:"required,oneof=in_person virtual"`
}

// Create creates a draft event owned by the caller.
func (h *EventHandler) Create(c *gin.Context) {
	organizerID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	event, err := h.events.Create(c.Request.Context(), organizerID, req)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// Get returns a single event.
func (h *EventHandler) Get(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid event id", "bad_request")
		return
	}
	event, err := h.events.Get(c.Request.Context(), eventID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, event)
}

// List returns events matching the query filters.
func (h *EventHandler) List(c *gin.Context) {
	page, pageSize := paginationParams(c)
	params := models.ListEventsParams{
		Page:     page,
		PageSize: pageSize,
		Status:   models.EventStatus(c.Query("status")),
	}
	if raw := c.Query("organizer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid organizer_id", "bad_request")
			return
		}
		params.OrganizerID = &id
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid from timestamp", "bad_request")
			return
		}
		params.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid to timestamp", "bad_request")
			return
		}
		params.To = &t
	}

	events, total, err := h.events.List(c.Request.Context(), params)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, PaginatedResponse{Items: events, TotalCount: total, Page: page, PageSize: pageSize})
}

// Update edits a draft or published event owned by the caller.
func (h *EventHandler) Update(c *gin.Context) {
	actorID, eventID, ok := h.actorAndEvent(c)
	if !ok {
		return
	}
	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	event, err := h.events.Update(c.Request.Context(), actorID, middleware.HasRole(c, models.RoleAdmin), eventID, req)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Publish moves a draft event to published.
func (h *EventHandler) Publish(c *gin.Context) {
	actorID, eventID, ok := h.actorAndEvent(c)
	if !ok {
		return
	}
	event, err := h.events.Publish(c.Request.Context(), actorID, middleware.HasRole(c, models.RoleAdmin), eventID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Cancel cancels a draft or published event.
func (h *EventHandler) Cancel(c *gin.Context) {
	actorID, eventID, ok := h.actorAndEvent(c)
	if !ok {
		return
	}
	event, err := h.events.Cancel(c.Request.Context(), actorID, middleware.HasRole(c, models.RoleAdmin), eventID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Complete marks a published event whose end time has passed as completed.
func (h *EventHandler) Complete(c *gin.Context) {
	actorID, eventID, ok := h.actorAndEvent(c)
	if !ok {
		return
	}
	event, err := h.events.Complete(c.Request.Context(), actorID, middleware.HasRole(c, models.RoleAdmin), eventID)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Register signs the caller up for a published event.
func (h *EventHandler) Register(c *gin.Context) {
	actorID, eventID, ok := h.actorAndEvent(c)
	if !ok {
		return
	}
	var req registerForEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), "bad_request")
		return
	}
	registration, err := h.events.Register(c.Request.Context(), eventID, actorID, req.Mode)
	if err != nil {
		metrics.EventRegistrationsTotal.WithLabelValues("rejected").Inc()
		respondDomainError(c, err, h.logger)
		return
	}
	metrics.EventRegistrationsTotal.WithLabelValues("confirmed").Inc()
	c.JSON(http.StatusCreated, registration)
}

// CancelRegistration withdraws the caller's registration.
func (h *EventHandler) CancelRegistration(c *gin.Context) {
	actorID, eventID, ok := h.actorAndEvent(c)
	if !ok {
		return
	}
	if err := h.events.CancelRegistration(c.Request.Context(), eventID, actorID); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	metrics.EventRegistrationsTotal.WithLabelValues("cancelled").Inc()
	c.Status(http.StatusNoContent)
}

// ListRegistrations returns the registrations for an event. Restricted to
// the organizer and admins.
func (h *EventHandler) ListRegistrations(c *gin.Context) {
	actorID, eventID, ok := h.actorAndEvent(c)
	if !ok {
		return
	}
	page, pageSize := paginationParams(c)
	regs, total, err := h.events.ListRegistrationsByEvent(c.Request.Context(), actorID, middleware.HasRole(c, models.RoleAdmin), eventID, page, pageSize)
	if err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, PaginatedResponse{Items: regs, TotalCount: total, Page: page, PageSize: pageSize})
}

// MarkAttended records attendance for a confirmed registration.
func (h *EventHandler) MarkAttended(c *gin.Context) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return
	}
	registrationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid registration id", "bad_request")
		return
	}
	if err := h.events.MarkAttended(c.Request.Context(), actorID, middleware.HasRole(c, models.RoleAdmin), registrationID); err != nil {
		respondDomainError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance recorded"})
}

func (h *EventHandler) actorAndEvent(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required", "unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid event id", "bad_request")
		return uuid.Nil, uuid.Nil, false
	}
	return actorID, eventID, true
}
