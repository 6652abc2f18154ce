package handlers

import (
	"errors"
	"net/http"
	"time"

	"circl/backend/internal/api"
	"circl/backend/internal/db"
	"circl/backend/internal/repository"
	"circl/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// InteractionHandler handles interaction-related HTTP requests
type InteractionHandler struct {
	interactionService *service.InteractionService
	validator          *validator.Validate
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(interactionService *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		interactionService: interactionService,
		validator:          validator.New(),
	}
}

// CreateInteractionRequest represents the request to log an interaction
// @Description Create interaction request
type CreateInteractionRequest struct {
	Kind       string     `json:"kind" validate:"required,min=1,max=100" example:"call"`
	Notes      *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
	OccurredAt *time.Time `json:"occurred_at,omitempty" example:"2025-06-01T18:30:00Z"`
}

// ListInteractions lists interactions for a contact
// @Summary List interactions for a contact
// @Description Get a contact's interactions, most recent first
// @Tags interactions
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Success 200 {object} api.APIResponse{data=[]repository.Interaction} "Interactions retrieved successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid contact ID"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Contact not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts/{id}/interactions [get]
func (h *InteractionHandler) ListInteractions(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "id", "contact")
	if !ok {
		return
	}

	interactions, err := h.interactionService.ListInteractions(c.Request.Context(), contactID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to list interactions")
		return
	}

	api.SendSuccess(c, http.StatusOK, interactions, nil)
}

// CreateInteraction logs an interaction against a contact
// @Summary Log an interaction
// @Description Log an interaction for a contact; the contact's last-contacted timestamp advances when this is the newest interaction
// @Tags interactions
// @Accept json
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Param interaction body CreateInteractionRequest true "Interaction details"
// @Success 201 {object} api.APIResponse{data=repository.Interaction} "Interaction created successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid request"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Contact not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts/{id}/interactions [post]
func (h *InteractionHandler) CreateInteraction(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "id", "contact")
	if !ok {
		return
	}

	var req CreateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	repoReq := repository.CreateInteractionRequest{
		UserID:    userID,
		ContactID: contactID,
		Kind:      req.Kind,
		Notes:     req.Notes,
	}
	if req.OccurredAt != nil {
		repoReq.OccurredAt = *req.OccurredAt
	}

	interaction, err := h.interactionService.CreateInteraction(c.Request.Context(), repoReq)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to create interaction")
		return
	}

	api.SendSuccess(c, http.StatusCreated, interaction, nil)
}

// DeleteInteraction deletes an interaction
// @Summary Delete an interaction
// @Tags interactions
// @Produce json
// @Param id path string true "Interaction ID" format(uuid)
// @Success 200 {object} api.APIResponse "Interaction deleted successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid interaction ID"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Interaction not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /interactions/{id} [delete]
func (h *InteractionHandler) DeleteInteraction(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "interaction")
	if !ok {
		return
	}

	if err := h.interactionService.DeleteInteraction(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Interaction")
			return
		}
		api.SendInternalError(c, "Failed to delete interaction")
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"message": "Interaction deleted"}, nil)
}
