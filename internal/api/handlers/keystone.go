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

// KeystoneHandler handles keystone-related HTTP requests
type KeystoneHandler struct {
	keystoneService *service.KeystoneService
	validator       *validator.Validate
}

// NewKeystoneHandler creates a new keystone handler
func NewKeystoneHandler(keystoneService *service.KeystoneService) *KeystoneHandler {
	return &KeystoneHandler{
		keystoneService: keystoneService,
		validator:       validator.New(),
	}
}

// CreateKeystoneRequest represents the request to create a keystone
// @Description Create keystone request
type CreateKeystoneRequest struct {
	Title     string  `json:"title" validate:"required,min=1,max=255" example:"Birthday"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02" example:"2025-09-14"`
	Recurring bool    `json:"recurring" example:"true"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// UpdateKeystoneRequest represents the request to update a keystone
// @Description Update keystone request
type UpdateKeystoneRequest struct {
	Title     string  `json:"title" validate:"required,min=1,max=255" example:"Birthday"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02" example:"2025-09-14"`
	Recurring bool    `json:"recurring" example:"true"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// ListKeystones lists the acting user's keystones
// @Summary List keystones
// @Tags keystones
// @Produce json
// @Success 200 {object} api.APIResponse{data=[]repository.Keystone} "Keystones retrieved successfully"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /keystones [get]
func (h *KeystoneHandler) ListKeystones(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	keystones, err := h.keystoneService.ListKeystones(c.Request.Context(), userID)
	if err != nil {
		api.SendInternalError(c, "Failed to list keystones")
		return
	}

	api.SendSuccess(c, http.StatusOK, keystones, nil)
}

// ListKeystonesByContact lists keystones for one contact
// @Summary List keystones for a contact
// @Tags keystones
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Success 200 {object} api.APIResponse{data=[]repository.Keystone} "Keystones retrieved successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid contact ID"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Contact not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts/{id}/keystones [get]
func (h *KeystoneHandler) ListKeystonesByContact(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "id", "contact")
	if !ok {
		return
	}

	keystones, err := h.keystoneService.ListKeystonesByContact(c.Request.Context(), contactID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to list keystones")
		return
	}

	api.SendSuccess(c, http.StatusOK, keystones, nil)
}

// CreateKeystone creates a keystone for a contact
// @Summary Create a keystone
// @Tags keystones
// @Accept json
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Param keystone body CreateKeystoneRequest true "Keystone details"
// @Success 201 {object} api.APIResponse{data=repository.Keystone} "Keystone created successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid request"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Contact not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts/{id}/keystones [post]
func (h *KeystoneHandler) CreateKeystone(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "id", "contact")
	if !ok {
		return
	}

	var req CreateKeystoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		api.SendValidationError(c, "Invalid date", "date must be YYYY-MM-DD")
		return
	}

	keystone, err := h.keystoneService.CreateKeystone(c.Request.Context(), repository.CreateKeystoneRequest{
		UserID:    userID,
		ContactID: contactID,
		Title:     req.Title,
		Date:      date,
		Recurring: req.Recurring,
		Notes:     req.Notes,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to create keystone")
		return
	}

	api.SendSuccess(c, http.StatusCreated, keystone, nil)
}

// UpdateKeystone updates an existing keystone
// @Summary Update a keystone
// @Tags keystones
// @Accept json
// @Produce json
// @Param id path string true "Keystone ID" format(uuid)
// @Param keystone body UpdateKeystoneRequest true "Updated keystone details"
// @Success 200 {object} api.APIResponse{data=repository.Keystone} "Keystone updated successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid request"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Keystone not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /keystones/{id} [put]
func (h *KeystoneHandler) UpdateKeystone(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "keystone")
	if !ok {
		return
	}

	var req UpdateKeystoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		api.SendValidationError(c, "Invalid date", "date must be YYYY-MM-DD")
		return
	}

	keystone, err := h.keystoneService.UpdateKeystone(c.Request.Context(), id, userID, repository.UpdateKeystoneRequest{
		Title:     req.Title,
		Date:      date,
		Recurring: req.Recurring,
		Notes:     req.Notes,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Keystone")
			return
		}
		api.SendInternalError(c, "Failed to update keystone")
		return
	}

	api.SendSuccess(c, http.StatusOK, keystone, nil)
}

// DeleteKeystone deletes a keystone
// @Summary Delete a keystone
// @Tags keystones
// @Produce json
// @Param id path string true "Keystone ID" format(uuid)
// @Success 200 {object} api.APIResponse "Keystone deleted successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid keystone ID"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Keystone not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /keystones/{id} [delete]
func (h *KeystoneHandler) DeleteKeystone(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "keystone")
	if !ok {
		return
	}

	if err := h.keystoneService.DeleteKeystone(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Keystone")
			return
		}
		api.SendInternalError(c, "Failed to delete keystone")
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"message": "Keystone deleted"}, nil)
}
