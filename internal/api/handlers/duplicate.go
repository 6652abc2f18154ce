package handlers

import (
	"errors"
	"net/http"

	"circl/backend/internal/api"
	"circl/backend/internal/db"
	"circl/backend/internal/dedupe"
	"circl/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DuplicateHandler handles duplicate-detection HTTP requests
type DuplicateHandler struct {
	duplicateService *service.DuplicateService
	validator        *validator.Validate
}

// NewDuplicateHandler creates a new duplicate handler
func NewDuplicateHandler(duplicateService *service.DuplicateService) *DuplicateHandler {
	return &DuplicateHandler{
		duplicateService: duplicateService,
		validator:        validator.New(),
	}
}

// MergeRequest represents the request to merge two contacts
// @Description Merge request naming the surviving (primary) and absorbed (secondary) contact
type MergeRequest struct {
	PrimaryID   string `json:"primary_id" validate:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	SecondaryID string `json:"secondary_id" validate:"required,uuid" example:"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`
}

// ListDuplicates scans for candidate duplicate pairs
// @Summary Scan for duplicate contacts
// @Description Run a full duplicate scan over the acting user's contacts and return candidate pairs with their similarity basis
// @Tags duplicates
// @Produce json
// @Success 200 {object} api.APIResponse{data=[]dedupe.Pair} "Scan completed successfully"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /duplicates [get]
func (h *DuplicateHandler) ListDuplicates(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	pairs, err := h.duplicateService.ScanDuplicates(c.Request.Context(), userID)
	if err != nil {
		api.SendInternalError(c, "Failed to scan for duplicates")
		return
	}

	if pairs == nil {
		pairs = []dedupe.Pair{}
	}
	api.SendSuccess(c, http.StatusOK, pairs, nil)
}

// MergeContacts merges a secondary contact into a primary contact
// @Summary Merge two contacts
// @Description Merge the secondary contact into the primary: fields are reconciled with the primary winning conflicts, dependent records are reassigned, and the secondary is deleted. The operation is atomic.
// @Tags duplicates
// @Accept json
// @Produce json
// @Param merge body MergeRequest true "Primary and secondary contact ids"
// @Success 200 {object} api.APIResponse{data=repository.Contact} "Merge completed successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid request"
// @Failure 403 {object} api.APIResponse{error=api.APIError} "Contacts owned by different users"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Contact not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /duplicates/merge [post]
func (h *DuplicateHandler) MergeContacts(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	var req MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	primaryID, _ := uuid.Parse(req.PrimaryID)
	secondaryID, _ := uuid.Parse(req.SecondaryID)
	if primaryID == secondaryID {
		api.SendValidationError(c, "Invalid merge request", "primary_id and secondary_id must differ")
		return
	}

	merged, err := h.duplicateService.MergeContacts(c.Request.Context(), primaryID, secondaryID, userID)
	if err != nil {
		var partial *service.PartialReassignmentError
		switch {
		case errors.Is(err, db.ErrNotFound):
			api.SendNotFound(c, "Contact")
		case errors.Is(err, service.ErrCrossOwner):
			api.SendForbidden(c, "Contacts are owned by different users")
		case errors.As(err, &partial):
			api.SendInternalError(c, partial.Error())
		default:
			api.SendInternalError(c, "Failed to merge contacts")
		}
		return
	}

	api.SendSuccess(c, http.StatusOK, merged, nil)
}
