package handlers

import (
	"errors"
	"net/http"

	"circl/backend/internal/api"
	"circl/backend/internal/db"
	"circl/backend/internal/repository"
	"circl/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// MediaHandler handles media-record HTTP requests
type MediaHandler struct {
	mediaService *service.MediaService
	validator    *validator.Validate
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		validator:    validator.New(),
	}
}

// CreateMediaRequest represents the request to attach a media record
// @Description Create media request
type CreateMediaRequest struct {
	URL  string `json:"url" validate:"required,url,max=2000" example:"https://cdn.example.com/photos/abc.jpg"`
	Kind string `json:"kind" validate:"required,oneof=photo document voice_note" example:"photo"`
}

// ListMedia lists media records for a contact
// @Summary List media for a contact
// @Tags media
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Success 200 {object} api.APIResponse{data=[]repository.Media} "Media retrieved successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid contact ID"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Contact not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts/{id}/media [get]
func (h *MediaHandler) ListMedia(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "id", "contact")
	if !ok {
		return
	}

	media, err := h.mediaService.ListMediaByContact(c.Request.Context(), contactID, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to list media")
		return
	}

	api.SendSuccess(c, http.StatusOK, media, nil)
}

// CreateMedia attaches a media record to a contact
// @Summary Attach a media record
// @Description Record a reference to an uploaded file for a contact; the bytes live in object storage
// @Tags media
// @Accept json
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Param media body CreateMediaRequest true "Media details"
// @Success 201 {object} api.APIResponse{data=repository.Media} "Media created successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid request"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Contact not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts/{id}/media [post]
func (h *MediaHandler) CreateMedia(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	contactID, ok := parseIDParam(c, "id", "contact")
	if !ok {
		return
	}

	var req CreateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	media, err := h.mediaService.CreateMedia(c.Request.Context(), repository.CreateMediaRequest{
		UserID:    userID,
		ContactID: contactID,
		URL:       req.URL,
		Kind:      req.Kind,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to create media record")
		return
	}

	api.SendSuccess(c, http.StatusCreated, media, nil)
}

// DeleteMedia deletes a media record
// @Summary Delete a media record
// @Tags media
// @Produce json
// @Param id path string true "Media ID" format(uuid)
// @Success 200 {object} api.APIResponse "Media deleted successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid media ID"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Media not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /media/{id} [delete]
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "media")
	if !ok {
		return
	}

	if err := h.mediaService.DeleteMedia(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Media")
			return
		}
		api.SendInternalError(c, "Failed to delete media record")
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"message": "Media deleted"}, nil)
}
