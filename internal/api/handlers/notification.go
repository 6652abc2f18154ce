package handlers

import (
	"errors"
	"net/http"

	"circl/backend/internal/api"
	"circl/backend/internal/db"
	"circl/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationService *service.NotificationService
	validator           *validator.Validate
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		validator:           validator.New(),
	}
}

// ListNotificationsQuery represents query parameters for listing notifications
type ListNotificationsQuery struct {
	Page  int `form:"page" validate:"omitempty,min=1" example:"1"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=100" example:"20"`
}

// ListNotifications lists the acting user's notifications
// @Summary List notifications
// @Description Get a page of the acting user's notifications, unread first
// @Tags notifications
// @Produce json
// @Param page query int false "Page number" default(1) minimum(1)
// @Param limit query int false "Items per page" default(20) minimum(1) maximum(100)
// @Success 200 {object} api.APIResponse{data=[]repository.Notification} "Notifications retrieved successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid query parameters"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	var query ListNotificationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		api.SendValidationError(c, "Invalid query parameters", err.Error())
		return
	}
	if err := h.validator.Struct(query); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 20
	}

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), userID,
		int32(query.Limit), int32((query.Page-1)*query.Limit))
	if err != nil {
		api.SendInternalError(c, "Failed to list notifications")
		return
	}

	api.SendSuccess(c, http.StatusOK, notifications, nil)
}

// MarkNotificationRead marks one notification as read
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} api.APIResponse "Notification marked as read"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid notification ID"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Notification not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationService.MarkNotificationRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Notification")
			return
		}
		api.SendInternalError(c, "Failed to mark notification as read")
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"message": "Notification marked as read"}, nil)
}
