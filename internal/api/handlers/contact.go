package handlers

import (
	"errors"
	"net/http"

	"circl/backend/internal/api"
	"circl/backend/internal/auth"
	"circl/backend/internal/db"
	"circl/backend/internal/repository"
	"circl/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ContactHandler handles contact-related HTTP requests
type ContactHandler struct {
	contactService *service.ContactService
	validator      *validator.Validate
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		validator:      validator.New(),
	}
}

// CreateContactRequest represents the request to create a contact
// @Description Create contact request
type CreateContactRequest struct {
	FullName   string   `json:"full_name" validate:"required,min=1,max=255" example:"Jane Doe"`
	Email      *string  `json:"email,omitempty" validate:"omitempty,email,max=255" example:"jane@example.com"`
	Phone      *string  `json:"phone,omitempty" validate:"omitempty,max=50" example:"+1 555 0100"`
	Company    *string  `json:"company,omitempty" validate:"omitempty,max=255" example:"Acme Corp"`
	JobTitle   *string  `json:"job_title,omitempty" validate:"omitempty,max=255" example:"Engineer"`
	Industry   *string  `json:"industry,omitempty" validate:"omitempty,max=255" example:"Software"`
	LinkedIn   *string  `json:"linkedin,omitempty" validate:"omitempty,max=255"`
	Twitter    *string  `json:"twitter,omitempty" validate:"omitempty,max=255"`
	Location   *string  `json:"location,omitempty" validate:"omitempty,max=255" example:"San Francisco, CA"`
	University *string  `json:"university,omitempty" validate:"omitempty,max=255"`
	Notes      *string  `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Tags       []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Circle     string   `json:"circle,omitempty" validate:"omitempty,oneof=inner middle outer" example:"middle"`
}

// UpdateContactRequest represents the request to update a contact
// @Description Update contact request
type UpdateContactRequest struct {
	FullName   string   `json:"full_name" validate:"required,min=1,max=255" example:"Jane Doe"`
	Email      *string  `json:"email,omitempty" validate:"omitempty,email,max=255" example:"jane@example.com"`
	Phone      *string  `json:"phone,omitempty" validate:"omitempty,max=50"`
	Company    *string  `json:"company,omitempty" validate:"omitempty,max=255"`
	JobTitle   *string  `json:"job_title,omitempty" validate:"omitempty,max=255"`
	Industry   *string  `json:"industry,omitempty" validate:"omitempty,max=255"`
	LinkedIn   *string  `json:"linkedin,omitempty" validate:"omitempty,max=255"`
	Twitter    *string  `json:"twitter,omitempty" validate:"omitempty,max=255"`
	Location   *string  `json:"location,omitempty" validate:"omitempty,max=255"`
	University *string  `json:"university,omitempty" validate:"omitempty,max=255"`
	Notes      *string  `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Tags       []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Circle     string   `json:"circle" validate:"required,oneof=inner middle outer" example:"middle"`
}

// TouchContactRequest represents the request to log a quick touch point
type TouchContactRequest struct {
	Kind  string  `json:"kind,omitempty" validate:"omitempty,max=100" example:"call"`
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// ListContactsQuery represents query parameters for listing contacts
type ListContactsQuery struct {
	Page   int    `form:"page" validate:"omitempty,min=1" example:"1"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100" example:"20"`
	Search string `form:"search" validate:"omitempty,max=255" example:"jane"`
}

// userIDOrAbort pulls the acting user id out of the request context. It only
// fails if a route was registered without UserIdentityMiddleware.
func userIDOrAbort(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := auth.UserID(c)
	if !ok {
		api.SendInternalError(c, "Request context is missing user identity")
		return uuid.Nil, false
	}
	return userID, true
}

func parseIDParam(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		api.SendValidationError(c, "Invalid "+resource+" ID", "ID must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func createRequestToRepo(userID uuid.UUID, req CreateContactRequest) repository.CreateContactRequest {
	return repository.CreateContactRequest{
		UserID:     userID,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Company:    req.Company,
		JobTitle:   req.JobTitle,
		Industry:   req.Industry,
		LinkedIn:   req.LinkedIn,
		Twitter:    req.Twitter,
		Location:   req.Location,
		University: req.University,
		Notes:      req.Notes,
		Tags:       req.Tags,
		Circle:     repository.Circle(req.Circle),
	}
}

func updateRequestToRepo(req UpdateContactRequest) repository.UpdateContactRequest {
	return repository.UpdateContactRequest{
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Company:    req.Company,
		JobTitle:   req.JobTitle,
		Industry:   req.Industry,
		LinkedIn:   req.LinkedIn,
		Twitter:    req.Twitter,
		Location:   req.Location,
		University: req.University,
		Notes:      req.Notes,
		Tags:       req.Tags,
		Circle:     repository.Circle(req.Circle),
	}
}

// CreateContact creates a new contact
// @Summary Create a new contact
// @Description Create a new contact owned by the acting user
// @Tags contacts
// @Accept json
// @Produce json
// @Param contact body CreateContactRequest true "Contact information"
// @Success 201 {object} api.APIResponse{data=repository.Contact} "Contact created successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid request"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts [post]
func (h *ContactHandler) CreateContact(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), createRequestToRepo(userID, req))
	if err != nil {
		api.SendInternalError(c, "Failed to create contact")
		return
	}

	api.SendSuccess(c, http.StatusCreated, contact, nil)
}

// GetContact retrieves a contact by ID
// @Summary Get a contact by ID
// @Tags contacts
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Success 200 {object} api.APIResponse{data=repository.Contact} "Contact retrieved successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid contact ID"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Contact not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts/{id} [get]
func (h *ContactHandler) GetContact(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "contact")
	if !ok {
		return
	}

	contact, err := h.contactService.GetContact(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to retrieve contact")
		return
	}

	api.SendSuccess(c, http.StatusOK, contact, nil)
}

// ListContacts retrieves a paginated list of contacts
// @Summary List contacts
// @Description Get a paginated list of the acting user's contacts with optional search
// @Tags contacts
// @Produce json
// @Param page query int false "Page number" default(1) minimum(1)
// @Param limit query int false "Items per page" default(20) minimum(1) maximum(100)
// @Param search query string false "Search term (name, email or company)" maxlength(255)
// @Success 200 {object} api.APIResponse{data=[]repository.Contact,meta=api.Meta} "Contacts retrieved successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid query parameters"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	var query ListContactsQuery
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
	offset := int32((query.Page - 1) * query.Limit)

	if query.Search != "" {
		contacts, err := h.contactService.SearchContacts(c.Request.Context(), repository.SearchContactsParams{
			UserID: userID,
			Query:  query.Search,
			Limit:  int32(query.Limit),
			Offset: offset,
		})
		if err != nil {
			api.SendInternalError(c, "Failed to search contacts")
			return
		}
		api.SendSuccess(c, http.StatusOK, contacts, nil)
		return
	}

	contacts, total, err := h.contactService.ListContactsPage(c.Request.Context(), repository.ListContactsParams{
		UserID: userID,
		Limit:  int32(query.Limit),
		Offset: offset,
	})
	if err != nil {
		api.SendInternalError(c, "Failed to list contacts")
		return
	}

	pages := int(total) / query.Limit
	if int(total)%query.Limit > 0 {
		pages++
	}
	api.SendSuccess(c, http.StatusOK, contacts, &api.Meta{
		Pagination: &api.PaginationMeta{
			Page:  query.Page,
			Limit: query.Limit,
			Total: total,
			Pages: pages,
		},
	})
}

// UpdateContact updates an existing contact
// @Summary Update a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Param contact body UpdateContactRequest true "Updated contact information"
// @Success 200 {object} api.APIResponse{data=repository.Contact} "Contact updated successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid request"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Contact not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts/{id} [put]
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "contact")
	if !ok {
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), id, userID, updateRequestToRepo(req))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to update contact")
		return
	}

	api.SendSuccess(c, http.StatusOK, contact, nil)
}

// DeleteContact deletes a contact
// @Summary Delete a contact
// @Tags contacts
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Success 200 {object} api.APIResponse "Contact deleted successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid contact ID"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Contact not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "contact")
	if !ok {
		return
	}

	if err := h.contactService.DeleteContact(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to delete contact")
		return
	}

	api.SendSuccess(c, http.StatusOK, gin.H{"message": "Contact deleted"}, nil)
}

// TouchContact logs a touch point and bumps last-contacted
// @Summary Mark a contact as contacted
// @Description Log an interaction now and update the contact's last-contacted timestamp
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Param touch body TouchContactRequest false "Touch point details"
// @Success 200 {object} api.APIResponse{data=repository.Contact} "Contact touched successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid request"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Contact not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts/{id}/touch [post]
func (h *ContactHandler) TouchContact(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "contact")
	if !ok {
		return
	}

	req := TouchContactRequest{Kind: "touch"}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			api.SendValidationError(c, "Invalid request body", err.Error())
			return
		}
		if req.Kind == "" {
			req.Kind = "touch"
		}
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendValidationError(c, "Validation failed", err.Error())
		return
	}

	contact, err := h.contactService.TouchContact(c.Request.Context(), id, userID, req.Kind, req.Notes)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to update contact")
		return
	}

	api.SendSuccess(c, http.StatusOK, contact, nil)
}

// GetContactStrength computes the connection strength for a contact
// @Summary Get connection strength for a contact
// @Description Derive a strength score, level and suggestions from the contact's circle and interaction history
// @Tags contacts
// @Produce json
// @Param id path string true "Contact ID" format(uuid)
// @Success 200 {object} api.APIResponse{data=strength.Strength} "Strength computed successfully"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid contact ID"
// @Failure 404 {object} api.APIResponse{error=api.APIError} "Contact not found"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts/{id}/strength [get]
func (h *ContactHandler) GetContactStrength(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "contact")
	if !ok {
		return
	}

	result, err := h.contactService.ContactStrength(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			api.SendNotFound(c, "Contact")
			return
		}
		api.SendInternalError(c, "Failed to compute connection strength")
		return
	}

	api.SendSuccess(c, http.StatusOK, result, nil)
}
