package handlers

import (
	"net/http"

	"circl/backend/internal/api"
	"circl/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// maxImportSize caps uploaded CSV files at 5 MiB.
const maxImportSize = 5 << 20

// ImportHandler handles CSV contact import requests
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportContacts imports contacts from an uploaded CSV file
// @Summary Import contacts from CSV
// @Description Upload a CSV file with a header row (full_name required; email, phone, company, job_title, industry, linkedin, twitter, location, university, notes, circle and tags recognized). Rows that fail validation are skipped and reported; the rest import.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} api.APIResponse{data=service.ImportSummary} "Import finished"
// @Failure 400 {object} api.APIResponse{error=api.APIError} "Invalid upload"
// @Failure 500 {object} api.APIResponse{error=api.APIError} "Internal server error"
// @Router /contacts/import [post]
func (h *ImportHandler) ImportContacts(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		api.SendValidationError(c, "Missing CSV file", "Provide the CSV in a multipart field named 'file'")
		return
	}
	if fileHeader.Size > maxImportSize {
		api.SendValidationError(c, "File too large", "CSV uploads are limited to 5 MiB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		api.SendInternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	summary, err := h.importService.ImportContactsCSV(c.Request.Context(), userID, file)
	if err != nil {
		api.SendValidationError(c, "Could not parse CSV", err.Error())
		return
	}

	api.SendSuccess(c, http.StatusOK, summary, nil)
}
