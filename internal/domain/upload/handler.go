package upload

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"csvviewer/internal/pkg/response"
)

// Handler exposes upload CRUD over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary Upload a CSV dataset with optional images
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param csv formData file true "CSV file (required)"
// @Param images formData file false "Image files (repeatable)"
// @Success 200 {object} map[string]interface{}
// @Failure 400,500 {object} map[string]interface{}
// @Router /uploads [post]
func (h *Handler) Create(c *gin.Context) {
	csvFile, err := c.FormFile("csv")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "CSV_REQUIRED", "CSV file is required")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_FORM", "invalid multipart form")
		return
	}

	result, err := h.service.Create(c.Request.Context(), csvFile, form.File["images"])
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// List godoc
// @Summary List uploads, most recent first
// @Tags Uploads
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /uploads [get]
func (h *Handler) List(c *gin.Context) {
	uploads, err := h.service.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"uploads": uploads})
}

// Get godoc
// @Summary Get an upload with parsed rows and inline images
// @Tags Uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /uploads/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	preview, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, preview)
}

// Download godoc
// @Summary Download the original CSV
// @Tags Uploads
// @Produce text/csv
// @Param id path string true "Upload ID"
// @Success 200 {string} string
// @Failure 404 {object} map[string]interface{}
// @Router /uploads/{id}/download [get]
func (h *Handler) Download(c *gin.Context) {
	data, filename, err := h.service.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// Delete godoc
// @Summary Delete an upload and its blobs
// @Tags Uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /uploads/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Upload deleted successfully")
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUploadNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Upload not found")
	case errors.Is(err, ErrCSVRequired):
		response.Error(c, http.StatusBadRequest, "CSV_REQUIRED", "CSV file is required")
	default:
		log.Printf("upload handler: %v", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
	}
}
