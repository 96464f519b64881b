package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lithium-edu/exam-rooms-api/internal/service"
	"github.com/lithium-edu/exam-rooms-api/pkg/response"
)

// ExportHandler serves allocation exports.
type ExportHandler struct {
	export *service.ExportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(export *service.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// Allocations streams the current exam-venue allocations as csv or pdf.
func (h *ExportHandler) Allocations(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	data, contentType, err := h.export.Allocations(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "csv"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=allocations.%s", ext))
	c.Data(http.StatusOK, contentType, data)
}
