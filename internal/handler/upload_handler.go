package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lithium-edu/exam-rooms-api/internal/middleware"
	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/internal/upload"
	"github.com/lithium-edu/exam-rooms-api/pkg/response"
)

type uploadLogLister interface {
	List(ctx context.Context, limit int) ([]models.UploadLog, error)
}

type ingestProcessor interface {
	Process(ctx context.Context, payload *upload.ParsedPayload, uploadedBy *string) (*models.IngestSummary, error)
}

// UploadHandler receives timetable spreadsheets and reports upload history.
type UploadHandler struct {
	reader   *upload.Reader
	ingest   ingestProcessor
	logs     uploadLogLister
	maxBytes int64
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(reader *upload.Reader, ingest ingestProcessor, logs uploadLogLister, maxBytes int64) *UploadHandler {
	return &UploadHandler{reader: reader, ingest: ingest, logs: logs, maxBytes: maxBytes}
}

// uploadResponse echoes the parser payload back to the caller, decorated with
// the ingest outcome. The client renders the preview straight from it, so it
// keeps the parser's shape instead of the envelope used everywhere else.
type uploadResponse struct {
	*upload.ParsedPayload
	Ingest         *models.IngestSummary `json:"ingest,omitempty"`
	RecordsCreated *int                  `json:"records_created,omitempty"`
	RecordsUpdated *int                  `json:"records_updated,omitempty"`
}

// Upload parses the posted workbook, ingests anything recognisable and echoes
// the parsed payload with an ingest summary.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": upload.MsgNoFile})
		return
	}
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("File exceeds the %d byte upload limit.", h.maxBytes),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": upload.MsgUnparsable})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": upload.MsgUnparsable})
		return
	}

	payload := h.reader.Parse(data, fileHeader.Filename)
	if !payload.OK() {
		c.JSON(http.StatusBadRequest, payload)
		return
	}

	var uploadedBy *string
	if claims := middleware.CurrentUser(c); claims != nil {
		uploadedBy = &claims.Email
	}

	summary, err := h.ingest.Process(c.Request.Context(), payload, uploadedBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := uploadResponse{ParsedPayload: payload, Ingest: summary}
	if summary != nil && summary.Handled {
		resp.RecordsCreated = &summary.Created
		resp.RecordsUpdated = &summary.Updated
	}
	c.JSON(http.StatusOK, resp)
}

// History lists recent uploads, newest first.
func (h *UploadHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.logs.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, map[string]interface{}{"count": len(logs)})
}
