package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/internal/upload"
	"github.com/lithium-edu/exam-rooms-api/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubIngest struct {
	summary    *models.IngestSummary
	payload    *upload.ParsedPayload
	uploadedBy *string
}

func (s *stubIngest) Process(_ context.Context, payload *upload.ParsedPayload, uploadedBy *string) (*models.IngestSummary, error) {
	s.payload = payload
	s.uploadedBy = uploadedBy
	return s.summary, nil
}

func newUploadTestHandler(ingest *stubIngest) *UploadHandler {
	reader := upload.NewReader(&config.Config{})
	return NewUploadHandler(reader, ingest, nil, 10*1024*1024)
}

func examWorkbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	rows := [][]interface{}{
		{"Course Code", "Exam Name", "Exam Date", "Start", "Duration", "Venue"},
		{"PHYS101", "Mechanics", "2026-01-05", "09:30", "1:30", "Great Hall"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func perform(handler *UploadHandler, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = req
	handler.Upload(c)
	return recorder
}

func TestUploadNoFile(t *testing.T) {
	handler := newUploadTestHandler(&stubIngest{})

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	recorder := perform(handler, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, upload.MsgNoFile, body["message"])
}

func TestUploadUnparsableFile(t *testing.T) {
	handler := newUploadTestHandler(&stubIngest{})

	req := multipartUpload(t, "junk.xlsx", []byte("not a workbook"))
	recorder := perform(handler, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, upload.MsgUnparsable, body["message"])
}

func TestUploadEchoesPayloadWithIngestSummary(t *testing.T) {
	ingest := &stubIngest{summary: &models.IngestSummary{
		Handled: true, Type: "Exam", Created: 1, TotalRows: 1, Errors: []string{},
	}}
	handler := newUploadTestHandler(ingest)

	req := multipartUpload(t, "exams.xlsx", examWorkbookBytes(t))
	recorder := perform(handler, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	var body struct {
		Status         string                `json:"status"`
		Type           string                `json:"type"`
		File           string                `json:"file"`
		Rows           []map[string]any      `json:"rows"`
		Ingest         *models.IngestSummary `json:"ingest"`
		RecordsCreated *int                  `json:"records_created"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "Exam", body.Type)
	assert.Equal(t, "exams.xlsx", body.File)
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "PHYS101", body.Rows[0]["exam_code"])
	require.NotNil(t, body.Ingest)
	assert.Equal(t, 1, body.Ingest.Created)
	require.NotNil(t, body.RecordsCreated)
	assert.Equal(t, 1, *body.RecordsCreated)

	require.NotNil(t, ingest.payload)
	assert.Nil(t, ingest.uploadedBy)
}

func TestUploadRejectsOversizeFile(t *testing.T) {
	ingest := &stubIngest{}
	handler := NewUploadHandler(upload.NewReader(&config.Config{}), ingest, nil, 16)

	req := multipartUpload(t, "exams.xlsx", examWorkbookBytes(t))
	recorder := perform(handler, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Nil(t, ingest.payload)
}
