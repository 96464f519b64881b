package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lithium-edu/exam-rooms-api/internal/service"
	"github.com/lithium-edu/exam-rooms-api/pkg/response"
)

// ExamHandler serves the exam read API.
type ExamHandler struct {
	exams *service.ExamService
}

// NewExamHandler constructs an ExamHandler.
func NewExamHandler(exams *service.ExamService) *ExamHandler {
	return &ExamHandler{exams: exams}
}

// List returns all exams with their venue bindings.
func (h *ExamHandler) List(c *gin.Context) {
	exams, err := h.exams.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exams, map[string]interface{}{"count": len(exams)})
}

// Get returns one exam by course code.
func (h *ExamHandler) Get(c *gin.Context) {
	exam, err := h.exams.Get(c.Request.Context(), c.Param("course_code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, exam)
}
