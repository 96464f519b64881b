package service

import (
	"context"
	"strconv"
	"strings"

	appErrors "github.com/lithium-edu/exam-rooms-api/pkg/errors"
	"github.com/lithium-edu/exam-rooms-api/pkg/export"
)

// ExportService renders the exam allocation table as CSV or PDF.
type ExportService struct {
	exams *ExamService
	csv   *export.CSVExporter
	pdf   *export.PDFExporter
}

// NewExportService constructs an ExportService.
func NewExportService(exams *ExamService) *ExportService {
	return &ExportService{exams: exams, csv: export.NewCSVExporter(), pdf: export.NewPDFExporter()}
}

var allocationHeaders = []string{
	"course_code", "exam_name", "venue", "start_time", "exam_length", "core", "capabilities",
}

// Allocations renders one row per exam-venue binding. format is "csv" or
// "pdf"; the returned content type matches.
func (s *ExportService) Allocations(ctx context.Context, format string) ([]byte, string, error) {
	details, err := s.exams.List(ctx)
	if err != nil {
		return nil, "", err
	}

	data := export.NewDataset(allocationHeaders...)
	for _, detail := range details {
		if len(detail.ExamVenues) == 0 {
			data.AddRow(map[string]string{
				"course_code": detail.CourseCode,
				"exam_name":   detail.ExamName,
			})
			continue
		}
		for _, view := range detail.ExamVenues {
			row := map[string]string{
				"course_code":  detail.CourseCode,
				"exam_name":    detail.ExamName,
				"core":         strconv.FormatBool(view.Core),
				"capabilities": strings.Join(view.ProvisionCapabilities, "; "),
			}
			if view.VenueName != nil {
				row["venue"] = *view.VenueName
			} else {
				row["venue"] = "(unallocated)"
			}
			if view.StartTime != nil {
				row["start_time"] = view.StartTime.Format("2006-01-02 15:04")
			}
			if view.ExamLength != nil {
				row["exam_length"] = strconv.Itoa(*view.ExamLength)
			}
			data.AddRow(row)
		}
	}

	switch strings.ToLower(format) {
	case "", "csv":
		body, err := s.csv.Render(data)
		return body, "text/csv", err
	case "pdf":
		body, err := s.pdf.Render(data, "Exam room allocations")
		return body, "application/pdf", err
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}
}
