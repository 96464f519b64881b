package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/pkg/cache"
	appErrors "github.com/lithium-edu/exam-rooms-api/pkg/errors"
)

type examReader interface {
	List(ctx context.Context) ([]models.Exam, error)
	FindByCourseCode(ctx context.Context, courseCode string) (*models.Exam, error)
}

type examVenueViewReader interface {
	ListViewsByExam(ctx context.Context, examID string) ([]models.ExamVenueView, error)
	ListViewsByVenue(ctx context.Context, venueName string) ([]models.ExamVenueView, error)
}

// ExamService serves the read side of the exam catalogue.
type ExamService struct {
	exams examReader
	views examVenueViewReader
	cache *cache.Store
}

// NewExamService constructs an ExamService.
func NewExamService(exams examReader, views examVenueViewReader, cacheStore *cache.Store) *ExamService {
	return &ExamService{exams: exams, views: views, cache: cacheStore}
}

// List returns every exam with its venue bindings nested.
func (s *ExamService) List(ctx context.Context) ([]models.ExamDetail, error) {
	var cached []models.ExamDetail
	if hit, err := s.cache.Get(ctx, "exams:list", &cached); err == nil && hit {
		return cached, nil
	}

	exams, err := s.exams.List(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]models.ExamDetail, 0, len(exams))
	for _, exam := range exams {
		views, err := s.views.ListViewsByExam(ctx, exam.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, models.ExamDetail{Exam: exam, ExamVenues: views})
	}

	_ = s.cache.Set(ctx, "exams:list", details)
	return details, nil
}

// Get returns one exam by course code with its venue bindings nested.
func (s *ExamService) Get(ctx context.Context, courseCode string) (*models.ExamDetail, error) {
	exam, err := s.exams.FindByCourseCode(ctx, courseCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, err
	}
	views, err := s.views.ListViewsByExam(ctx, exam.ID)
	if err != nil {
		return nil, err
	}
	return &models.ExamDetail{Exam: *exam, ExamVenues: views}, nil
}
