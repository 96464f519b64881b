package service

import (
	"context"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
)

// Store is the persistence surface the ingest pipeline and matcher run
// against. A repository.Bundle satisfies it; the ingest orchestrator builds
// one over a transaction so an upload commits or rolls back as a unit.
type Store interface {
	UpsertExam(ctx context.Context, exam *models.Exam) (bool, error)
	GetExamByCourseCode(ctx context.Context, courseCode string) (*models.Exam, error)

	UpsertStudent(ctx context.Context, student *models.Student) (bool, error)

	GetVenue(ctx context.Context, name string) (*models.Venue, error)
	EnsureVenue(ctx context.Context, venue *models.Venue) (*models.Venue, bool, error)
	UpdateVenue(ctx context.Context, venue *models.Venue) error
	ListVenues(ctx context.Context) ([]models.Venue, error)
	LockVenue(ctx context.Context, name string) error

	ListExamVenues(ctx context.Context, examID string) ([]models.ExamVenue, error)
	ListExamVenuesByVenue(ctx context.Context, venueName string) ([]models.ExamVenue, error)
	ListPlaceholderExamVenues(ctx context.Context) ([]models.ExamVenue, error)
	CreateExamVenue(ctx context.Context, ev *models.ExamVenue) error
	UpdateExamVenue(ctx context.Context, ev *models.ExamVenue) error
	DeleteExamVenue(ctx context.Context, id string) error

	UpsertProvisions(ctx context.Context, p *models.Provisions) (bool, error)
	EnsureStudentExam(ctx context.Context, studentID, examID string) (*models.StudentExam, error)
	SetStudentExamVenue(ctx context.Context, studentExamID string, examVenueID *string) error
	ReassignStudentExams(ctx context.Context, fromExamVenueID, toExamVenueID string) error

	CreateUploadLog(ctx context.Context, log *models.UploadLog) error
}

// Transactor runs fn against a Store bound to a single database
// transaction, committing when fn returns nil.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// TransactorFunc adapts a plain function to the Transactor interface.
type TransactorFunc func(ctx context.Context, fn func(Store) error) error

// WithinTx implements Transactor.
func (f TransactorFunc) WithinTx(ctx context.Context, fn func(Store) error) error {
	return f(ctx, fn)
}
