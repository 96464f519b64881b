package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
)

// Bundle groups every repository over a single querier. The ingest pipeline
// builds one over a transaction so a whole upload commits or rolls back as a
// unit; read services build one over the pooled DB.
type Bundle struct {
	Exams      *ExamRepository
	Venues     *VenueRepository
	ExamVenues *ExamVenueRepository
	Students   *StudentRepository
	Provisions *ProvisionRepository
	UploadLogs *UploadLogRepository
}

// NewBundle wires all repositories over the querier.
func NewBundle(q sqlx.ExtContext) *Bundle {
	return &Bundle{
		Exams:      NewExamRepository(q),
		Venues:     NewVenueRepository(q),
		ExamVenues: NewExamVenueRepository(q),
		Students:   NewStudentRepository(q),
		Provisions: NewProvisionRepository(q),
		UploadLogs: NewUploadLogRepository(q),
	}
}

// Flat delegations below satisfy the service layer's store interfaces.

func (b *Bundle) UpsertExam(ctx context.Context, exam *models.Exam) (bool, error) {
	return b.Exams.Upsert(ctx, exam)
}

func (b *Bundle) GetExamByCourseCode(ctx context.Context, courseCode string) (*models.Exam, error) {
	return b.Exams.FindByCourseCode(ctx, courseCode)
}

func (b *Bundle) ListExams(ctx context.Context) ([]models.Exam, error) {
	return b.Exams.List(ctx)
}

func (b *Bundle) UpsertStudent(ctx context.Context, student *models.Student) (bool, error) {
	return b.Students.Upsert(ctx, student)
}

func (b *Bundle) GetVenue(ctx context.Context, name string) (*models.Venue, error) {
	return b.Venues.Find(ctx, name)
}

func (b *Bundle) EnsureVenue(ctx context.Context, venue *models.Venue) (*models.Venue, bool, error) {
	return b.Venues.Ensure(ctx, venue)
}

func (b *Bundle) UpdateVenue(ctx context.Context, venue *models.Venue) error {
	return b.Venues.Update(ctx, venue)
}

func (b *Bundle) ListVenues(ctx context.Context) ([]models.Venue, error) {
	return b.Venues.List(ctx)
}

func (b *Bundle) LockVenue(ctx context.Context, name string) error {
	return b.Venues.Lock(ctx, name)
}

func (b *Bundle) ListExamVenues(ctx context.Context, examID string) ([]models.ExamVenue, error) {
	return b.ExamVenues.ListByExam(ctx, examID)
}

func (b *Bundle) ListExamVenuesByVenue(ctx context.Context, venueName string) ([]models.ExamVenue, error) {
	return b.ExamVenues.ListByVenue(ctx, venueName)
}

func (b *Bundle) ListPlaceholderExamVenues(ctx context.Context) ([]models.ExamVenue, error) {
	return b.ExamVenues.ListPlaceholders(ctx)
}

func (b *Bundle) CreateExamVenue(ctx context.Context, ev *models.ExamVenue) error {
	return b.ExamVenues.Create(ctx, ev)
}

func (b *Bundle) UpdateExamVenue(ctx context.Context, ev *models.ExamVenue) error {
	return b.ExamVenues.Update(ctx, ev)
}

func (b *Bundle) DeleteExamVenue(ctx context.Context, id string) error {
	return b.ExamVenues.Delete(ctx, id)
}

func (b *Bundle) UpsertProvisions(ctx context.Context, p *models.Provisions) (bool, error) {
	return b.Provisions.Upsert(ctx, p)
}

func (b *Bundle) EnsureStudentExam(ctx context.Context, studentID, examID string) (*models.StudentExam, error) {
	return b.Provisions.EnsureStudentExam(ctx, studentID, examID)
}

func (b *Bundle) SetStudentExamVenue(ctx context.Context, studentExamID string, examVenueID *string) error {
	return b.Provisions.SetStudentExamVenue(ctx, studentExamID, examVenueID)
}

func (b *Bundle) ReassignStudentExams(ctx context.Context, fromExamVenueID, toExamVenueID string) error {
	return b.Provisions.ReassignStudentExams(ctx, fromExamVenueID, toExamVenueID)
}

func (b *Bundle) CreateUploadLog(ctx context.Context, log *models.UploadLog) error {
	return b.UploadLogs.Create(ctx, log)
}
