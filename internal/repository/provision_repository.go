package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
)

// ProvisionRepository manages provision records and the student-exam links
// they hang off.
type ProvisionRepository struct {
	db sqlx.ExtContext
}

// NewProvisionRepository constructs a ProvisionRepository.
func NewProvisionRepository(db sqlx.ExtContext) *ProvisionRepository {
	return &ProvisionRepository{db: db}
}

// Upsert inserts the provision record or replaces the provision list and
// notes for the (student, exam) pair. The returned flag reports whether a
// new row was created.
func (r *ProvisionRepository) Upsert(ctx context.Context, p *models.Provisions) (bool, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	const query = `INSERT INTO provisions (id, exam_id, student_id, provisions, notes)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (student_id, exam_id) DO UPDATE SET
            provisions = EXCLUDED.provisions,
            notes = EXCLUDED.notes,
            updated_at = NOW()
        RETURNING id, (xmax = 0) AS inserted`
	var inserted bool
	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.ExamID, p.StudentID, arrayOrEmpty(p.Provisions), p.Notes,
	).Scan(&p.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert provisions for %s/%s: %w", p.StudentID, p.ExamID, err)
	}
	return inserted, nil
}

// ListByExam returns all provision records for one exam.
func (r *ProvisionRepository) ListByExam(ctx context.Context, examID string) ([]models.Provisions, error) {
	const query = `SELECT id, exam_id, student_id, provisions, notes, created_at, updated_at
        FROM provisions WHERE exam_id = $1 ORDER BY student_id`
	var records []models.Provisions
	if err := sqlx.SelectContext(ctx, r.db, &records, query, examID); err != nil {
		return nil, fmt.Errorf("list provisions for exam %s: %w", examID, err)
	}
	return records, nil
}

// EnsureStudentExam returns the sitting link for the pair, creating it if
// absent. The no-op DO UPDATE makes RETURNING yield the row either way.
func (r *ProvisionRepository) EnsureStudentExam(ctx context.Context, studentID, examID string) (*models.StudentExam, error) {
	const query = `INSERT INTO student_exams (id, student_id, exam_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (student_id, exam_id) DO UPDATE SET student_id = EXCLUDED.student_id
        RETURNING id, student_id, exam_id, exam_venue_id`
	var se models.StudentExam
	err := r.db.QueryRowxContext(ctx, query, uuid.NewString(), studentID, examID).
		Scan(&se.ID, &se.StudentID, &se.ExamID, &se.ExamVenueID)
	if err != nil {
		return nil, fmt.Errorf("ensure student exam %s/%s: %w", studentID, examID, err)
	}
	return &se, nil
}

// SetStudentExamVenue points the sitting at an exam venue binding.
func (r *ProvisionRepository) SetStudentExamVenue(ctx context.Context, studentExamID string, examVenueID *string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE student_exams SET exam_venue_id = $2 WHERE id = $1", studentExamID, examVenueID); err != nil {
		return fmt.Errorf("set student exam venue %s: %w", studentExamID, err)
	}
	return nil
}

// ReassignStudentExams moves every sitting from one binding to another,
// used when a placeholder collapses into a concrete binding.
func (r *ProvisionRepository) ReassignStudentExams(ctx context.Context, fromExamVenueID, toExamVenueID string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE student_exams SET exam_venue_id = $2 WHERE exam_venue_id = $1",
		fromExamVenueID, toExamVenueID); err != nil {
		return fmt.Errorf("reassign student exams %s -> %s: %w", fromExamVenueID, toExamVenueID, err)
	}
	return nil
}
