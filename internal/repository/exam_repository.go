package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
)

// ExamRepository manages persistence for exam records. It runs over any
// sqlx querier so the ingest pipeline can reuse it inside a transaction.
type ExamRepository struct {
	db sqlx.ExtContext
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db sqlx.ExtContext) *ExamRepository {
	return &ExamRepository{db: db}
}

const examColumns = "id, course_code, exam_name, exam_type, no_students, exam_school, school_contact, created_at, updated_at"

// Upsert inserts the exam or refreshes it by course code. The returned flag
// reports whether a new row was created.
func (r *ExamRepository) Upsert(ctx context.Context, exam *models.Exam) (bool, error) {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	const query = `INSERT INTO exams (id, course_code, exam_name, exam_type, no_students, exam_school, school_contact)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (course_code) DO UPDATE SET
            exam_name = EXCLUDED.exam_name,
            exam_type = EXCLUDED.exam_type,
            no_students = EXCLUDED.no_students,
            exam_school = EXCLUDED.exam_school,
            school_contact = EXCLUDED.school_contact,
            updated_at = NOW()
        RETURNING id, (xmax = 0) AS inserted`
	var inserted bool
	err := r.db.QueryRowxContext(ctx, query,
		exam.ID, exam.CourseCode, exam.ExamName, exam.ExamType,
		exam.NoStudents, exam.ExamSchool, exam.SchoolContact,
	).Scan(&exam.ID, &inserted)
	if err != nil {
		return false, fmt.Errorf("upsert exam %s: %w", exam.CourseCode, err)
	}
	return inserted, nil
}

// FindByCourseCode fetches an exam by its external key. Callers distinguish
// a missing exam with sql.ErrNoRows.
func (r *ExamRepository) FindByCourseCode(ctx context.Context, courseCode string) (*models.Exam, error) {
	query := fmt.Sprintf("SELECT %s FROM exams WHERE course_code = $1", examColumns)
	var exam models.Exam
	if err := sqlx.GetContext(ctx, r.db, &exam, query, courseCode); err != nil {
		return nil, err
	}
	return &exam, nil
}

// FindByID fetches an exam by primary key.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	query := fmt.Sprintf("SELECT %s FROM exams WHERE id = $1", examColumns)
	var exam models.Exam
	if err := sqlx.GetContext(ctx, r.db, &exam, query, id); err != nil {
		return nil, err
	}
	return &exam, nil
}

// List returns all exams ordered by course code.
func (r *ExamRepository) List(ctx context.Context) ([]models.Exam, error) {
	query := fmt.Sprintf("SELECT %s FROM exams ORDER BY course_code", examColumns)
	var exams []models.Exam
	if err := sqlx.SelectContext(ctx, r.db, &exams, query); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}
