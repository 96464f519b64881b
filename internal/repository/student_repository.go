package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db sqlx.ExtContext
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db sqlx.ExtContext) *StudentRepository {
	return &StudentRepository{db: db}
}

// Upsert inserts the student or refreshes the stored name. The returned flag
// reports whether a new row was created.
func (r *StudentRepository) Upsert(ctx context.Context, student *models.Student) (bool, error) {
	const query = `INSERT INTO students (student_id, student_name)
        VALUES ($1, $2)
        ON CONFLICT (student_id) DO UPDATE SET student_name = EXCLUDED.student_name
        RETURNING (xmax = 0) AS inserted`
	var inserted bool
	err := r.db.QueryRowxContext(ctx, query, student.StudentID, student.StudentName).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert student %s: %w", student.StudentID, err)
	}
	return inserted, nil
}

// Find fetches a student by ID.
func (r *StudentRepository) Find(ctx context.Context, studentID string) (*models.Student, error) {
	var student models.Student
	if err := sqlx.GetContext(ctx, r.db, &student,
		"SELECT student_id, student_name FROM students WHERE student_id = $1", studentID); err != nil {
		return nil, err
	}
	return &student, nil
}
