package models

import "time"

// Exam is one examination session, keyed externally by course code.
type Exam struct {
	ID            string    `db:"id" json:"exam_id"`
	CourseCode    string    `db:"course_code" json:"course_code"`
	ExamName      string    `db:"exam_name" json:"exam_name"`
	ExamType      string    `db:"exam_type" json:"exam_type"`
	NoStudents    int       `db:"no_students" json:"no_students"`
	ExamSchool    string    `db:"exam_school" json:"exam_school"`
	SchoolContact string    `db:"school_contact" json:"school_contact"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ExamDetail is an exam with its venue bindings, as served by the read API.
type ExamDetail struct {
	Exam
	ExamVenues []ExamVenueView `json:"exam_venues"`
}
