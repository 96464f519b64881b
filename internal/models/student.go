package models

// Student is keyed by the externally supplied student identifier.
type Student struct {
	StudentID   string `db:"student_id" json:"student_id"`
	StudentName string `db:"student_name" json:"student_name"`
}
