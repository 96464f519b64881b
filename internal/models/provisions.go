package models

import (
	"time"

	"github.com/lib/pq"
)

// Provisions records a student's accommodations for one exam. One row per
// (student, exam); re-uploads replace the provision list and notes.
type Provisions struct {
	ID         string         `db:"id" json:"provision_id"`
	ExamID     string         `db:"exam_id" json:"exam_id"`
	StudentID  string         `db:"student_id" json:"student_id"`
	Provisions pq.StringArray `db:"provisions" json:"provisions"`
	Notes      *string        `db:"notes" json:"notes"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// Codes returns the provision list as typed codes.
func (p *Provisions) Codes() []ProvisionCode {
	codes := make([]ProvisionCode, 0, len(p.Provisions))
	for _, raw := range p.Provisions {
		codes = append(codes, ProvisionCode(raw))
	}
	return codes
}
