package models

import (
	"time"

	"github.com/lib/pq"
)

// ExamVenue binds an exam to a venue with a concrete start and length.
//
// A core binding carries the authoritative scheduled start/length for the
// exam at a main venue. Non-core bindings are alternate rooms allocated for
// students with accommodations and may carry shifted timings. A binding with
// a nil VenueName is a placeholder: the student needs a room offering
// ProvisionCapabilities, but no compatible venue has been uploaded yet.
type ExamVenue struct {
	ID                    string         `db:"id" json:"examvenue_id"`
	ExamID                string         `db:"exam_id" json:"exam_id"`
	VenueName             *string        `db:"venue_name" json:"venue_name"`
	StartTime             *time.Time     `db:"start_time" json:"start_time"`
	ExamLength            *int           `db:"exam_length" json:"exam_length"`
	Core                  bool           `db:"core" json:"core"`
	ProvisionCapabilities pq.StringArray `db:"provision_capabilities" json:"provision_capabilities"`
	CreatedAt             time.Time      `db:"created_at" json:"created_at"`
}

// IsPlaceholder reports whether this binding still awaits a concrete venue.
func (ev *ExamVenue) IsPlaceholder() bool {
	return ev.VenueName == nil
}

// HasCapability reports whether the capability is declared on the binding.
func (ev *ExamVenue) HasCapability(cap VenueCap) bool {
	for _, c := range ev.ProvisionCapabilities {
		if VenueCap(c) == cap {
			return true
		}
	}
	return false
}

// MergeCapabilities unions caps into the binding's declared capabilities,
// preserving order of first appearance.
func (ev *ExamVenue) MergeCapabilities(caps []VenueCap) {
	for _, cap := range caps {
		if !ev.HasCapability(cap) {
			ev.ProvisionCapabilities = append(ev.ProvisionCapabilities, string(cap))
		}
	}
}

// ExamVenueView is the nested serialization shape shared by the exam and
// venue read endpoints.
type ExamVenueView struct {
	ExamVenueID           string     `json:"examvenue_id"`
	ExamName              string     `json:"exam_name"`
	VenueName             *string    `json:"venue_name"`
	StartTime             *time.Time `json:"start_time"`
	ExamLength            *int       `json:"exam_length"`
	Core                  bool       `json:"core"`
	ProvisionCapabilities []string   `json:"provision_capabilities"`
}

// StudentExam links a student to an exam sitting and, once matched, to the
// exam venue the student will sit in. The referenced binding may itself be a
// placeholder awaiting a compatible venue upload.
type StudentExam struct {
	ID          string  `db:"id" json:"id"`
	StudentID   string  `db:"student_id" json:"student_id"`
	ExamID      string  `db:"exam_id" json:"exam_id"`
	ExamVenueID *string `db:"exam_venue_id" json:"exam_venue_id"`
}
