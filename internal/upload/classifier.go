package upload

import (
	"strings"

	"github.com/lithium-edu/exam-rooms-api/pkg/config"
)

// Thresholds tunes the fuzzy sheet classification.
type Thresholds struct {
	ProvisionColumnHits int
	ExamColumnHits      int
	UnnamedHeaderRatio  float64
}

// DefaultThresholds matches the configuration defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{ProvisionColumnHits: 2, ExamColumnHits: 2, UnnamedHeaderRatio: 0.5}
}

// ThresholdsFromConfig lifts the classifier knobs out of the app config.
func ThresholdsFromConfig(cfg config.ClassifierConfig) Thresholds {
	t := DefaultThresholds()
	if cfg.ProvisionColumnHits > 0 {
		t.ProvisionColumnHits = cfg.ProvisionColumnHits
	}
	if cfg.ExamColumnHits > 0 {
		t.ExamColumnHits = cfg.ExamColumnHits
	}
	if cfg.UnnamedHeaderRatio > 0 {
		t.UnnamedHeaderRatio = cfg.UnnamedHeaderRatio
	}
	return t
}

var provisionIndicators = []string{
	"student_id", "student_name", "provisions", "additional_info", "registry", "mock_ids",
}

var examIndicators = []string{
	"exam_code", "exam_name", "exam_date", "exam_start",
	"main_venue", "exam_type", "exam_end", "exam_length",
}

func countHits(columns, indicators []string) int {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	hits := 0
	for _, ind := range indicators {
		if present[ind] {
			hits++
		}
	}
	return hits
}

// IsProvision reports whether normalized columns look like a student
// provisions sheet. Besides indicator counting it accepts the looser shape
// of one student-ish column alongside one provision-ish column.
func (t Thresholds) IsProvision(columns []string) bool {
	if countHits(columns, provisionIndicators) >= t.ProvisionColumnHits {
		return true
	}
	hasStudent, hasProvision := false, false
	for _, c := range columns {
		if strings.Contains(c, "student") {
			hasStudent = true
		}
		if strings.Contains(c, "provision") || strings.Contains(c, "registry") ||
			strings.Contains(c, "adjustment") {
			hasProvision = true
		}
	}
	return hasStudent && hasProvision
}

// IsExam reports whether normalized columns look like an exam timetable.
// Provision sheets win when a sheet satisfies both shapes: student columns
// often drag exam columns along with them.
func (t Thresholds) IsExam(columns []string) bool {
	if t.IsProvision(columns) {
		return false
	}
	return countHits(columns, examIndicators) >= t.ExamColumnHits
}

var weekdayNames = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"mon": true, "tue": true, "tues": true, "wed": true, "thu": true,
	"thur": true, "thurs": true, "fri": true, "sat": true, "sun": true,
}

func isWeekday(value interface{}) bool {
	text := strings.ToLower(CleanString(value, 0))
	return weekdayNames[text]
}

func isDateLike(value interface{}) bool {
	_, ok := CoerceDate(value)
	return ok
}

// IsVenue reports whether the raw grid looks like a venue availability
// calendar: a row of weekday names directly above a row of dates.
func (t Thresholds) IsVenue(grid [][]interface{}) bool {
	if len(grid) < 2 {
		return false
	}
	days, dates := 0, 0
	for _, cell := range grid[0] {
		if isWeekday(cell) {
			days++
		}
	}
	for _, cell := range grid[1] {
		if isDateLike(cell) {
			dates++
		}
	}
	return days > 0 && dates > 0
}
