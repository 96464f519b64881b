package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyProvision(t *testing.T) {
	th := DefaultThresholds()

	assert.True(t, th.IsProvision([]string{"student_id", "provisions", "additional_info"}))
	assert.True(t, th.IsProvision([]string{"student_id", "registry"}))
	// Looser shape: one student column plus one adjustment column.
	assert.True(t, th.IsProvision([]string{"student_number", "exam_adjustments"}))
	assert.False(t, th.IsProvision([]string{"student_id", "exam_code"}))
	assert.False(t, th.IsProvision([]string{"exam_code", "exam_date"}))
}

func TestClassifyExam(t *testing.T) {
	th := DefaultThresholds()

	assert.True(t, th.IsExam([]string{"exam_code", "exam_date", "main_venue"}))
	assert.True(t, th.IsExam([]string{"exam_name", "exam_start"}))
	assert.False(t, th.IsExam([]string{"exam_code"}))
	// Provision shape takes priority over exam columns riding along.
	assert.False(t, th.IsExam([]string{"exam_code", "exam_date", "student_id", "provisions"}))
}

func TestClassifyVenue(t *testing.T) {
	th := DefaultThresholds()

	assert.True(t, th.IsVenue([][]interface{}{
		{"Monday", "Tuesday"},
		{"2026-01-05", "2026-01-06"},
		{"Great Hall", "Room 12"},
	}))
	assert.False(t, th.IsVenue([][]interface{}{
		{"Monday", "Tuesday"},
		{"morning", "afternoon"},
	}))
	assert.False(t, th.IsVenue([][]interface{}{
		{"exam_code", "exam_date"},
		{"PHYS101", "2026-01-05"},
	}))
	assert.False(t, th.IsVenue([][]interface{}{{"Monday"}}))
}
