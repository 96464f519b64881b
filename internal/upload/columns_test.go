package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Course Code", "exam_code"},
		{"exam_code", "exam_code"},
		{"CODE", "exam_code"},
		{"Assessment Name", "exam_name"},
		{"Name", "exam_name"},
		{"Names", "student_name"},
		{"Mock IDs", "student_id"},
		{"ID", "student_id"},
		{"Registry", "provisions"},
		{"Adjustments", "provisions"},
		{"OL Start", "exam_start"},
		{"Time Allowed", "exam_length"},
		{"Location", "main_venue"},
		{"Department", "school"},
		{"Notes", "additional_info"},
		{"Site", "exam_building"},
		{"Invigilator Phone", "invigilator_phone"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeHeader(tt.raw), "header %q", tt.raw)
	}
}

// Each alias must resolve to exactly one canonical column, and a canonical
// name always wins over an alias that happens to collide with it.
func TestAliasIndexPrecedence(t *testing.T) {
	assert.Equal(t, "exam_name", NormalizeHeader("name"))
	assert.Equal(t, "student_name", NormalizeHeader("student name"))
	assert.Equal(t, "exam_type", NormalizeHeader("type"))
	assert.Equal(t, "provisions", NormalizeHeader("provisions"))
	assert.Equal(t, "school", NormalizeHeader("school"))
}
