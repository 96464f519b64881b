package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/internal/upload"
	"github.com/lithium-edu/exam-rooms-api/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Upload:   config.UploadConfig{Timezone: "UTC", HeaderSearchDepth: 5},
		Matching: testMatchConfig(),
	}
}

func examIngester() *ExamIngester {
	return NewExamIngester(testConfig(), zap.NewNop())
}

func TestExamIngestCreatesExamVenueAndCoreBinding(t *testing.T) {
	store := newMemStore()
	rows := []upload.Row{{
		"exam_code":      "PHYS101",
		"exam_name":      "Mechanics",
		"exam_date":      "2026-01-05",
		"exam_start":     "10:00",
		"exam_length":    "1:00",
		"main_venue":     "Great Hall",
		"school":         "Physics",
		"no_students":    150,
		"school_contact": "p.chen@example.edu",
	}}

	summary, err := examIngester().Ingest(context.Background(), store, rows)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 1, summary.TotalRows)
	assert.Empty(t, summary.Errors)

	exam, err := store.GetExamByCourseCode(context.Background(), "PHYS101")
	require.NoError(t, err)
	assert.Equal(t, "Mechanics", exam.ExamName)
	assert.Equal(t, "Physics", exam.ExamSchool)
	assert.Equal(t, 150, exam.NoStudents)
	assert.Equal(t, "p.chen@example.edu", exam.SchoolContact)

	venue, err := store.GetVenue(context.Background(), "Great Hall")
	require.NoError(t, err)
	assert.Equal(t, models.VenueSchoolToSort, venue.VenueType)
	assert.True(t, venue.IsAccessible)

	require.Len(t, store.examVenues, 1)
	ev := store.examVenues[0]
	assert.True(t, ev.Core)
	require.NotNil(t, ev.VenueName)
	assert.Equal(t, "Great Hall", *ev.VenueName)
	assert.Equal(t, time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC), *ev.StartTime)
	assert.Equal(t, 60, *ev.ExamLength)
}

func TestExamIngestDefaultsAndMissingCode(t *testing.T) {
	store := newMemStore()
	rows := []upload.Row{
		{"exam_code": "CHEM201"},
		{"exam_code": "", "exam_name": "Orphan"},
	}

	summary, err := examIngester().Ingest(context.Background(), store, rows)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "Row 2: Missing exam_code / course_code.", summary.Errors[0])

	exam, err := store.GetExamByCourseCode(context.Background(), "CHEM201")
	require.NoError(t, err)
	assert.Equal(t, "CHEM201", exam.ExamName)
	assert.Equal(t, "Exam", exam.ExamType)
	assert.Equal(t, "Unassigned", exam.ExamSchool)
	// Absent from the sheet, not read as anything else.
	assert.Equal(t, 0, exam.NoStudents)
	assert.Equal(t, "", exam.SchoolContact)
}

func TestExamIngestTruncatesOverlongText(t *testing.T) {
	store := newMemStore()
	longName := "Introduction to Quantum Field Theory and Beyond"
	rows := []upload.Row{{
		"exam_code": "PHYS9000-RESIT-SUMMER-2026-EXTRA", // 32 chars
		"exam_name": longName,
	}}

	_, err := examIngester().Ingest(context.Background(), store, rows)
	require.NoError(t, err)

	exam, err := store.GetExamByCourseCode(context.Background(), "PHYS9000-RESIT-SUMMER-2026-EXT")
	require.NoError(t, err)
	assert.Equal(t, longName[:30], exam.ExamName)
	assert.Len(t, exam.CourseCode, 30)
}

func TestExamIngestLengthFromEndTimeAndVenueSplit(t *testing.T) {
	store := newMemStore()
	rows := []upload.Row{{
		"exam_code":  "PHYS101",
		"exam_date":  "2026-01-05",
		"exam_start": "09:30",
		"exam_end":   "11:00",
		"main_venue": "Great Hall; Room 12 / Room 14",
	}}

	_, err := examIngester().Ingest(context.Background(), store, rows)
	require.NoError(t, err)

	require.Len(t, store.examVenues, 3)
	for _, ev := range store.examVenues {
		assert.Equal(t, 90, *ev.ExamLength)
		assert.True(t, ev.Core)
	}
	assert.Len(t, store.venues, 3)
}

func TestExamIngestReuploadRefreshesTiming(t *testing.T) {
	store := newMemStore()
	ingester := examIngester()

	first := []upload.Row{{
		"exam_code": "PHYS101", "exam_date": "2026-01-05",
		"exam_start": "10:00", "exam_length": 60, "main_venue": "Great Hall",
	}}
	_, err := ingester.Ingest(context.Background(), store, first)
	require.NoError(t, err)

	second := []upload.Row{{
		"exam_code": "PHYS101", "exam_date": "2026-01-06",
		"exam_start": "14:00", "exam_length": 120, "main_venue": "Great Hall",
	}}
	summary, err := ingester.Ingest(context.Background(), store, second)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	require.Len(t, store.examVenues, 1)
	ev := store.examVenues[0]
	assert.Equal(t, time.Date(2026, 1, 6, 14, 0, 0, 0, time.UTC), *ev.StartTime)
	assert.Equal(t, 120, *ev.ExamLength)
}

func TestExamIngestUnavailableVenueParksSchedule(t *testing.T) {
	store := newMemStore()
	store.venues["Great Hall"] = models.Venue{
		VenueName: "Great Hall", VenueType: models.VenueMainHall, IsAccessible: true,
		Availability: []string{"2026-02-01"},
	}
	rows := []upload.Row{{
		"exam_code": "PHYS101", "exam_date": "2026-01-05",
		"exam_start": "10:00", "exam_length": 60, "main_venue": "Great Hall",
	}}

	_, err := examIngester().Ingest(context.Background(), store, rows)
	require.NoError(t, err)

	require.Len(t, store.examVenues, 1)
	ev := store.examVenues[0]
	assert.True(t, ev.Core)
	assert.True(t, ev.IsPlaceholder())
	assert.Equal(t, 60, *ev.ExamLength)
}

func TestExamIngestClashParksSchedule(t *testing.T) {
	store := newMemStore()
	store.venues["Great Hall"] = models.Venue{VenueName: "Great Hall", VenueType: models.VenueMainHall, IsAccessible: true}
	store.exams = append(store.exams, models.Exam{ID: "exam-other", CourseCode: "CHEM201"})
	store.examVenues = append(store.examVenues, models.ExamVenue{
		ID: "ev-other", ExamID: "exam-other", VenueName: strPtr("Great Hall"), Core: true,
		StartTime: timePtr(at(9, 0)), ExamLength: intPtr(180),
	})
	rows := []upload.Row{{
		"exam_code": "PHYS101", "exam_date": "2026-01-05",
		"exam_start": "10:00", "exam_length": 60, "main_venue": "Great Hall",
	}}

	_, err := examIngester().Ingest(context.Background(), store, rows)
	require.NoError(t, err)

	require.Len(t, store.examVenues, 2)
	parked := store.examVenues[1]
	assert.True(t, parked.Core)
	assert.True(t, parked.IsPlaceholder())
}
