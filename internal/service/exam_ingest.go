package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/internal/upload"
	"github.com/lithium-edu/exam-rooms-api/pkg/config"
)

// venueSeparators splits a main_venue cell listing several rooms.
var venueSeparators = regexp.MustCompile(`[;,/|]`)

// ExamIngester turns classified exam rows into exams, venues, and core
// exam-venue bindings.
type ExamIngester struct {
	tz     *time.Location
	logger *zap.Logger
}

// NewExamIngester resolves the upload timezone once; naive start times in
// the sheets are local to the institution, not UTC.
func NewExamIngester(cfg *config.Config, logger *zap.Logger) *ExamIngester {
	loc, err := time.LoadLocation(cfg.Upload.Timezone)
	if err != nil {
		logger.Warn("invalid upload timezone, falling back to UTC",
			zap.String("timezone", cfg.Upload.Timezone), zap.Error(err))
		loc = time.UTC
	}
	return &ExamIngester{tz: loc, logger: logger}
}

// Ingest upserts one exam per row and binds it to each listed venue.
// Created/updated counts reflect exams only; venue and binding writes ride
// along without inflating them.
func (ing *ExamIngester) Ingest(ctx context.Context, store Store, rows []upload.Row) (*models.IngestSummary, error) {
	summary := models.NewIngestSummary(len(rows))
	summary.Handled = true
	summary.Type = string(upload.FileTypeExam)

	for i, row := range rows {
		courseCode := upload.CleanString(row["exam_code"], 30)
		if courseCode == "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("Row %d: Missing exam_code / course_code.", i+1))
			continue
		}

		exam := ing.buildExam(row, courseCode)
		created, err := store.UpsertExam(ctx, exam)
		if err != nil {
			return nil, err
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}

		start := ing.examStart(row)
		length := examLength(row, start)

		for _, venueName := range splitVenues(upload.CleanString(row["main_venue"], 0)) {
			if err := ing.bindCoreVenue(ctx, store, exam, venueName, start, length); err != nil {
				return nil, err
			}
		}
	}
	return summary, nil
}

func (ing *ExamIngester) buildExam(row upload.Row, courseCode string) *models.Exam {
	exam := &models.Exam{
		CourseCode:    courseCode,
		ExamName:      upload.CleanString(row["exam_name"], 30),
		ExamType:      upload.CleanString(row["exam_type"], 30),
		ExamSchool:    upload.CleanString(row["school"], 30),
		SchoolContact: upload.CleanString(row["school_contact"], 100),
	}
	if students, ok := upload.CoerceInt(row["no_students"]); ok {
		exam.NoStudents = students
	}
	if exam.ExamName == "" {
		exam.ExamName = courseCode
	}
	if exam.ExamType == "" {
		exam.ExamType = "Exam"
	}
	if exam.ExamSchool == "" {
		exam.ExamSchool = "Unassigned"
	}
	return exam
}

// examStart resolves the scheduled start: a full datetime in exam_start, or
// an exam_date combined with a time-of-day. Returns nil when undetermined.
func (ing *ExamIngester) examStart(row upload.Row) *time.Time {
	if dt, ok := upload.CoerceDateTime(row["exam_start"]); ok {
		local := time.Date(dt.Year(), dt.Month(), dt.Day(), dt.Hour(), dt.Minute(), dt.Second(), 0, ing.tz)
		return &local
	}
	date, ok := upload.CoerceDate(row["exam_date"])
	if !ok {
		return nil
	}
	tod, ok := upload.CoerceTime(row["exam_start"])
	if !ok {
		return nil
	}
	local := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, ing.tz).Add(tod)
	return &local
}

// examLength resolves the duration in minutes: an explicit exam_length, or
// the distance to exam_end, treating an end before the start as crossing
// midnight. Returns nil when undetermined.
func examLength(row upload.Row, start *time.Time) *int {
	if minutes, ok := upload.CoerceMinutes(row["exam_length"]); ok {
		return &minutes
	}
	if start == nil {
		return nil
	}
	end, ok := upload.CoerceTime(row["exam_end"])
	if !ok {
		return nil
	}
	startOfDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endAt := startOfDay.Add(end)
	if !endAt.After(*start) {
		endAt = endAt.AddDate(0, 0, 1)
	}
	minutes := int(endAt.Sub(*start).Minutes())
	return &minutes
}

func splitVenues(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := venueSeparators.Split(raw, -1)
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// bindCoreVenue records the exam's scheduled sitting at the venue. The venue
// is created on first sight with placeholder attributes for an admin to sort
// later. When the room is unavailable that day or another exam clashes, the
// scheduled timing is parked on a core placeholder instead.
func (ing *ExamIngester) bindCoreVenue(ctx context.Context, store Store, exam *models.Exam, venueName string, start *time.Time, length *int) error {
	venue, _, err := store.EnsureVenue(ctx, &models.Venue{
		VenueName:    venueName,
		VenueType:    models.VenueSchoolToSort,
		IsAccessible: true,
	})
	if err != nil {
		return err
	}

	evs, err := store.ListExamVenues(ctx, exam.ID)
	if err != nil {
		return err
	}

	// Re-upload of the same exam refreshes the timing in place.
	for i := range evs {
		ev := &evs[i]
		if ev.Core && ev.VenueName != nil && *ev.VenueName == venueName {
			ev.StartTime, ev.ExamLength = start, length
			return store.UpdateExamVenue(ctx, ev)
		}
	}

	placeable := true
	if start != nil {
		if !venue.AvailableOn(start.Format("2006-01-02")) {
			placeable = false
		} else {
			if err := store.LockVenue(ctx, venueName); err != nil {
				return err
			}
			clash, err := coreClash(ctx, store, exam.ID, venueName, start, length)
			if err != nil {
				return err
			}
			placeable = !clash
		}
	}

	if !placeable {
		ing.logger.Info("core venue unavailable, parking scheduled timing",
			zap.String("course_code", exam.CourseCode), zap.String("venue", venueName))
		for i := range evs {
			ev := &evs[i]
			if ev.Core && ev.IsPlaceholder() {
				ev.StartTime, ev.ExamLength = start, length
				return store.UpdateExamVenue(ctx, ev)
			}
		}
		return store.CreateExamVenue(ctx, &models.ExamVenue{
			ExamID:     exam.ID,
			StartTime:  start,
			ExamLength: length,
			Core:       true,
		})
	}

	return store.CreateExamVenue(ctx, &models.ExamVenue{
		ExamID:     exam.ID,
		VenueName:  &venueName,
		StartTime:  start,
		ExamLength: length,
		Core:       true,
	})
}

// coreClash reports whether another exam's binding at the venue overlaps the
// scheduled window.
func coreClash(ctx context.Context, store Store, examID, venueName string, start *time.Time, length *int) (bool, error) {
	if start == nil || length == nil {
		return false, nil
	}
	others, err := store.ListExamVenuesByVenue(ctx, venueName)
	if err != nil {
		return false, err
	}
	for i := range others {
		other := &others[i]
		if other.ExamID == examID || other.StartTime == nil || other.ExamLength == nil {
			continue
		}
		if overlaps(*start, *length, *other.StartTime, *other.ExamLength) {
			return true, nil
		}
	}
	return false, nil
}
