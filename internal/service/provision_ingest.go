package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/internal/upload"
	"github.com/lithium-edu/exam-rooms-api/pkg/config"
)

// provisionSeparators splits a provisions cell listing several entitlements.
// '|' is excluded: registry exports use it inside provision labels.
var provisionSeparators = regexp.MustCompile(`[;,/]`)

// ProvisionIngester records students' accommodations and places each sitting
// through the matcher.
type ProvisionIngester struct {
	matchCfg config.MatchingConfig
	logger   *zap.Logger
}

// NewProvisionIngester constructs a ProvisionIngester.
func NewProvisionIngester(cfg *config.Config, logger *zap.Logger) *ProvisionIngester {
	return &ProvisionIngester{matchCfg: cfg.Matching, logger: logger}
}

// Ingest upserts one provision record per row and allocates a venue for the
// sitting. Created/updated counts reflect provision records only.
func (ing *ProvisionIngester) Ingest(ctx context.Context, store Store, rows []upload.Row) (*models.IngestSummary, error) {
	summary := models.NewIngestSummary(len(rows))
	summary.Handled = true
	summary.Type = string(upload.FileTypeProvisions)

	matcher := NewMatcher(store, ing.matchCfg)

	for i, row := range rows {
		studentID := upload.CleanString(row["student_id"], 100)
		if studentID == "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("Row %d: Missing student_id.", i+1))
			continue
		}
		courseCode := upload.CleanString(row["exam_code"], 30)
		if courseCode == "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("Row %d: Missing exam_code / course_code.", i+1))
			continue
		}

		exam, err := store.GetExamByCourseCode(ctx, courseCode)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				summary.Skipped++
				summary.Errors = append(summary.Errors,
					fmt.Sprintf("Row %d: Exam with code '%s' not found.", i+1, courseCode))
				continue
			}
			return nil, err
		}

		studentName := upload.CleanString(row["student_name"], 255)
		if studentName == "" {
			studentName = studentID
		}
		if _, err := store.UpsertStudent(ctx, &models.Student{StudentID: studentID, StudentName: studentName}); err != nil {
			return nil, err
		}

		codes := parseProvisions(upload.CleanString(row["provisions"], 0))
		record := &models.Provisions{
			ExamID:     exam.ID,
			StudentID:  studentID,
			Provisions: provisionStrings(codes),
			Notes:      notesFrom(row),
		}
		created, err := store.UpsertProvisions(ctx, record)
		if err != nil {
			return nil, err
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}

		sitting, err := store.EnsureStudentExam(ctx, studentID, exam.ID)
		if err != nil {
			return nil, err
		}

		if err := ing.place(ctx, store, matcher, exam, sitting, codes); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// place runs the matcher for one sitting and points the student at the
// resulting binding.
func (ing *ProvisionIngester) place(ctx context.Context, store Store, matcher *Matcher, exam *models.Exam, sitting *models.StudentExam, codes []models.ProvisionCode) error {
	evs, err := store.ListExamVenues(ctx, exam.ID)
	if err != nil {
		return err
	}
	core := coreBinding(evs)

	req, err := matcher.PlanSitting(ctx, exam, core, codes)
	if err != nil {
		return err
	}
	ev, err := matcher.FindOrAllocate(ctx, req)
	if err != nil {
		return err
	}
	if ev.IsPlaceholder() {
		ing.logger.Info("sitting parked on placeholder",
			zap.String("student_id", sitting.StudentID),
			zap.String("course_code", exam.CourseCode))
	}
	return store.SetStudentExamVenue(ctx, sitting.ID, &ev.ID)
}

// coreBinding prefers a scheduled core binding with a concrete venue, then
// any scheduled core binding.
func coreBinding(evs []models.ExamVenue) *models.ExamVenue {
	var parked *models.ExamVenue
	for i := range evs {
		ev := &evs[i]
		if !ev.Core {
			continue
		}
		if !ev.IsPlaceholder() {
			return ev
		}
		if parked == nil {
			parked = ev
		}
	}
	return parked
}

// parseProvisions resolves free-text provision tokens to codes via the slug
// map; tokens it does not recognize are dropped.
func parseProvisions(raw string) []models.ProvisionCode {
	if raw == "" {
		return nil
	}
	var codes []models.ProvisionCode
	seen := make(map[models.ProvisionCode]bool)
	for _, token := range provisionSeparators.Split(raw, -1) {
		slug := models.Slugify(strings.TrimSpace(token))
		if slug == "" {
			continue
		}
		code, ok := models.ProvisionSlugMap[slug]
		if !ok || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}

func provisionStrings(codes []models.ProvisionCode) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, string(c))
	}
	return out
}

// notesFrom extracts the free-text notes column, trimmed to the storage
// limit; absent notes stay NULL rather than empty.
func notesFrom(row upload.Row) *string {
	text := upload.CleanString(row["additional_info"], 200)
	if text == "" {
		return nil
	}
	return &text
}
