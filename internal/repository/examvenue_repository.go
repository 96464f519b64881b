package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
)

// ExamVenueRepository manages exam-to-venue bindings, including the
// placeholder rows that hold capability requirements until a room exists.
type ExamVenueRepository struct {
	db sqlx.ExtContext
}

// NewExamVenueRepository constructs an ExamVenueRepository.
func NewExamVenueRepository(db sqlx.ExtContext) *ExamVenueRepository {
	return &ExamVenueRepository{db: db}
}

const examVenueColumns = "id, exam_id, venue_name, start_time, exam_length, core, provision_capabilities, created_at"

// Create inserts a new binding.
func (r *ExamVenueRepository) Create(ctx context.Context, ev *models.ExamVenue) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	const query = `INSERT INTO exam_venues (id, exam_id, venue_name, start_time, exam_length, core, provision_capabilities)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query,
		ev.ID, ev.ExamID, ev.VenueName, ev.StartTime, ev.ExamLength, ev.Core,
		arrayOrEmpty(ev.ProvisionCapabilities),
	); err != nil {
		return fmt.Errorf("create exam venue: %w", err)
	}
	return nil
}

// Update overwrites the binding's venue, timing, and capabilities.
func (r *ExamVenueRepository) Update(ctx context.Context, ev *models.ExamVenue) error {
	const query = `UPDATE exam_venues SET
            venue_name = $2,
            start_time = $3,
            exam_length = $4,
            core = $5,
            provision_capabilities = $6
        WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		ev.ID, ev.VenueName, ev.StartTime, ev.ExamLength, ev.Core,
		arrayOrEmpty(ev.ProvisionCapabilities),
	); err != nil {
		return fmt.Errorf("update exam venue %s: %w", ev.ID, err)
	}
	return nil
}

// Delete removes a binding.
func (r *ExamVenueRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM exam_venues WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete exam venue %s: %w", id, err)
	}
	return nil
}

// ListByExam returns all bindings for one exam, core first.
func (r *ExamVenueRepository) ListByExam(ctx context.Context, examID string) ([]models.ExamVenue, error) {
	query := fmt.Sprintf("SELECT %s FROM exam_venues WHERE exam_id = $1 ORDER BY core DESC, created_at", examVenueColumns)
	var evs []models.ExamVenue
	if err := sqlx.SelectContext(ctx, r.db, &evs, query, examID); err != nil {
		return nil, fmt.Errorf("list exam venues for exam %s: %w", examID, err)
	}
	return evs, nil
}

// ListByVenue returns all bindings sitting in one venue.
func (r *ExamVenueRepository) ListByVenue(ctx context.Context, venueName string) ([]models.ExamVenue, error) {
	query := fmt.Sprintf("SELECT %s FROM exam_venues WHERE venue_name = $1 ORDER BY start_time, created_at", examVenueColumns)
	var evs []models.ExamVenue
	if err := sqlx.SelectContext(ctx, r.db, &evs, query, venueName); err != nil {
		return nil, fmt.Errorf("list exam venues for venue %s: %w", venueName, err)
	}
	return evs, nil
}

// ListPlaceholders returns every binding still waiting for a venue.
func (r *ExamVenueRepository) ListPlaceholders(ctx context.Context) ([]models.ExamVenue, error) {
	query := fmt.Sprintf("SELECT %s FROM exam_venues WHERE venue_name IS NULL ORDER BY created_at", examVenueColumns)
	var evs []models.ExamVenue
	if err := sqlx.SelectContext(ctx, r.db, &evs, query); err != nil {
		return nil, fmt.Errorf("list placeholder exam venues: %w", err)
	}
	return evs, nil
}

// ListViewsByExam returns the serialization shape for one exam's bindings.
func (r *ExamVenueRepository) ListViewsByExam(ctx context.Context, examID string) ([]models.ExamVenueView, error) {
	const query = `SELECT ev.id AS examvenue_id, e.exam_name, ev.venue_name, ev.start_time, ev.exam_length, ev.core, ev.provision_capabilities
        FROM exam_venues ev
        JOIN exams e ON e.id = ev.exam_id
        WHERE ev.exam_id = $1
        ORDER BY ev.core DESC, ev.created_at`
	return r.selectViews(ctx, query, examID)
}

// ListViewsByVenue returns the serialization shape for one venue's bindings.
func (r *ExamVenueRepository) ListViewsByVenue(ctx context.Context, venueName string) ([]models.ExamVenueView, error) {
	const query = `SELECT ev.id AS examvenue_id, e.exam_name, ev.venue_name, ev.start_time, ev.exam_length, ev.core, ev.provision_capabilities
        FROM exam_venues ev
        JOIN exams e ON e.id = ev.exam_id
        WHERE ev.venue_name = $1
        ORDER BY ev.start_time, ev.created_at`
	return r.selectViews(ctx, query, venueName)
}

func (r *ExamVenueRepository) selectViews(ctx context.Context, query string, arg interface{}) ([]models.ExamVenueView, error) {
	rows, err := r.db.QueryxContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list exam venue views: %w", err)
	}
	defer rows.Close()

	views := make([]models.ExamVenueView, 0)
	for rows.Next() {
		var view models.ExamVenueView
		var caps pq.StringArray
		if err := rows.Scan(&view.ExamVenueID, &view.ExamName, &view.VenueName,
			&view.StartTime, &view.ExamLength, &view.Core, &caps); err != nil {
			return nil, fmt.Errorf("scan exam venue view: %w", err)
		}
		view.ProvisionCapabilities = caps
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list exam venue views: %w", err)
	}
	return views, nil
}
