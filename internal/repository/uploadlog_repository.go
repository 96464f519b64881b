package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
)

// UploadLogRepository appends and lists the upload audit trail.
type UploadLogRepository struct {
	db sqlx.ExtContext
}

// NewUploadLogRepository constructs an UploadLogRepository.
func NewUploadLogRepository(db sqlx.ExtContext) *UploadLogRepository {
	return &UploadLogRepository{db: db}
}

// Create appends one upload record.
func (r *UploadLogRepository) Create(ctx context.Context, log *models.UploadLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	const query = `INSERT INTO upload_logs (id, file_name, uploaded_by, records_created, records_updated)
        VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query,
		log.ID, log.FileName, log.UploadedBy, log.RecordsCreated, log.RecordsUpdated); err != nil {
		return fmt.Errorf("create upload log: %w", err)
	}
	return nil
}

// List returns the most recent uploads first.
func (r *UploadLogRepository) List(ctx context.Context, limit int) ([]models.UploadLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, file_name, uploaded_by, uploaded_at, records_created, records_updated
        FROM upload_logs ORDER BY uploaded_at DESC LIMIT %d`, limit)
	var logs []models.UploadLog
	if err := sqlx.SelectContext(ctx, r.db, &logs, query); err != nil {
		return nil, fmt.Errorf("list upload logs: %w", err)
	}
	return logs, nil
}
