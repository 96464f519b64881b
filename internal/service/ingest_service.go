package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/internal/upload"
	"github.com/lithium-edu/exam-rooms-api/pkg/cache"
	"github.com/lithium-edu/exam-rooms-api/pkg/config"
)

// IngestService dispatches a parsed upload to the matching ingester inside a
// single transaction and appends the upload audit record. Cache invalidation
// and metrics run only after the transaction commits.
type IngestService struct {
	tx         Transactor
	exams      *ExamIngester
	venues     *VenueIngester
	provisions *ProvisionIngester
	cache      *cache.Store
	metrics    *Metrics
	logger     *zap.Logger
}

// NewIngestService wires the ingest pipeline.
func NewIngestService(tx Transactor, cfg *config.Config, cacheStore *cache.Store, metrics *Metrics, logger *zap.Logger) *IngestService {
	return &IngestService{
		tx:         tx,
		exams:      NewExamIngester(cfg, logger),
		venues:     NewVenueIngester(logger),
		provisions: NewProvisionIngester(cfg, logger),
		cache:      cacheStore,
		metrics:    metrics,
		logger:     logger,
	}
}

// Process ingests one parsed payload. Payloads that failed parsing yield a
// nil summary; unrecognized file types yield an unhandled summary without
// touching the store.
func (s *IngestService) Process(ctx context.Context, payload *upload.ParsedPayload, uploadedBy *string) (*models.IngestSummary, error) {
	if !payload.OK() {
		return nil, nil
	}
	if payload.Type == upload.FileTypeUnknown {
		summary := models.NewIngestSummary(len(payload.Rows))
		summary.Type = string(upload.FileTypeUnknown)
		summary.Message = "File type not recognized; no records were ingested."
		return summary, nil
	}

	var summary *models.IngestSummary
	err := s.tx.WithinTx(ctx, func(store Store) error {
		var err error
		switch payload.Type {
		case upload.FileTypeExam:
			summary, err = s.exams.Ingest(ctx, store, payload.Rows)
		case upload.FileTypeProvisions:
			summary, err = s.provisions.Ingest(ctx, store, payload.Rows)
		case upload.FileTypeVenue:
			summary, err = s.venues.Ingest(ctx, store, payload.Days)
		}
		if err != nil {
			return err
		}
		return store.CreateUploadLog(ctx, &models.UploadLog{
			FileName:       payload.File,
			UploadedBy:     uploadedBy,
			RecordsCreated: summary.Created,
			RecordsUpdated: summary.Updated,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("cache invalidation failed after ingest", zap.Error(err))
	}
	s.metrics.ObserveUpload(summary)
	s.logger.Info("upload ingested",
		zap.String("file", payload.File),
		zap.String("type", summary.Type),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}
