package models

import "time"

// UploadLog is an append-only record of one processed upload.
type UploadLog struct {
	ID             string    `db:"id" json:"id"`
	FileName       string    `db:"file_name" json:"file_name"`
	UploadedBy     *string   `db:"uploaded_by" json:"uploaded_by"`
	UploadedAt     time.Time `db:"uploaded_at" json:"uploaded_at"`
	RecordsCreated int       `db:"records_created" json:"records_created"`
	RecordsUpdated int       `db:"records_updated" json:"records_updated"`
}

// IngestSummary reports what one upload did to the relational store.
type IngestSummary struct {
	Handled   bool     `json:"handled"`
	Type      string   `json:"type"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	TotalRows int      `json:"total_rows"`
	Errors    []string `json:"errors"`
	Message   string   `json:"message,omitempty"`
}

// NewIngestSummary returns a summary primed with the row count and a
// non-nil error list so it serializes as [] rather than null.
func NewIngestSummary(totalRows int) *IngestSummary {
	return &IngestSummary{TotalRows: totalRows, Errors: []string{}}
}
