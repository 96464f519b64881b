package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
)

// VenueRepository manages persistence for venue records.
type VenueRepository struct {
	db sqlx.ExtContext
}

// NewVenueRepository constructs a VenueRepository.
func NewVenueRepository(db sqlx.ExtContext) *VenueRepository {
	return &VenueRepository{db: db}
}

const venueColumns = "venue_name, capacity, venue_type, is_accessible, qualifications, availability, provision_capabilities, created_at, updated_at"

// Find fetches a venue by name. Callers distinguish a missing venue with
// sql.ErrNoRows.
func (r *VenueRepository) Find(ctx context.Context, name string) (*models.Venue, error) {
	query := fmt.Sprintf("SELECT %s FROM venues WHERE venue_name = $1", venueColumns)
	var venue models.Venue
	if err := sqlx.GetContext(ctx, r.db, &venue, query, name); err != nil {
		return nil, err
	}
	return &venue, nil
}

// List returns all venues ordered by name.
func (r *VenueRepository) List(ctx context.Context) ([]models.Venue, error) {
	query := fmt.Sprintf("SELECT %s FROM venues ORDER BY venue_name", venueColumns)
	var venues []models.Venue
	if err := sqlx.SelectContext(ctx, r.db, &venues, query); err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return venues, nil
}

// Ensure inserts the venue if it does not exist yet and returns the stored
// row. The flag reports whether a new row was created; an existing venue is
// returned untouched so ingest can merge fields deliberately.
func (r *VenueRepository) Ensure(ctx context.Context, venue *models.Venue) (*models.Venue, bool, error) {
	const query = `INSERT INTO venues (venue_name, capacity, venue_type, is_accessible, qualifications, availability, provision_capabilities)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (venue_name) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		venue.VenueName, venue.Capacity, venue.VenueType, venue.IsAccessible,
		arrayOrEmpty(venue.Qualifications), arrayOrEmpty(venue.Availability),
		arrayOrEmpty(venue.ProvisionCapabilities),
	)
	if err != nil {
		return nil, false, fmt.Errorf("ensure venue %s: %w", venue.VenueName, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("ensure venue %s: %w", venue.VenueName, err)
	}
	stored, err := r.Find(ctx, venue.VenueName)
	if err != nil {
		return nil, false, fmt.Errorf("ensure venue %s: %w", venue.VenueName, err)
	}
	return stored, affected > 0, nil
}

// Update overwrites the venue's mutable fields.
func (r *VenueRepository) Update(ctx context.Context, venue *models.Venue) error {
	const query = `UPDATE venues SET
            capacity = $2,
            venue_type = $3,
            is_accessible = $4,
            qualifications = $5,
            availability = $6,
            provision_capabilities = $7,
            updated_at = NOW()
        WHERE venue_name = $1`
	if _, err := r.db.ExecContext(ctx, query,
		venue.VenueName, venue.Capacity, venue.VenueType, venue.IsAccessible,
		arrayOrEmpty(venue.Qualifications), arrayOrEmpty(venue.Availability),
		arrayOrEmpty(venue.ProvisionCapabilities),
	); err != nil {
		return fmt.Errorf("update venue %s: %w", venue.VenueName, err)
	}
	return nil
}

// Lock takes a transaction-scoped advisory lock on the venue name, serializing
// concurrent allocations against the same room.
func (r *VenueRepository) Lock(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", name); err != nil {
		return fmt.Errorf("lock venue %s: %w", name, err)
	}
	return nil
}

// arrayOrEmpty keeps nil slices out of text[] columns.
func arrayOrEmpty(values pq.StringArray) pq.StringArray {
	if values == nil {
		return pq.StringArray{}
	}
	return values
}
