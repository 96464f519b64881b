package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
)

func venueRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"venue_name", "capacity", "venue_type", "is_accessible", "qualifications", "availability", "provision_capabilities", "created_at", "updated_at"}).
		AddRow("Great Hall", 200, "main_hall", true, "{}", "{2026-01-05}", "{accessible_hall}", now, now)
}

func TestVenueRepositoryFind(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewVenueRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT venue_name, capacity, venue_type, is_accessible, qualifications, availability, provision_capabilities, created_at, updated_at FROM venues WHERE venue_name = $1")).
		WithArgs("Great Hall").
		WillReturnRows(venueRows(time.Now()))

	venue, err := repo.Find(context.Background(), "Great Hall")
	require.NoError(t, err)
	assert.Equal(t, models.VenueMainHall, venue.VenueType)
	assert.Equal(t, pq.StringArray{"2026-01-05"}, venue.Availability)
	assert.True(t, venue.HasCapability(models.CapAccessibleHall))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueRepositoryEnsureCreates(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewVenueRepository(db)

	mock.ExpectExec("INSERT INTO venues").
		WithArgs("Great Hall", 0, "school_to_sort", true, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM venues WHERE venue_name").
		WithArgs("Great Hall").
		WillReturnRows(venueRows(time.Now()))

	venue := &models.Venue{
		VenueName:    "Great Hall",
		VenueType:    models.VenueSchoolToSort,
		IsAccessible: true,
	}
	stored, created, err := repo.Ensure(context.Background(), venue)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Great Hall", stored.VenueName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueRepositoryEnsureKeepsExisting(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewVenueRepository(db)

	mock.ExpectExec("INSERT INTO venues").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM venues WHERE venue_name").
		WithArgs("Great Hall").
		WillReturnRows(venueRows(time.Now()))

	stored, created, err := repo.Ensure(context.Background(), &models.Venue{VenueName: "Great Hall"})
	require.NoError(t, err)
	assert.False(t, created)
	// Existing rows come back untouched: capacity stays at the stored 200.
	assert.Equal(t, 200, stored.Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewVenueRepository(db)

	mock.ExpectExec("UPDATE venues SET").
		WithArgs("Great Hall", 200, "main_hall", true, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Venue{
		VenueName:    "Great Hall",
		Capacity:     200,
		VenueType:    models.VenueMainHall,
		IsAccessible: true,
		Availability: pq.StringArray{"2026-01-05", "2026-01-06"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueRepositoryLock(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewVenueRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("Great Hall").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Lock(context.Background(), "Great Hall"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
