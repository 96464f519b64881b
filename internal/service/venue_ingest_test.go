package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/internal/upload"
)

func boolPtr(b bool) *bool { return &b }

func TestVenueIngestAccumulatesAvailability(t *testing.T) {
	store := newMemStore()
	ingester := NewVenueIngester(zap.NewNop())

	days := []upload.Day{
		{Day: "Tuesday", Date: "2026-01-06", Rooms: []upload.Room{{Name: "Great Hall"}}},
		{Day: "Monday", Date: "2026-01-05", Rooms: []upload.Room{
			{Name: "Great Hall"},
			{Name: "Room 12", Accessible: boolPtr(false)},
		}},
	}

	summary, err := ingester.Ingest(context.Background(), store, days)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.Updated)

	hall, err := store.GetVenue(context.Background(), "Great Hall")
	require.NoError(t, err)
	// Dates stay sorted regardless of sheet order.
	assert.Equal(t, []string{"2026-01-05", "2026-01-06"}, []string(hall.Availability))
	assert.True(t, hall.IsAccessible)

	room, err := store.GetVenue(context.Background(), "Room 12")
	require.NoError(t, err)
	assert.False(t, room.IsAccessible)
}

func TestVenueIngestSkipsNamelessRooms(t *testing.T) {
	store := newMemStore()
	ingester := NewVenueIngester(zap.NewNop())

	days := []upload.Day{
		{Day: "Monday", Date: "2026-01-05", Rooms: []upload.Room{
			{Name: "Great Hall"},
			{Name: "   "},
		}},
	}

	summary, err := ingester.Ingest(context.Background(), store, days)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "Room 2: Missing name.", summary.Errors[0])
}

func TestApplyVenueRulesCoercesComputerCluster(t *testing.T) {
	venue := &models.Venue{
		VenueName: "Lab 3", VenueType: models.VenueSchoolToSort,
		ProvisionCapabilities: []string{string(models.CapUseComputer)},
	}
	ApplyVenueRules(venue)
	assert.Equal(t, models.VenueComputerCluster, venue.VenueType)

	purple := &models.Venue{
		VenueName: "Purple 1", VenueType: models.VenuePurpleCluster,
		ProvisionCapabilities: []string{string(models.CapUseComputer)},
	}
	ApplyVenueRules(purple)
	assert.Equal(t, models.VenuePurpleCluster, purple.VenueType)
}

func TestVenueIngestBindsWaitingPlaceholder(t *testing.T) {
	store := newMemStore()
	store.exams = append(store.exams, models.Exam{ID: "exam-1", CourseCode: "PHYS101"})
	// A sitting parked with no capability requirements, waiting for any room
	// free on the exam day.
	store.examVenues = append(store.examVenues, models.ExamVenue{
		ID: "ev-ph", ExamID: "exam-1",
		StartTime: timePtr(at(10, 0)), ExamLength: intPtr(60),
	})

	ingester := NewVenueIngester(zap.NewNop())
	days := []upload.Day{
		{Day: "Monday", Date: "2026-01-05", Rooms: []upload.Room{{Name: "Room 12"}}},
	}
	_, err := ingester.Ingest(context.Background(), store, days)
	require.NoError(t, err)

	ev := store.examVenue("ev-ph")
	require.NotNil(t, ev)
	require.NotNil(t, ev.VenueName)
	assert.Equal(t, "Room 12", *ev.VenueName)
}

func TestVenueIngestRoomTypeSatisfiesWaitingPlaceholder(t *testing.T) {
	store := newMemStore()
	store.exams = append(store.exams, models.Exam{ID: "exam-1", CourseCode: "PHYS101"})
	store.examVenues = append(store.examVenues, models.ExamVenue{
		ID: "ev-ph", ExamID: "exam-1",
		StartTime: timePtr(at(10, 0)), ExamLength: intPtr(60),
		ProvisionCapabilities: []string{string(models.CapSeparateRoomOnOwn)},
	})

	// The calendar never lists capabilities; the room type alone must cover
	// the parked requirement.
	ingester := NewVenueIngester(zap.NewNop())
	days := []upload.Day{
		{Day: "Monday", Date: "2026-01-05", Rooms: []upload.Room{
			{Name: "Quiet Room 1", VenueType: "Separate Room"},
		}},
	}
	_, err := ingester.Ingest(context.Background(), store, days)
	require.NoError(t, err)

	ev := store.examVenue("ev-ph")
	require.NotNil(t, ev)
	require.NotNil(t, ev.VenueName)
	assert.Equal(t, "Quiet Room 1", *ev.VenueName)
}

func TestVenueIngestMergesPlaceholderIntoExistingBinding(t *testing.T) {
	store := newMemStore()
	store.exams = append(store.exams, models.Exam{ID: "exam-1", CourseCode: "PHYS101"})
	store.examVenues = append(store.examVenues,
		models.ExamVenue{
			ID: "ev-real", ExamID: "exam-1", VenueName: strPtr("Room 12"),
			StartTime: timePtr(at(10, 0)), ExamLength: intPtr(60),
		},
		models.ExamVenue{
			ID: "ev-ph", ExamID: "exam-1",
			StartTime: timePtr(at(10, 0)), ExamLength: intPtr(60),
			ProvisionCapabilities: []string{},
		},
	)
	// A student already points at the placeholder.
	evID := "ev-ph"
	store.sittings["S100|exam-1"] = models.StudentExam{ID: "se-1", StudentID: "S100", ExamID: "exam-1", ExamVenueID: &evID}

	ingester := NewVenueIngester(zap.NewNop())
	days := []upload.Day{
		{Day: "Monday", Date: "2026-01-05", Rooms: []upload.Room{{Name: "Room 12"}}},
	}
	_, err := ingester.Ingest(context.Background(), store, days)
	require.NoError(t, err)

	assert.Nil(t, store.examVenue("ev-ph"))
	sitting := store.sitting("S100", "exam-1")
	require.NotNil(t, sitting.ExamVenueID)
	assert.Equal(t, "ev-real", *sitting.ExamVenueID)
}

func TestVenueIngestLeavesCorePlaceholdersAlone(t *testing.T) {
	store := newMemStore()
	store.exams = append(store.exams, models.Exam{ID: "exam-1", CourseCode: "PHYS101"})
	store.examVenues = append(store.examVenues, models.ExamVenue{
		ID: "ev-core-ph", ExamID: "exam-1", Core: true,
		StartTime: timePtr(at(10, 0)), ExamLength: intPtr(60),
	})

	ingester := NewVenueIngester(zap.NewNop())
	days := []upload.Day{
		{Day: "Monday", Date: "2026-01-05", Rooms: []upload.Room{{Name: "Room 12"}}},
	}
	_, err := ingester.Ingest(context.Background(), store, days)
	require.NoError(t, err)

	ev := store.examVenue("ev-core-ph")
	require.NotNil(t, ev)
	assert.True(t, ev.IsPlaceholder())
}
