package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/internal/upload"
)

// VenueIngester applies venue availability calendars: each dated room
// occurrence adds the date to the room's availability and may refresh its
// attributes. Every save re-runs placeholder reconciliation so a new room
// can satisfy sittings that were parked waiting for it.
type VenueIngester struct {
	logger *zap.Logger
}

// NewVenueIngester constructs a VenueIngester.
func NewVenueIngester(logger *zap.Logger) *VenueIngester {
	return &VenueIngester{logger: logger}
}

// Ingest processes the flattened day/room calendar. Counts are per room
// occurrence: a room listed on three days counts three times.
func (ing *VenueIngester) Ingest(ctx context.Context, store Store, days []upload.Day) (*models.IngestSummary, error) {
	summary := models.NewIngestSummary(0)
	summary.Handled = true
	summary.Type = string(upload.FileTypeVenue)

	roomIdx := 0
	for _, day := range days {
		for _, room := range day.Rooms {
			roomIdx++
			summary.TotalRows++

			name := strings.TrimSpace(room.Name)
			if name == "" {
				summary.Skipped++
				summary.Errors = append(summary.Errors, fmt.Sprintf("Room %d: Missing name.", roomIdx))
				continue
			}

			venue, created, err := store.EnsureVenue(ctx, &models.Venue{
				VenueName:    name,
				VenueType:    models.VenueSchoolToSort,
				IsAccessible: true,
			})
			if err != nil {
				return nil, err
			}

			ing.applyRoom(venue, room, day.Date)
			ApplyVenueRules(venue)
			if err := store.UpdateVenue(ctx, venue); err != nil {
				return nil, err
			}
			if created {
				summary.Created++
			} else {
				summary.Updated++
			}

			if err := reconcilePlaceholders(ctx, store, venue, ing.logger); err != nil {
				return nil, err
			}
		}
	}
	return summary, nil
}

// applyRoom folds one dated room occurrence into the stored venue.
func (ing *VenueIngester) applyRoom(venue *models.Venue, room upload.Room, date string) {
	if date != "" {
		venue.Availability = unionSorted(venue.Availability, date)
	}
	if room.Accessible != nil {
		venue.IsAccessible = *room.Accessible
	}
	if capacity, ok := upload.CoerceInt(room.Capacity); ok && capacity > 0 {
		venue.Capacity = capacity
	}
	if vt := models.VenueType(models.Slugify(room.VenueType)); models.ValidVenueTypes[vt] {
		venue.VenueType = vt
	}
	for _, q := range room.Qualifications {
		if q = strings.TrimSpace(q); q != "" {
			venue.Qualifications = unionSorted(venue.Qualifications, q)
		}
	}
}

func unionSorted(values []string, value string) []string {
	for _, v := range values {
		if v == value {
			return values
		}
	}
	values = append(values, value)
	sort.Strings(values)
	return values
}

// ApplyVenueRules normalizes a venue before save: a room offering the
// computer provision must be typed as a cluster so allocation treats it
// as one.
func ApplyVenueRules(venue *models.Venue) {
	if venue.HasCapability(models.CapUseComputer) &&
		venue.VenueType != models.VenueComputerCluster &&
		venue.VenueType != models.VenuePurpleCluster {
		venue.VenueType = models.VenueComputerCluster
	}
}

// reconcilePlaceholders binds waiting placeholder sittings to the venue when
// it now covers their capabilities, reusing an identical existing binding
// where one exists and re-pointing its students. It runs after every venue
// save, including the admin capability override.
func reconcilePlaceholders(ctx context.Context, store Store, venue *models.Venue, logger *zap.Logger) error {
	placeholders, err := store.ListPlaceholderExamVenues(ctx)
	if err != nil {
		return err
	}
	for i := range placeholders {
		ph := &placeholders[i]
		// Core placeholders park a named venue's schedule; they are not up
		// for grabs by any room.
		if ph.Core {
			continue
		}
		if !venueCoversPlaceholder(venue, ph) {
			continue
		}
		if ph.StartTime != nil && !venue.AvailableOn(ph.StartTime.Format("2006-01-02")) {
			continue
		}
		if err := store.LockVenue(ctx, venue.VenueName); err != nil {
			return err
		}
		clash, err := coreClash(ctx, store, ph.ExamID, venue.VenueName, ph.StartTime, ph.ExamLength)
		if err != nil {
			return err
		}
		if clash {
			continue
		}

		if err := bindPlaceholder(ctx, store, venue, ph, logger); err != nil {
			return err
		}
	}
	return nil
}

func venueCoversPlaceholder(venue *models.Venue, ph *models.ExamVenue) bool {
	for _, cap := range ph.ProvisionCapabilities {
		if !venue.Supports(models.VenueCap(cap)) {
			return false
		}
	}
	return true
}

func bindPlaceholder(ctx context.Context, store Store, venue *models.Venue, ph *models.ExamVenue, logger *zap.Logger) error {
	siblings, err := store.ListExamVenues(ctx, ph.ExamID)
	if err != nil {
		return err
	}
	for i := range siblings {
		ev := &siblings[i]
		if ev.ID == ph.ID || ev.VenueName == nil || *ev.VenueName != venue.VenueName {
			continue
		}
		if !sameTiming(ev, ph) {
			continue
		}
		// The exam already sits in this room at this time: fold the
		// placeholder into it instead of duplicating the binding.
		ev.MergeCapabilities(capList(ph.ProvisionCapabilities))
		if err := store.UpdateExamVenue(ctx, ev); err != nil {
			return err
		}
		if err := store.ReassignStudentExams(ctx, ph.ID, ev.ID); err != nil {
			return err
		}
		logger.Info("merged placeholder into existing binding",
			zap.String("exam_id", ph.ExamID), zap.String("venue", venue.VenueName))
		return store.DeleteExamVenue(ctx, ph.ID)
	}

	name := venue.VenueName
	ph.VenueName = &name
	logger.Info("bound placeholder to venue",
		zap.String("exam_id", ph.ExamID), zap.String("venue", name))
	return store.UpdateExamVenue(ctx, ph)
}

func sameTiming(a, b *models.ExamVenue) bool {
	startsEqual := (a.StartTime == nil && b.StartTime == nil) ||
		(a.StartTime != nil && b.StartTime != nil && a.StartTime.Equal(*b.StartTime))
	lengthsEqual := (a.ExamLength == nil && b.ExamLength == nil) ||
		(a.ExamLength != nil && b.ExamLength != nil && *a.ExamLength == *b.ExamLength)
	return startsEqual && lengthsEqual
}

func capList(raw []string) []models.VenueCap {
	caps := make([]models.VenueCap, 0, len(raw))
	for _, c := range raw {
		caps = append(caps, models.VenueCap(c))
	}
	return caps
}
