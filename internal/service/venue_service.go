package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/pkg/cache"
	appErrors "github.com/lithium-edu/exam-rooms-api/pkg/errors"
)

type venueReader interface {
	Find(ctx context.Context, name string) (*models.Venue, error)
	List(ctx context.Context) ([]models.Venue, error)
}

var knownCaps = map[models.VenueCap]bool{
	models.CapSeparateRoomOnOwn:    true,
	models.CapSeparateRoomNotOnOwn: true,
	models.CapUseComputer:          true,
	models.CapAccessibleHall:       true,
}

// IsKnownCapability reports whether the string is a recognised venue
// capability. The HTTP layer uses it for request validation.
func IsKnownCapability(c string) bool {
	return knownCaps[models.VenueCap(c)]
}

// VenueService serves the read side of the venue catalogue and the admin
// capability override.
type VenueService struct {
	venues venueReader
	views  examVenueViewReader
	tx     Transactor
	cache  *cache.Store
	logger *zap.Logger
}

// NewVenueService constructs a VenueService.
func NewVenueService(venues venueReader, views examVenueViewReader, tx Transactor, cacheStore *cache.Store, logger *zap.Logger) *VenueService {
	return &VenueService{venues: venues, views: views, tx: tx, cache: cacheStore, logger: logger}
}

// List returns every venue with its exam bindings nested.
func (s *VenueService) List(ctx context.Context) ([]models.VenueDetail, error) {
	var cached []models.VenueDetail
	if hit, err := s.cache.Get(ctx, "venues:list", &cached); err == nil && hit {
		return cached, nil
	}

	venues, err := s.venues.List(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]models.VenueDetail, 0, len(venues))
	for _, venue := range venues {
		views, err := s.views.ListViewsByVenue(ctx, venue.VenueName)
		if err != nil {
			return nil, err
		}
		details = append(details, models.VenueDetail{Venue: venue, ExamVenues: views})
	}

	_ = s.cache.Set(ctx, "venues:list", details)
	return details, nil
}

// Get returns one venue with its exam bindings nested.
func (s *VenueService) Get(ctx context.Context, name string) (*models.VenueDetail, error) {
	venue, err := s.venues.Find(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "venue not found")
		}
		return nil, err
	}
	views, err := s.views.ListViewsByVenue(ctx, name)
	if err != nil {
		return nil, err
	}
	return &models.VenueDetail{Venue: *venue, ExamVenues: views}, nil
}

// SetCapabilities replaces the venue's capability list. This is the only
// path that can shrink capabilities; ingest only ever grows them. Growing
// the list re-runs placeholder reconciliation so parked sittings can land.
func (s *VenueService) SetCapabilities(ctx context.Context, name string, caps []string) (*models.Venue, error) {
	for _, c := range caps {
		if !knownCaps[models.VenueCap(c)] {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown capability: %s", c))
		}
	}

	var updated *models.Venue
	err := s.tx.WithinTx(ctx, func(store Store) error {
		venue, err := store.GetVenue(ctx, name)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "venue not found")
			}
			return err
		}
		venue.ProvisionCapabilities = append(venue.ProvisionCapabilities[:0:0], caps...)
		ApplyVenueRules(venue)
		if err := store.UpdateVenue(ctx, venue); err != nil {
			return err
		}
		if err := reconcilePlaceholders(ctx, store, venue, s.logger); err != nil {
			return err
		}
		updated = venue
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("cache invalidation failed after capability override", zap.Error(err))
	}
	return updated, nil
}
