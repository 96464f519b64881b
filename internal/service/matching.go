package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/pkg/config"
)

// Matcher places one student's exam sitting into a venue that satisfies
// their provisions, allocating a new exam-venue binding or a placeholder
// when no existing binding fits.
type Matcher struct {
	store Store
	// floor is the earliest clock time an extra-time shift may reach,
	// as an offset from midnight.
	floor time.Duration
	// smallExtraPerHour is the per-hour extra-time threshold at or below
	// which a student stays in the exam's core venue.
	smallExtraPerHour int
}

// NewMatcher builds a Matcher over the store using the configured tunables.
func NewMatcher(store Store, cfg config.MatchingConfig) *Matcher {
	floor, err := parseClock(cfg.DayStartFloor)
	if err != nil {
		floor = 9 * time.Hour
	}
	threshold := cfg.SmallExtraPerHourMinutes
	if threshold <= 0 {
		threshold = 15
	}
	return &Matcher{store: store, floor: floor, smallExtraPerHour: threshold}
}

func parseClock(value string) (time.Duration, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("parse clock %q", value)
	}
	hours, err1 := strconv.Atoi(parts[0])
	minutes, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("parse clock %q", value)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// MatchRequest captures everything the matcher needs to place one sitting.
type MatchRequest struct {
	Exam *models.Exam

	// Caps are the venue capabilities the sitting requires.
	Caps              []models.VenueCap
	RequireAccessible bool
	UseComputer       bool
	SeparateRoom      bool

	// PreferredVenue, when set, is tried before any other candidate.
	PreferredVenue string
	// AllowSameExamOverlap exempts bindings of the same exam from the
	// timing-conflict check, letting a small-extra-time sitting share the
	// core room despite its longer window.
	AllowSameExamOverlap bool

	// TargetStart and TargetLength are the shifted timing for this sitting.
	// Both are nil when the exam has no scheduled core binding yet.
	TargetStart  *time.Time
	TargetLength *int
}

// ExtraMinutes returns the largest extra-time entitlement, in minutes,
// granted by the provisions for an exam of baseLength minutes.
func ExtraMinutes(codes []models.ProvisionCode, baseLength int) int {
	if baseLength <= 0 {
		return 0
	}
	perHour := func(n int) int {
		return ceilDiv(baseLength*n, 60)
	}
	extra := 0
	for _, code := range codes {
		var granted int
		switch code {
		case models.ProvisionExtraTime100:
			granted = baseLength
		case models.ProvisionExtraTime30PerHour:
			granted = perHour(30)
		case models.ProvisionExtraTime20PerHour:
			granted = perHour(20)
		case models.ProvisionExtraTime15PerHour:
			granted = perHour(15)
		case models.ProvisionExtraTime:
			granted = ceilDiv(baseLength, 4)
		default:
			continue
		}
		if granted > extra {
			extra = granted
		}
	}
	return extra
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// targetTiming absorbs extra minutes by shifting the start earlier, bounded
// by the day-start floor; whatever cannot shift extends the length instead.
func (m *Matcher) targetTiming(baseStart time.Time, baseLength, extra int) (time.Time, int) {
	clock := time.Duration(baseStart.Hour())*time.Hour +
		time.Duration(baseStart.Minute())*time.Minute +
		time.Duration(baseStart.Second())*time.Second
	room := int((clock - m.floor).Minutes())
	if room < 0 {
		room = 0
	}
	shift := extra
	if shift > room {
		shift = room
	}
	return baseStart.Add(-time.Duration(shift) * time.Minute), baseLength + (extra - shift)
}

// PlanSitting derives the match request for one student's sitting from
// their provisions and the exam's core binding. core may be nil when the
// exam has not been scheduled yet.
func (m *Matcher) PlanSitting(ctx context.Context, exam *models.Exam, core *models.ExamVenue, codes []models.ProvisionCode) (MatchRequest, error) {
	caps := models.RequiredCapabilities(codes)
	req := MatchRequest{Exam: exam, Caps: caps}
	for _, cap := range caps {
		switch cap {
		case models.CapAccessibleHall:
			req.RequireAccessible = true
		case models.CapUseComputer:
			req.UseComputer = true
		case models.CapSeparateRoomOnOwn, models.CapSeparateRoomNotOnOwn:
			req.SeparateRoom = true
		}
	}

	if core == nil || core.StartTime == nil || core.ExamLength == nil {
		return req, nil
	}

	baseStart, baseLength := *core.StartTime, *core.ExamLength
	extra := ExtraMinutes(codes, baseLength)
	start, length := m.targetTiming(baseStart, baseLength, extra)
	req.TargetStart, req.TargetLength = &start, &length

	// A small entitlement does not justify moving the student out of the
	// main room: they sit the same paper alongside everyone else and the
	// invigilators absorb the longer window.
	if extra > 0 && !req.SeparateRoom && !req.UseComputer &&
		extra*60 <= m.smallExtraPerHour*baseLength {
		if core.VenueName != nil {
			req.PreferredVenue = *core.VenueName
			req.AllowSameExamOverlap = true
			if req.RequireAccessible {
				venue, err := m.store.GetVenue(ctx, *core.VenueName)
				if err != nil {
					return req, fmt.Errorf("plan sitting: %w", err)
				}
				if !venue.IsAccessible {
					req.PreferredVenue = ""
					req.AllowSameExamOverlap = false
				}
			}
		}
	}
	return req, nil
}

// FindOrAllocate returns a binding for the request, reusing an existing one
// when it already satisfies the requirements and allocating otherwise.
func (m *Matcher) FindOrAllocate(ctx context.Context, req MatchRequest) (*models.ExamVenue, error) {
	existing, err := m.store.ListExamVenues(ctx, req.Exam.ID)
	if err != nil {
		return nil, err
	}

	if found, err := m.find(ctx, existing, req); err != nil {
		return nil, err
	} else if found != nil {
		return found, nil
	}
	return m.allocate(ctx, existing, req)
}

// find scans the exam's bindings for one that already fits: capabilities
// covered by the venue (or declared on a placeholder), accessible when
// required, and timing equal to the target. A preferred-venue hit wins over
// any other fit.
func (m *Matcher) find(ctx context.Context, existing []models.ExamVenue, req MatchRequest) (*models.ExamVenue, error) {
	var fallback *models.ExamVenue
	for i := range existing {
		ev := &existing[i]
		ok, err := m.bindingFits(ctx, ev, req)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if req.PreferredVenue != "" && ev.VenueName != nil && *ev.VenueName == req.PreferredVenue {
			return ev, nil
		}
		if fallback == nil {
			fallback = ev
		}
	}
	return fallback, nil
}

func (m *Matcher) bindingFits(ctx context.Context, ev *models.ExamVenue, req MatchRequest) (bool, error) {
	if !timingMatches(ev, req) {
		return false, nil
	}
	if ev.IsPlaceholder() {
		for _, cap := range req.Caps {
			if !ev.HasCapability(cap) {
				return false, nil
			}
		}
		return true, nil
	}
	venue, err := m.store.GetVenue(ctx, *ev.VenueName)
	if err != nil {
		return false, fmt.Errorf("load venue %s: %w", *ev.VenueName, err)
	}
	return venueSupports(venue, req), nil
}

func timingMatches(ev *models.ExamVenue, req MatchRequest) bool {
	if req.TargetStart == nil || req.TargetLength == nil {
		return true
	}
	return ev.StartTime != nil && ev.StartTime.Equal(*req.TargetStart) &&
		ev.ExamLength != nil && *ev.ExamLength == *req.TargetLength
}

// venueSupports checks capabilities and accessibility, not timing. A cap
// need not be explicitly listed when the venue's attributes imply it.
func venueSupports(venue *models.Venue, req MatchRequest) bool {
	if req.RequireAccessible && !venue.IsAccessible {
		return false
	}
	for _, cap := range req.Caps {
		if !venue.Supports(cap) {
			return false
		}
	}
	return true
}

// allowedVenueTypes restricts candidate rooms for computer and separate-room
// sittings; a nil map means any type may host the sitting.
func allowedVenueTypes(req MatchRequest) map[models.VenueType]bool {
	switch {
	case req.UseComputer:
		return map[models.VenueType]bool{
			models.VenueComputerCluster: true,
			models.VenuePurpleCluster:   true,
			models.VenueSeparateRoom:    true,
		}
	case req.SeparateRoom:
		return map[models.VenueType]bool{models.VenueSeparateRoom: true}
	default:
		return nil
	}
}

// allocate walks candidate venues in preference order and binds the first
// that fits; with no candidate the requirements are parked on a placeholder
// until a suitable room is uploaded.
func (m *Matcher) allocate(ctx context.Context, existing []models.ExamVenue, req MatchRequest) (*models.ExamVenue, error) {
	candidate, err := m.chooseVenue(ctx, existing, req)
	if err != nil {
		return nil, err
	}
	if candidate == "" {
		return m.parkOnPlaceholder(ctx, existing, req)
	}

	// An identical binding may already exist for another student with the
	// same needs; merge instead of duplicating.
	for i := range existing {
		ev := &existing[i]
		if ev.VenueName != nil && *ev.VenueName == candidate && timingMatches(ev, req) {
			ev.MergeCapabilities(req.Caps)
			if err := m.store.UpdateExamVenue(ctx, ev); err != nil {
				return nil, err
			}
			return ev, nil
		}
	}

	// A placeholder binds to the venue rather than leaving a dangling row.
	if ph := firstPlaceholder(existing); ph != nil {
		ph.VenueName = &candidate
		ph.StartTime, ph.ExamLength = req.TargetStart, req.TargetLength
		ph.MergeCapabilities(req.Caps)
		if err := m.store.UpdateExamVenue(ctx, ph); err != nil {
			return nil, err
		}
		return ph, nil
	}

	ev := &models.ExamVenue{
		ExamID:                req.Exam.ID,
		VenueName:             &candidate,
		StartTime:             req.TargetStart,
		ExamLength:            req.TargetLength,
		ProvisionCapabilities: capStrings(req.Caps),
	}
	if err := m.store.CreateExamVenue(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// chooseVenue returns the name of the first venue that can host the sitting:
// the preferred venue, then rooms the exam already uses, then every venue in
// name order.
func (m *Matcher) chooseVenue(ctx context.Context, existing []models.ExamVenue, req MatchRequest) (string, error) {
	venues, err := m.store.ListVenues(ctx)
	if err != nil {
		return "", err
	}
	byName := make(map[string]*models.Venue, len(venues))
	for i := range venues {
		byName[venues[i].VenueName] = &venues[i]
	}

	order := make([]string, 0, len(venues)+4)
	if req.PreferredVenue != "" {
		order = append(order, req.PreferredVenue)
	}
	for i := range existing {
		if existing[i].VenueName != nil {
			order = append(order, *existing[i].VenueName)
		}
	}
	for i := range venues {
		order = append(order, venues[i].VenueName)
	}

	seen := make(map[string]bool, len(order))
	types := allowedVenueTypes(req)
	for _, name := range order {
		if seen[name] {
			continue
		}
		seen[name] = true
		venue, ok := byName[name]
		if !ok {
			continue
		}
		if types != nil && !types[venue.VenueType] {
			continue
		}
		if !venueSupports(venue, req) {
			continue
		}
		if req.TargetStart != nil && !venue.AvailableOn(req.TargetStart.Format("2006-01-02")) {
			continue
		}
		if err := m.store.LockVenue(ctx, name); err != nil {
			return "", err
		}
		conflict, err := m.hasConflict(ctx, name, req)
		if err != nil {
			return "", err
		}
		if conflict {
			continue
		}
		return name, nil
	}
	return "", nil
}

// hasConflict reports whether another binding at the venue overlaps the
// target window. Bindings of the same exam are exempt when the request
// allows same-exam overlap.
func (m *Matcher) hasConflict(ctx context.Context, venueName string, req MatchRequest) (bool, error) {
	if req.TargetStart == nil || req.TargetLength == nil {
		return false, nil
	}
	others, err := m.store.ListExamVenuesByVenue(ctx, venueName)
	if err != nil {
		return false, err
	}
	for i := range others {
		other := &others[i]
		if req.AllowSameExamOverlap && other.ExamID == req.Exam.ID {
			continue
		}
		if other.StartTime == nil || other.ExamLength == nil {
			continue
		}
		if overlaps(*req.TargetStart, *req.TargetLength, *other.StartTime, *other.ExamLength) {
			return true, nil
		}
	}
	return false, nil
}

func overlaps(aStart time.Time, aLength int, bStart time.Time, bLength int) bool {
	aEnd := aStart.Add(time.Duration(aLength) * time.Minute)
	bEnd := bStart.Add(time.Duration(bLength) * time.Minute)
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// parkOnPlaceholder records the unmet requirements on the exam's placeholder
// binding, creating one if needed.
func (m *Matcher) parkOnPlaceholder(ctx context.Context, existing []models.ExamVenue, req MatchRequest) (*models.ExamVenue, error) {
	if ph := firstPlaceholder(existing); ph != nil {
		ph.MergeCapabilities(req.Caps)
		if req.TargetStart != nil {
			ph.StartTime, ph.ExamLength = req.TargetStart, req.TargetLength
		}
		if err := m.store.UpdateExamVenue(ctx, ph); err != nil {
			return nil, err
		}
		return ph, nil
	}
	ev := &models.ExamVenue{
		ExamID:                req.Exam.ID,
		StartTime:             req.TargetStart,
		ExamLength:            req.TargetLength,
		ProvisionCapabilities: capStrings(req.Caps),
	}
	if err := m.store.CreateExamVenue(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func firstPlaceholder(evs []models.ExamVenue) *models.ExamVenue {
	for i := range evs {
		if evs[i].IsPlaceholder() {
			return &evs[i]
		}
	}
	return nil
}

func capStrings(caps []models.VenueCap) []string {
	out := make([]string, 0, len(caps))
	for _, c := range caps {
		out = append(out, string(c))
	}
	return out
}
