package models

import (
	"time"

	"github.com/lib/pq"
)

// Venue is a bookable exam room, keyed by its name as supplied in uploads.
//
// Availability holds sorted ISO dates; an empty list means unconstrained.
// ProvisionCapabilities grows monotonically across uploads so that a late
// data correction can retroactively resolve placeholder bindings; the admin
// capability override is the only way to shrink it.
type Venue struct {
	VenueName             string         `db:"venue_name" json:"venue_name"`
	Capacity              int            `db:"capacity" json:"capacity"`
	VenueType             VenueType      `db:"venue_type" json:"venue_type"`
	IsAccessible          bool           `db:"is_accessible" json:"is_accessible"`
	Qualifications        pq.StringArray `db:"qualifications" json:"qualifications"`
	Availability          pq.StringArray `db:"availability" json:"availability"`
	ProvisionCapabilities pq.StringArray `db:"provision_capabilities" json:"provision_capabilities"`
	CreatedAt             time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at" json:"updated_at"`
}

// HasCapability reports whether the capability is explicitly listed.
func (v *Venue) HasCapability(cap VenueCap) bool {
	for _, c := range v.ProvisionCapabilities {
		if VenueCap(c) == cap {
			return true
		}
	}
	return false
}

// Supports reports whether the venue satisfies the capability: explicitly
// listed, or inferred from its attributes. An accessible room covers
// accessible_hall, cluster types cover use_computer, and a separate_room
// covers both separate-room capabilities.
func (v *Venue) Supports(cap VenueCap) bool {
	if v.HasCapability(cap) {
		return true
	}
	switch cap {
	case CapAccessibleHall:
		return v.IsAccessible
	case CapUseComputer:
		return v.VenueType == VenueComputerCluster || v.VenueType == VenuePurpleCluster
	case CapSeparateRoomOnOwn, CapSeparateRoomNotOnOwn:
		return v.VenueType == VenueSeparateRoom
	default:
		return false
	}
}

// AvailableOn reports whether the venue can host an exam on the given ISO
// date. An empty availability list places no constraint.
func (v *Venue) AvailableOn(isoDate string) bool {
	if isoDate == "" || len(v.Availability) == 0 {
		return true
	}
	for _, d := range v.Availability {
		if d == isoDate {
			return true
		}
	}
	return false
}

// VenueDetail is a venue with its exam bindings, as served by the read API.
type VenueDetail struct {
	Venue
	ExamVenues []ExamVenueView `json:"exam_venues"`
}
