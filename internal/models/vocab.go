package models

import "strings"

// Slugify lowercases, folds spaces to underscores, and strips anything
// outside [a-z0-9_]. It is idempotent: Slugify(Slugify(x)) == Slugify(x).
func Slugify(value string) string {
	value = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), " ", "_")
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ProvisionSlugMap maps slugged free-text tokens to provision codes. It is
// built from the enum values, then the labels, then legacy shorthand aliases;
// later entries win, so e.g. "use_reader" resolves to the legacy "reader"
// code rather than its own enum value.
var ProvisionSlugMap = buildProvisionSlugMap()

func buildProvisionSlugMap() map[string]ProvisionCode {
	m := make(map[string]ProvisionCode, len(ProvisionLabels)*2)
	for code := range ProvisionLabels {
		m[Slugify(string(code))] = code
	}
	for code, label := range ProvisionLabels {
		m[Slugify(label)] = code
	}
	// Shorthand and synonyms inherited from legacy registry exports.
	for slug, code := range map[string]ProvisionCode{
		"reader":       ProvisionReader,
		"use_reader":   ProvisionReader,
		"useofareader": ProvisionReader,
		"scribe":       ProvisionScribe,
		"use_scribe":   ProvisionScribe,
		"useofascribe": ProvisionScribe,
		"computer":     ProvisionUseComputer,
		"use_computer": ProvisionUseComputer,
		"extra_time":   ProvisionExtraTime,
	} {
		m[slug] = code
	}
	return m
}

// RequiredCapabilities maps a student's provisions to the venue capabilities
// that can satisfy them. Provisions without a capability counterpart (extra
// time, invigilator awareness, ...) constrain timing or seating, not rooms.
func RequiredCapabilities(provisions []ProvisionCode) []VenueCap {
	mapping := map[ProvisionCode]VenueCap{
		ProvisionSeparateRoomOnOwn:          CapSeparateRoomOnOwn,
		ProvisionSeparateRoomNotOnOwn:       CapSeparateRoomNotOnOwn,
		ProvisionUseComputer:                CapUseComputer,
		ProvisionAccessibleHall:             CapAccessibleHall,
		ProvisionAssistedEvacuationRequired: CapAccessibleHall,
	}
	var caps []VenueCap
	for _, p := range provisions {
		cap, ok := mapping[p]
		if !ok {
			continue
		}
		if !containsCap(caps, cap) {
			caps = append(caps, cap)
		}
	}
	return caps
}

func containsCap(caps []VenueCap, cap VenueCap) bool {
	for _, c := range caps {
		if c == cap {
			return true
		}
	}
	return false
}
