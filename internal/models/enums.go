package models

// ProvisionCode identifies a student-specific accommodation recorded against
// an exam sitting.
type ProvisionCode string

const (
	ProvisionDataAsPresentedToRegistry  ProvisionCode = "data_as_presented_to_registry"
	ProvisionAccessibleHallGroundOrLift ProvisionCode = "accessible_exam_hall_ground_or_lift"
	ProvisionAccessibleHall             ProvisionCode = "accessible_hall"
	ProvisionAllowedEatDrink            ProvisionCode = "allowed_eat_drink"
	ProvisionAssistedEvacuationRequired ProvisionCode = "assisted_evacuation_required"
	ProvisionExamAdditionalComment      ProvisionCode = "exam_additional_comment"
	ProvisionAlternativeFormatPaper     ProvisionCode = "alternative_format_paper"
	ProvisionExtraTime                  ProvisionCode = "extra_time"
	ProvisionExtraTime100               ProvisionCode = "extra_time_100"
	ProvisionExtraTime15PerHour         ProvisionCode = "extra_time_15_per_hour"
	ProvisionExtraTime20PerHour         ProvisionCode = "extra_time_20_per_hour"
	ProvisionExtraTime30PerHour         ProvisionCode = "extra_time_30_per_hour"
	ProvisionInvigilatorAwareness       ProvisionCode = "invigilator_awareness"
	ProvisionSeatedAtBack               ProvisionCode = "seated_at_back"
	ProvisionSeparateRoomNotOnOwn       ProvisionCode = "separate_room_not_on_own"
	ProvisionSeparateRoomOnOwn          ProvisionCode = "separate_room_on_own"
	ProvisionToiletBreaksRequired       ProvisionCode = "toilet_breaks_required"
	ProvisionUseComputer                ProvisionCode = "use_computer"
	ProvisionUseReader                  ProvisionCode = "use_reader"
	ProvisionUseScribe                  ProvisionCode = "use_scribe"
	ProvisionReader                     ProvisionCode = "reader"
	ProvisionScribe                     ProvisionCode = "scribe"
)

// ProvisionLabels carries the human-readable label for each provision code.
// Labels participate in free-text alias matching, so they must stay aligned
// with the registry spreadsheets.
var ProvisionLabels = map[ProvisionCode]string{
	ProvisionDataAsPresentedToRegistry:  "Data as presented to Registry",
	ProvisionAccessibleHallGroundOrLift: "Accessible exam hall: must be ground floor or have reliable lift access available",
	ProvisionAccessibleHall:             "Accessible hall",
	ProvisionAllowedEatDrink:            "Allowed to eat and drink",
	ProvisionAssistedEvacuationRequired: "Assisted evacuation required",
	ProvisionExamAdditionalComment:      "Exam Additional Comment",
	ProvisionAlternativeFormatPaper:     "Exam paper required in alternative format",
	ProvisionExtraTime:                  "Extra Time",
	ProvisionExtraTime100:               "Extra time 100%",
	ProvisionExtraTime15PerHour:         "Extra time 15 minutes every hour",
	ProvisionExtraTime20PerHour:         "Extra time 20 minutes every hour",
	ProvisionExtraTime30PerHour:         "Extra time 30 minutes every hour",
	ProvisionInvigilatorAwareness:       "Invigilator awareness",
	ProvisionSeatedAtBack:               "Seated at back",
	ProvisionSeparateRoomNotOnOwn:       "Separate room not on own",
	ProvisionSeparateRoomOnOwn:          "Separate room on own",
	ProvisionToiletBreaksRequired:       "Toilet breaks required",
	ProvisionUseComputer:                "Use of a computer",
	ProvisionUseReader:                  "Use of a reader",
	ProvisionUseScribe:                  "Use of a scribe",
	ProvisionReader:                     "Reader",
	ProvisionScribe:                     "Scribe",
}

// VenueCap is a capability a venue can offer to satisfy a provision.
type VenueCap string

const (
	CapSeparateRoomOnOwn    VenueCap = "separate_room_on_own"
	CapSeparateRoomNotOnOwn VenueCap = "separate_room_not_on_own"
	CapUseComputer          VenueCap = "use_computer"
	CapAccessibleHall       VenueCap = "accessible_hall"
)

// VenueType classifies rooms for allocation purposes.
type VenueType string

const (
	VenueMainHall        VenueType = "main_hall"
	VenuePurpleCluster   VenueType = "purple_cluster"
	VenueComputerCluster VenueType = "computer_cluster"
	VenueSeparateRoom    VenueType = "separate_room"
	VenueSchoolToSort    VenueType = "school_to_sort"
)

// ValidVenueTypes enumerates accepted venue_type values.
var ValidVenueTypes = map[VenueType]bool{
	VenueMainHall:        true,
	VenuePurpleCluster:   true,
	VenueComputerCluster: true,
	VenueSeparateRoom:    true,
	VenueSchoolToSort:    true,
}
