package upload

// FileType tags what kind of timetable data a parsed upload carries.
type FileType string

const (
	FileTypeExam       FileType = "Exam"
	FileTypeProvisions FileType = "Provisions"
	FileTypeVenue      FileType = "Venue"
	FileTypeUnknown    FileType = "Unknown"
)

// Row is one normalized spreadsheet row keyed by canonical column name.
type Row map[string]interface{}

// Room is a single room entry from a venue availability sheet. Capacity is
// untyped because calendars carry it as either a number or a string.
type Room struct {
	Name           string      `json:"name"`
	Accessible     *bool       `json:"accessible,omitempty"`
	Capacity       interface{} `json:"capacity,omitempty"`
	VenueType      string      `json:"venuetype,omitempty"`
	Qualifications []string    `json:"qualifications,omitempty"`
}

// Day is one dated column of a venue availability sheet.
type Day struct {
	Day   string `json:"day"`
	Date  string `json:"date"`
	Rooms []Room `json:"rooms"`
}

// ParsedPayload is the typed output of the spreadsheet reader. Exam and
// Provisions sheets populate Rows; Venue sheets populate Days.
type ParsedPayload struct {
	Status  string   `json:"status"`
	Type    FileType `json:"type,omitempty"`
	File    string   `json:"file,omitempty"`
	Message string   `json:"message,omitempty"`
	Columns []string `json:"columns,omitempty"`
	Rows    []Row    `json:"rows,omitempty"`
	Days    []Day    `json:"days,omitempty"`
}

// OK reports whether the payload parsed cleanly.
func (p *ParsedPayload) OK() bool {
	return p != nil && p.Status == "ok"
}

func errorPayload(file, message string) *ParsedPayload {
	return &ParsedPayload{Status: "error", File: file, Message: message}
}
