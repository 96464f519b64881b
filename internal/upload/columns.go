package upload

import "github.com/lithium-edu/exam-rooms-api/internal/models"

// equivalentColumns maps each canonical column name to the header spellings
// seen across school timetable exports. Aliases are matched after slugging,
// so "Course Code", "course_code" and "COURSE-CODE" all land on exam_code.
var equivalentColumns = map[string][]string{
	"exam_code":       {"exam code", "course code", "code"},
	"exam_name":       {"exam name", "assessment name", "module", "name"},
	"exam_date":       {"exam date", "date"},
	"exam_start":      {"exam start", "exam start time", "ol start", "oc start", "start"},
	"exam_end":        {"exam end", "exam finish", "ol finish", "oc finish", "end"},
	"exam_length":     {"exam length", "exam duration", "duration", "length", "time allowed"},
	"exam_type":       {"exam type", "assessment type", "type"},
	"main_venue":      {"main venue", "venue", "location", "room"},
	"school":          {"school", "department", "college"},
	"no_students":     {"no students", "number of students", "student count"},
	"school_contact":  {"school contact", "contact", "contact email"},
	"student_id":      {"mock ids", "mock id", "student id", "id"},
	"student_name":    {"names", "student name", "name"},
	"provisions":      {"registry", "exam provision", "provision", "adjustments"},
	"additional_info": {"additional information", "notes", "comments", "info"},
	"exam_building":   {"building", "site"},
}

// aliasIndex is the inverted form: slugged alias -> canonical name. Later
// canonical names never steal an alias already claimed, so the table order
// above is authoritative where aliases collide ("name" belongs to exam_name).
var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]string {
	index := make(map[string]string)
	// Canonical names map to themselves first.
	for _, canonical := range canonicalOrder {
		index[models.Slugify(canonical)] = canonical
	}
	for _, canonical := range canonicalOrder {
		for _, alias := range equivalentColumns[canonical] {
			slug := models.Slugify(alias)
			if _, taken := index[slug]; !taken {
				index[slug] = canonical
			}
		}
	}
	return index
}

// canonicalOrder fixes alias precedence; map iteration order would make
// collisions like "name" vs "exam_name" nondeterministic.
var canonicalOrder = []string{
	"exam_code",
	"exam_name",
	"exam_date",
	"exam_start",
	"exam_end",
	"exam_length",
	"exam_type",
	"main_venue",
	"school",
	"no_students",
	"school_contact",
	"student_id",
	"student_name",
	"provisions",
	"additional_info",
	"exam_building",
}

// NormalizeHeader maps a raw header cell to its canonical column name,
// falling back to the slugged form for columns the table does not know.
func NormalizeHeader(raw string) string {
	slug := models.Slugify(raw)
	if canonical, ok := aliasIndex[slug]; ok {
		return canonical
	}
	return slug
}
