package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
)

// memStore is an in-memory Store for exercising the ingesters and matcher
// without a database. Lookups return copies so mutations only land through
// the update methods, mirroring how rows behave.
type memStore struct {
	seq        int
	exams      []models.Exam
	students   map[string]models.Student
	venues     map[string]models.Venue
	examVenues []models.ExamVenue
	provisions map[string]models.Provisions  // keyed student|exam
	sittings   map[string]models.StudentExam // keyed student|exam
	uploadLogs []models.UploadLog
	locks      []string
}

func newMemStore() *memStore {
	return &memStore{
		students:   make(map[string]models.Student),
		venues:     make(map[string]models.Venue),
		provisions: make(map[string]models.Provisions),
		sittings:   make(map[string]models.StudentExam),
	}
}

// transactor returns a Transactor that runs fn directly against the store.
func (m *memStore) transactor() Transactor {
	return TransactorFunc(func(ctx context.Context, fn func(Store) error) error {
		return fn(m)
	})
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) UpsertExam(ctx context.Context, exam *models.Exam) (bool, error) {
	for i := range m.exams {
		if m.exams[i].CourseCode == exam.CourseCode {
			exam.ID = m.exams[i].ID
			m.exams[i] = *exam
			return false, nil
		}
	}
	if exam.ID == "" {
		exam.ID = m.nextID("exam")
	}
	m.exams = append(m.exams, *exam)
	return true, nil
}

func (m *memStore) GetExamByCourseCode(ctx context.Context, courseCode string) (*models.Exam, error) {
	for i := range m.exams {
		if m.exams[i].CourseCode == courseCode {
			exam := m.exams[i]
			return &exam, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) ListExams(ctx context.Context) ([]models.Exam, error) {
	out := append([]models.Exam(nil), m.exams...)
	sort.Slice(out, func(i, j int) bool { return out[i].CourseCode < out[j].CourseCode })
	return out, nil
}

func (m *memStore) UpsertStudent(ctx context.Context, student *models.Student) (bool, error) {
	_, exists := m.students[student.StudentID]
	m.students[student.StudentID] = *student
	return !exists, nil
}

func (m *memStore) GetVenue(ctx context.Context, name string) (*models.Venue, error) {
	venue, ok := m.venues[name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &venue, nil
}

func (m *memStore) EnsureVenue(ctx context.Context, venue *models.Venue) (*models.Venue, bool, error) {
	if existing, ok := m.venues[venue.VenueName]; ok {
		stored := existing
		return &stored, false, nil
	}
	m.venues[venue.VenueName] = *venue
	stored := *venue
	return &stored, true, nil
}

func (m *memStore) UpdateVenue(ctx context.Context, venue *models.Venue) error {
	m.venues[venue.VenueName] = *venue
	return nil
}

func (m *memStore) ListVenues(ctx context.Context) ([]models.Venue, error) {
	out := make([]models.Venue, 0, len(m.venues))
	for _, v := range m.venues {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VenueName < out[j].VenueName })
	return out, nil
}

func (m *memStore) LockVenue(ctx context.Context, name string) error {
	m.locks = append(m.locks, name)
	return nil
}

func (m *memStore) ListExamVenues(ctx context.Context, examID string) ([]models.ExamVenue, error) {
	var out []models.ExamVenue
	for _, ev := range m.examVenues {
		if ev.ExamID == examID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memStore) ListExamVenuesByVenue(ctx context.Context, venueName string) ([]models.ExamVenue, error) {
	var out []models.ExamVenue
	for _, ev := range m.examVenues {
		if ev.VenueName != nil && *ev.VenueName == venueName {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memStore) ListPlaceholderExamVenues(ctx context.Context) ([]models.ExamVenue, error) {
	var out []models.ExamVenue
	for _, ev := range m.examVenues {
		if ev.VenueName == nil {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memStore) CreateExamVenue(ctx context.Context, ev *models.ExamVenue) error {
	if ev.ID == "" {
		ev.ID = m.nextID("ev")
	}
	m.examVenues = append(m.examVenues, *ev)
	return nil
}

func (m *memStore) UpdateExamVenue(ctx context.Context, ev *models.ExamVenue) error {
	for i := range m.examVenues {
		if m.examVenues[i].ID == ev.ID {
			m.examVenues[i] = *ev
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) DeleteExamVenue(ctx context.Context, id string) error {
	for i := range m.examVenues {
		if m.examVenues[i].ID == id {
			m.examVenues = append(m.examVenues[:i], m.examVenues[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) UpsertProvisions(ctx context.Context, p *models.Provisions) (bool, error) {
	key := p.StudentID + "|" + p.ExamID
	if existing, ok := m.provisions[key]; ok {
		p.ID = existing.ID
		m.provisions[key] = *p
		return false, nil
	}
	if p.ID == "" {
		p.ID = m.nextID("prov")
	}
	m.provisions[key] = *p
	return true, nil
}

func (m *memStore) EnsureStudentExam(ctx context.Context, studentID, examID string) (*models.StudentExam, error) {
	key := studentID + "|" + examID
	if existing, ok := m.sittings[key]; ok {
		stored := existing
		return &stored, nil
	}
	se := models.StudentExam{ID: m.nextID("se"), StudentID: studentID, ExamID: examID}
	m.sittings[key] = se
	stored := se
	return &stored, nil
}

func (m *memStore) SetStudentExamVenue(ctx context.Context, studentExamID string, examVenueID *string) error {
	for key, se := range m.sittings {
		if se.ID == studentExamID {
			se.ExamVenueID = examVenueID
			m.sittings[key] = se
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) ReassignStudentExams(ctx context.Context, fromExamVenueID, toExamVenueID string) error {
	for key, se := range m.sittings {
		if se.ExamVenueID != nil && *se.ExamVenueID == fromExamVenueID {
			to := toExamVenueID
			se.ExamVenueID = &to
			m.sittings[key] = se
		}
	}
	return nil
}

func (m *memStore) CreateUploadLog(ctx context.Context, log *models.UploadLog) error {
	if log.ID == "" {
		log.ID = m.nextID("log")
	}
	m.uploadLogs = append(m.uploadLogs, *log)
	return nil
}

// Test helpers.

func (m *memStore) sitting(studentID, examID string) models.StudentExam {
	return m.sittings[studentID+"|"+examID]
}

func (m *memStore) examVenue(id string) *models.ExamVenue {
	for i := range m.examVenues {
		if m.examVenues[i].ID == id {
			ev := m.examVenues[i]
			return &ev
		}
	}
	return nil
}
