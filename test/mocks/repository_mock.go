// Package mocks provides in-memory implementations of the port interfaces.
// Each mock records its calls and accepts an injected error per operation.
package mocks

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

// MockUserRepository implements ports.UserRepository for testing.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Call tracking for verification
	UpdateFieldCalls []UpdateFieldCall

	// Error injection
	FindError   error
	ListError   error
	UpdateError error
}

type UpdateFieldCall struct {
	Username string
	Field    string
	Value    string
}

var _ ports.UserRepository = (*MockUserRepository)(nil)

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

// AddUser seeds the repository.
func (m *MockUserRepository) AddUser(u domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Username] = &u
}

// GetUser returns a copy of the stored user, or nil.
func (m *MockUserRepository) GetUser(username string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	if u := m.GetUser(username); u != nil {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *MockUserRepository) UpdateField(ctx context.Context, username, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateFieldCalls = append(m.UpdateFieldCalls, UpdateFieldCall{Username: username, Field: field, Value: value})
	if m.UpdateError != nil {
		return m.UpdateError
	}
	u, ok := m.users[username]
	if !ok {
		return domain.ErrNotFound
	}
	switch field {
	case domain.FieldEmail:
		u.Email = value
	case domain.FieldName:
		u.Name = value
	case domain.FieldRole:
		u.Role = domain.Role(value)
	case domain.FieldPassword:
		u.PasswordHash = value
	}
	return nil
}

// MockTeacherRepository implements ports.TeacherRepository for testing.
type MockTeacherRepository struct {
	mu       sync.RWMutex
	teachers []domain.TeacherProfile

	FindError error
}

var _ ports.TeacherRepository = (*MockTeacherRepository)(nil)

func NewMockTeacherRepository(teachers ...domain.TeacherProfile) *MockTeacherRepository {
	return &MockTeacherRepository{teachers: teachers}
}

func (m *MockTeacherRepository) FindByID(ctx context.Context, teacherID string) (*domain.TeacherProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	for _, t := range m.teachers {
		if t.TeacherID == teacherID {
			cp := t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockTeacherRepository) FindByClassIDs(ctx context.Context, classIDs []string) ([]domain.TeacherProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	var out []domain.TeacherProfile
	for _, t := range m.teachers {
		if teachesAny(t, classIDs) {
			out = append(out, t)
		}
	}
	return out, nil
}

func teachesAny(t domain.TeacherProfile, classIDs []string) bool {
	for _, c := range t.AssignedClasses {
		if slices.Contains(classIDs, c.ClassID) {
			return true
		}
	}
	return false
}

// MockStudentRepository implements ports.StudentRepository for testing.
type MockStudentRepository struct {
	mu       sync.RWMutex
	students map[string]*domain.StudentProfile

	UpdateContactsCalls int

	FindError   error
	UpdateError error
}

var _ ports.StudentRepository = (*MockStudentRepository)(nil)

func NewMockStudentRepository(students ...domain.StudentProfile) *MockStudentRepository {
	m := &MockStudentRepository{students: make(map[string]*domain.StudentProfile)}
	for _, s := range students {
		s := s
		m.students[s.StudentID] = &s
	}
	return m
}

func (m *MockStudentRepository) FindByID(ctx context.Context, studentID string) (*domain.StudentProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	s, ok := m.students[studentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockStudentRepository) FindByIDs(ctx context.Context, studentIDs []string) ([]domain.StudentProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	var out []domain.StudentProfile
	for _, id := range studentIDs {
		if s, ok := m.students[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *MockStudentRepository) UpdateEmergencyContacts(ctx context.Context, studentID string, contacts []domain.EmergencyContact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateContactsCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	s, ok := m.students[studentID]
	if !ok {
		return domain.ErrNotFound
	}
	s.EmergencyContacts = contacts
	return nil
}

// MockParentRepository implements ports.ParentRepository for testing.
type MockParentRepository struct {
	parents map[string]domain.ParentProfile

	FindError error
}

var _ ports.ParentRepository = (*MockParentRepository)(nil)

func NewMockParentRepository(parents ...domain.ParentProfile) *MockParentRepository {
	m := &MockParentRepository{parents: make(map[string]domain.ParentProfile)}
	for _, p := range parents {
		m.parents[p.ParentID] = p
	}
	return m
}

func (m *MockParentRepository) FindByID(ctx context.Context, parentID string) (*domain.ParentProfile, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	p, ok := m.parents[parentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// MockGradeRepository implements ports.GradeRepository for testing.
type MockGradeRepository struct {
	mu      sync.RWMutex
	records []domain.GradeRecord

	SetGradeCalls   int
	InsertManyCalls int

	FindError   error
	SetError    error
	InsertError error
}

var _ ports.GradeRepository = (*MockGradeRepository)(nil)

func NewMockGradeRepository(records ...domain.GradeRecord) *MockGradeRepository {
	return &MockGradeRepository{records: records}
}

// Records returns a copy of every stored record.
func (m *MockGradeRepository) Records() []domain.GradeRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.GradeRecord, len(m.records))
	copy(out, m.records)
	return out
}

func (m *MockGradeRepository) FindByStudent(ctx context.Context, studentID string) ([]domain.GradeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FindError != nil {
		return nil, m.FindError
	}
	out := []domain.GradeRecord{}
	for _, r := range m.records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockGradeRepository) SetGrade(ctx context.Context, key domain.GradeKey, grade, gradedDate string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetGradeCalls++
	if m.SetError != nil {
		return m.SetError
	}
	for i := range m.records {
		if m.records[i].Key() == key {
			g, d := grade, gradedDate
			m.records[i].Grade = &g
			m.records[i].GradedDate = &d
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockGradeRepository) InsertMany(ctx context.Context, records []domain.GradeRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertManyCalls++
	if m.InsertError != nil {
		return 0, m.InsertError
	}
	m.records = append(m.records, records...)
	return len(records), nil
}

// MockAttendanceRepository implements ports.AttendanceRepository for testing.
type MockAttendanceRepository struct {
	mu      sync.RWMutex
	records []domain.AttendanceRecord

	InsertCalls int
	LastFilter  domain.AttendanceFilter

	InsertError error
	FindError   error
}

var _ ports.AttendanceRepository = (*MockAttendanceRepository)(nil)

func NewMockAttendanceRepository(records ...domain.AttendanceRecord) *MockAttendanceRepository {
	return &MockAttendanceRepository{records: records}
}

func (m *MockAttendanceRepository) Insert(ctx context.Context, record domain.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls++
	if m.InsertError != nil {
		return m.InsertError
	}
	m.records = append(m.records, record)
	return nil
}

// Find applies the same matching as the Mongo query: optional ids and an
// inclusive date range, newest first.
func (m *MockAttendanceRepository) Find(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastFilter = filter
	if m.FindError != nil {
		return nil, m.FindError
	}
	out := []domain.AttendanceRecord{}
	for _, r := range m.records {
		if filter.ClassID != "" && r.ClassID != filter.ClassID {
			continue
		}
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		if r.Date.Before(filter.From) || r.Date.After(filter.To) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// MockBusRouteRepository implements ports.BusRouteRepository for testing.
type MockBusRouteRepository struct {
	routes map[string]domain.BusRoute

	FindError error
}

var _ ports.BusRouteRepository = (*MockBusRouteRepository)(nil)

func NewMockBusRouteRepository(routes ...domain.BusRoute) *MockBusRouteRepository {
	m := &MockBusRouteRepository{routes: make(map[string]domain.BusRoute)}
	for _, r := range routes {
		m.routes[r.RouteID] = r
	}
	return m
}

func (m *MockBusRouteRepository) FindByID(ctx context.Context, routeID string) (*domain.BusRoute, error) {
	if m.FindError != nil {
		return nil, m.FindError
	}
	r, ok := m.routes[routeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

// MockAuditRepository implements ports.AuditRepository for testing. It also
// serves as the relay's outbox.
type MockAuditRepository struct {
	mu      sync.RWMutex
	entries []domain.AuditEntry

	MarkPublishedCalls int
	MarkFailedCalls    int

	AppendError      error
	RecentError      error
	UnpublishedError error
	MarkError        error
}

var _ ports.AuditRepository = (*MockAuditRepository)(nil)

func NewMockAuditRepository(entries ...domain.AuditEntry) *MockAuditRepository {
	return &MockAuditRepository{entries: entries}
}

// Entries returns a copy of every stored entry in append order.
func (m *MockAuditRepository) Entries() []domain.AuditEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.AuditEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MockAuditRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppendError != nil {
		return m.AppendError
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockAuditRepository) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if m.RecentError != nil {
		return nil, m.RecentError
	}
	out := m.Entries()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockAuditRepository) Unpublished(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if m.UnpublishedError != nil {
		return nil, m.UnpublishedError
	}
	var out []domain.AuditEntry
	for _, e := range m.Entries() {
		if e.PublishedAt == nil {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PublishAttempts != out[j].PublishAttempts {
			return out[i].PublishAttempts < out[j].PublishAttempts
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockAuditRepository) MarkFailed(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkFailedCalls++
	if m.MarkError != nil {
		return m.MarkError
	}
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries[i].PublishAttempts++
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockAuditRepository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkPublishedCalls++
	if m.MarkError != nil {
		return m.MarkError
	}
	for i := range m.entries {
		if m.entries[i].ID == id {
			t := at
			m.entries[i].PublishedAt = &t
			return nil
		}
	}
	return domain.ErrNotFound
}
