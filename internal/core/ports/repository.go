package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
)

// Repositories return domain.ErrNotFound when a lookup by key matches nothing.

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateField(ctx context.Context, username, field, value string) error
}

type TeacherRepository interface {
	FindByID(ctx context.Context, teacherID string) (*domain.TeacherProfile, error)
	// FindByClassIDs returns every teacher assigned to at least one of the classes.
	FindByClassIDs(ctx context.Context, classIDs []string) ([]domain.TeacherProfile, error)
}

type StudentRepository interface {
	FindByID(ctx context.Context, studentID string) (*domain.StudentProfile, error)
	// FindByIDs silently skips ids with no matching profile.
	FindByIDs(ctx context.Context, studentIDs []string) ([]domain.StudentProfile, error)
	UpdateEmergencyContacts(ctx context.Context, studentID string, contacts []domain.EmergencyContact) error
}

type ParentRepository interface {
	FindByID(ctx context.Context, parentID string) (*domain.ParentProfile, error)
}

type GradeRepository interface {
	FindByStudent(ctx context.Context, studentID string) ([]domain.GradeRecord, error)
	// SetGrade updates the record matching key in place; no match yields ErrNotFound.
	SetGrade(ctx context.Context, key domain.GradeKey, grade, gradedDate string) error
	InsertMany(ctx context.Context, records []domain.GradeRecord) (int, error)
}

type AttendanceRepository interface {
	Insert(ctx context.Context, record domain.AttendanceRecord) error
	Find(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, error)
}

type BusRouteRepository interface {
	FindByID(ctx context.Context, routeID string) (*domain.BusRoute, error)
}

type AuditRepository interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
	// Unpublished returns entries not yet relayed, fewest failed attempts
	// first, then oldest first.
	Unpublished(ctx context.Context, limit int) ([]domain.AuditEntry, error)
	MarkPublished(ctx context.Context, id string, at time.Time) error
	// MarkFailed records a failed publish so the entry yields to fresher ones.
	MarkFailed(ctx context.Context, id string) error
}

type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
