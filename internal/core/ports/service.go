package ports

import (
	"context"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, username, password string, role domain.Role) (*domain.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Session(ctx context.Context, sessionID string) (*domain.Session, error)
}

type PasswordResetService interface {
	RequestPasswordReset(ctx context.Context, username, email string, role domain.Role) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

type RosterService interface {
	Roster(ctx context.Context, teacherID string) ([]domain.RosterEntry, error)
	RosterForProfile(ctx context.Context, profile domain.TeacherProfile) ([]domain.RosterEntry, error)
}

type GradeService interface {
	GradesForStudent(ctx context.Context, studentID string) ([]domain.GradeRecord, error)
	SubmitGrade(ctx context.Context, sub domain.GradeSubmission) error
	AssignHomework(ctx context.Context, teacherID string, hw domain.Homework) (int, error)
}

type AttendanceService interface {
	Record(ctx context.Context, in domain.AttendanceInput) (*domain.AttendanceRecord, error)
	Query(ctx context.Context, q domain.AttendanceQuery) ([]domain.AttendanceRecord, error)
}

type ScheduleService interface {
	ClassSchedule(ctx context.Context, studentID string) (*domain.ClassSchedule, error)
	BusSchedule(ctx context.Context, studentID string) (*domain.BusSchedule, error)
}

type ProfileService interface {
	StudentProfile(ctx context.Context, studentID string) (*domain.StudentProfile, error)
	LinkedStudents(ctx context.Context, parentID string) ([]domain.StudentProfile, error)
	StudentForParent(ctx context.Context, parentID, studentID string) (*domain.StudentProfile, error)
	UpdateEmergencyContacts(ctx context.Context, parentID, studentID string, contacts []domain.EmergencyContact) error
	TeacherSchedule(ctx context.Context, teacherID string) ([]domain.AssignedClass, error)
}

type AdminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, actor, username, field, value string) error
	RecentAudit(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
