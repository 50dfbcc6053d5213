package handler

import (
	"net/http"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/metrics"
	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/middleware"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
)

// Router bundles everything NewRouter mounts.
type Router struct {
	Auth       *middleware.AuthMiddleware
	AuthPages  *AuthHandler
	Health     *HealthHandler
	Student    *StudentHandler
	Teacher    *TeacherHandler
	Parent     *ParentHandler
	Admin      *AdminHandler
	CORS       []string
	LoginLimit int
}

func (rt Router) Handler() http.Handler {
	mux := http.NewServeMux()
	limited := middleware.LoginRateLimit(rt.LoginLimit)
	limit := func(h http.HandlerFunc) http.Handler { return limited(h) }

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("/health", rt.Health.Health)
	mux.HandleFunc("/health/ready", rt.Health.Ready)
	mux.HandleFunc("/health/live", rt.Health.Live)
	mux.Handle("GET /metrics", metrics.Handler())

	// Public pages and credential endpoints
	a := rt.AuthPages
	mux.HandleFunc("GET /{$}", a.Home)
	mux.Handle("POST /login", limit(a.Login))
	mux.HandleFunc("GET /logout", a.Logout)
	mux.HandleFunc("GET /reset_password", a.ResetPasswordPage)
	mux.Handle("POST /reset_password", limit(a.ResetPassword))
	mux.HandleFunc("GET /reset_password/confirm", a.ResetConfirmPage)
	mux.Handle("POST /reset_password/confirm", limit(a.ResetConfirm))
	mux.Handle("POST /api/login", limit(a.APILogin))
	mux.HandleFunc("POST /api/logout", a.APILogout)
	mux.Handle("POST /api/reset_password", limit(a.APIResetPassword))

	page := func(role domain.Role, h http.HandlerFunc) http.HandlerFunc { return rt.Auth.RequireRole(role, h) }
	api := func(role domain.Role, h http.HandlerFunc) http.HandlerFunc { return rt.Auth.RequireRoleJSON(role, h) }

	s := rt.Student
	student := domain.RoleStudent
	mux.HandleFunc("GET /student_dashboard", page(student, s.Dashboard))
	mux.HandleFunc("GET /student_classes_and_grades", page(student, s.ClassesAndGrades))
	mux.HandleFunc("GET /student_bus_schedule", page(student, s.BusSchedulePage))
	mux.HandleFunc("GET /student_class_schedule", page(student, s.ClassSchedulePage))
	mux.HandleFunc("GET /student_profile_settings", page(student, s.ProfileSettings))
	mux.HandleFunc("GET /api/student/grades", api(student, s.Grades))
	mux.HandleFunc("GET /api/student/bus_schedule", api(student, s.BusSchedule))
	mux.HandleFunc("GET /api/student/class_schedule", api(student, s.ClassSchedule))
	mux.HandleFunc("GET /api/student/profile", api(student, s.Profile))

	t := rt.Teacher
	teacher := domain.RoleTeacher
	mux.HandleFunc("GET /teacher_dashboard", page(teacher, t.Dashboard))
	mux.HandleFunc("GET /teacher_attendance", page(teacher, t.AttendancePage))
	mux.HandleFunc("POST /teacher_attendance", page(teacher, t.SubmitAttendance))
	mux.HandleFunc("GET /teacher_assign_grades", page(teacher, t.AssignGradesPage))
	mux.HandleFunc("POST /teacher_assign_grades", page(teacher, t.SubmitAssignGrades))
	mux.HandleFunc("GET /teacher_bus_schedule_lookup", page(teacher, t.BusScheduleLookup))
	mux.HandleFunc("GET /teacher_student_profiles", page(teacher, t.StudentProfiles))
	mux.HandleFunc("GET /teacher_view_schedule", page(teacher, t.ViewSchedule))
	mux.HandleFunc("GET /api/teacher/roster", api(teacher, t.Roster))
	mux.HandleFunc("GET /api/teacher/attendance", api(teacher, t.Attendance))
	mux.HandleFunc("POST /api/teacher/attendance", api(teacher, t.RecordAttendance))
	mux.HandleFunc("GET /api/teacher/grades", api(teacher, t.Grades))
	mux.HandleFunc("POST /api/teacher/grades", api(teacher, t.SubmitGrade))
	mux.HandleFunc("POST /api/teacher/homework", api(teacher, t.AssignHomework))
	mux.HandleFunc("GET /api/teacher/bus_schedule", api(teacher, t.BusSchedule))
	mux.HandleFunc("GET /api/teacher/students/{id}", api(teacher, t.Student))
	mux.HandleFunc("GET /api/teacher/schedule", api(teacher, t.Schedule))

	p := rt.Parent
	parent := domain.RoleParent
	mux.HandleFunc("GET /parent_dashboard", page(parent, p.Dashboard))
	mux.HandleFunc("GET /parent_attendance_records", page(parent, p.AttendanceRecords))
	mux.HandleFunc("GET /parent_bus_schedule", page(parent, p.BusSchedulePage))
	mux.HandleFunc("GET /parent_view_class_schedule", page(parent, p.ClassSchedulePage))
	mux.HandleFunc("GET /parent_view_student_grades", page(parent, p.GradesPage))
	mux.HandleFunc("GET /parent_update_student_info", page(parent, p.UpdateStudentInfoPage))
	mux.HandleFunc("POST /parent_update_student_info", page(parent, p.UpdateStudentInfo))
	mux.HandleFunc("GET /api/parent/students", api(parent, p.Students))
	mux.HandleFunc("GET /api/parent/attendance", api(parent, p.Attendance))
	mux.HandleFunc("GET /api/parent/grades", api(parent, p.Grades))
	mux.HandleFunc("GET /api/parent/bus_schedule", api(parent, p.BusSchedule))
	mux.HandleFunc("GET /api/parent/class_schedule", api(parent, p.ClassSchedule))
	mux.HandleFunc("POST /api/parent/students/{id}/emergency_contacts", api(parent, p.UpdateEmergencyContacts))

	ad := rt.Admin
	admin := domain.RoleAdministrator
	mux.HandleFunc("GET /admin_dashboard", page(admin, ad.Dashboard))
	mux.HandleFunc("GET /manage_users_permissions", page(admin, ad.ManageUsersPage))
	mux.HandleFunc("POST /manage_users_permissions", page(admin, ad.ManageUsers))
	mux.HandleFunc("GET /api/admin/users", api(admin, ad.Users))
	mux.HandleFunc("POST /api/admin/users/{username}", api(admin, ad.UpdateUser))
	mux.HandleFunc("GET /api/admin/audit_logs", api(admin, ad.AuditLogs))

	// metrics sits next to the mux so it observes the request the mux
	// stamps with the matched pattern.
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CORSMiddleware(rt.CORS),
		rt.Auth.LoadSession,
		metrics.Middleware,
	)
}
