package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/handler"
	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/middleware"
	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/session"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/services"
	"github.com/AchilleasB/school-portal/portal-service/test/mocks"
)

const password = "secret123"

type testApp struct {
	handler    http.Handler
	users      *mocks.MockUserRepository
	grades     *mocks.MockGradeRepository
	attendance *mocks.MockAttendanceRepository
	audit      *mocks.MockAuditRepository
	mailer     *mocks.MockMailer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	users := mocks.NewMockUserRepository()
	users.AddUser(mocks.TestUser("alice", password, domain.RoleStudent, "S1"))
	users.AddUser(mocks.TestUser("ben", password, domain.RoleStudent, "S2"))
	users.AddUser(mocks.TestUser("rivera", password, domain.RoleTeacher, "T1"))
	users.AddUser(mocks.TestUser("pat", password, domain.RoleParent, "P1"))
	users.AddUser(mocks.TestUser("root", password, domain.RoleAdministrator, "root"))

	teachers := mocks.NewMockTeacherRepository(mocks.TeacherT1())
	students := mocks.NewMockStudentRepository(mocks.StudentS1(), mocks.StudentS2())
	parents := mocks.NewMockParentRepository(mocks.ParentP1())
	grades := mocks.NewMockGradeRepository(mocks.Homework("S1", "Essay", "2024-03-01"))
	attendance := mocks.NewMockAttendanceRepository(domain.AttendanceRecord{
		ID: "a1", StudentID: "S1", ClassID: "C1", Date: time.Now().UTC(), Status: "Present",
	})
	routes := mocks.NewMockBusRouteRepository(mocks.RouteR1())
	audit := mocks.NewMockAuditRepository()
	mailer := mocks.NewMockMailer()
	hasher := &mocks.MockPasswordHasher{}

	auth := services.NewAuthService(users, teachers, mocks.NewMockSessionStore(), hasher, time.Hour)
	reset := services.NewPasswordResetService(users, hasher, mailer, services.NewResetTokens("secret"), "http://portal.test")
	roster := services.NewRosterService(teachers, students)
	gradeSvc := services.NewGradeService(grades, teachers, nil)
	attendanceSvc := services.NewAttendanceService(attendance, nil)
	schedules := services.NewScheduleService(students, teachers, routes)
	profiles := services.NewProfileService(students, parents, teachers)
	admin := services.NewAdminService(users, audit, hasher)

	pages, err := handler.NewRenderer()
	require.NoError(t, err)
	cookies := session.NewCookies("school_session", "secret", false)
	ok := handler.PingFunc(func(context.Context) error { return nil })

	router := handler.Router{
		Auth:       middleware.NewAuthMiddleware(auth, cookies),
		AuthPages:  handler.NewAuthHandler(auth, reset, cookies, pages),
		Health:     handler.NewHealthHandler(ok, ok),
		Student:    handler.NewStudentHandler(gradeSvc, schedules, profiles, pages),
		Teacher:    handler.NewTeacherHandler(roster, gradeSvc, attendanceSvc, schedules, profiles, pages),
		Parent:     handler.NewParentHandler(profiles, gradeSvc, attendanceSvc, schedules, pages),
		Admin:      handler.NewAdminHandler(admin, pages),
		CORS:       []string{"*"},
		LoginLimit: 0,
	}

	return &testApp{
		handler:    router.Handler(),
		users:      users,
		grades:     grades,
		attendance: attendance,
		audit:      audit,
		mailer:     mailer,
	}
}

func (a *testApp) do(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) postForm(path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, cookies)
}

func (a *testApp) postJSON(path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, cookies)
}

func (a *testApp) get(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), cookies)
}

// login signs in through the HTML form and returns the session cookie.
func (a *testApp) login(t *testing.T, username string, role domain.Role) []*http.Cookie {
	t.Helper()
	rec := a.postForm("/login", url.Values{
		"username": {username},
		"password": {password},
		"role":     {string(role)},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	return rec.Result().Cookies()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestLogin_RedirectsToDashboard(t *testing.T) {
	app := newTestApp(t)
	tests := []struct {
		username string
		role     domain.Role
		want     string
	}{
		{"alice", domain.RoleStudent, "/student_dashboard"},
		{"rivera", domain.RoleTeacher, "/teacher_dashboard"},
		{"pat", domain.RoleParent, "/parent_dashboard"},
		{"root", domain.RoleAdministrator, "/admin_dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			rec := app.postForm("/login", url.Values{
				"username": {tt.username}, "password": {password}, "role": {string(tt.role)},
			}, nil)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestLogin_FailuresLookIdentical(t *testing.T) {
	app := newTestApp(t)
	attempts := []url.Values{
		{"username": {"nobody"}, "password": {password}, "role": {"Student"}},
		{"username": {"alice"}, "password": {"wrong"}, "role": {"Student"}},
		{"username": {"alice"}, "password": {password}, "role": {"Teacher"}},
	}
	for _, form := range attempts {
		rec := app.postForm("/login", form, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), domain.AuthFailedMessage)
		assert.Empty(t, rec.Result().Cookies(), "no session cookie on failure")

		body, _ := json.Marshal(map[string]string{
			"username": form.Get("username"), "password": form.Get("password"), "role": form.Get("role"),
		})
		api := app.postJSON("/api/login", string(body), nil)
		assert.Equal(t, http.StatusUnauthorized, api.Code)
		assert.Equal(t, domain.AuthFailedMessage, decode[map[string]any](t, api)["error"])
	}
}

func TestAPILogin(t *testing.T) {
	app := newTestApp(t)
	rec := app.postJSON("/api/login", `{"username":"rivera","password":"secret123","role":"Teacher"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handler.LoginResponse](t, rec)
	assert.Equal(t, "Ms. Rivera", resp.Name)
	assert.Equal(t, "/teacher_dashboard", resp.Redirect)
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestRoleGuard(t *testing.T) {
	app := newTestApp(t)
	student := app.login(t, "alice", domain.RoleStudent)

	page := app.get("/teacher_dashboard", nil)
	assert.Equal(t, http.StatusSeeOther, page.Code)
	assert.Equal(t, "/", page.Header().Get("Location"))

	page = app.get("/admin_dashboard", student)
	assert.Equal(t, http.StatusSeeOther, page.Code)

	api := app.get("/api/teacher/roster", student)
	assert.Equal(t, http.StatusUnauthorized, api.Code)
	assert.Equal(t, "Unauthorized access. Please log in as a teacher.", decode[map[string]string](t, api)["error"])

	// the denial flash shows up on the next page
	var flash []*http.Cookie
	for _, c := range page.Result().Cookies() {
		if c.Name == "school_flash" {
			flash = append(flash, c)
		}
	}
	home := app.get("/", flash)
	assert.Contains(t, home.Body.String(), "Please log in as a administrator.")
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	cookies := app.login(t, "alice", domain.RoleStudent)
	require.Equal(t, http.StatusOK, app.get("/student_dashboard", cookies).Code)

	rec := app.get("/logout", cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	// the old cookie no longer opens a session
	assert.Equal(t, http.StatusSeeOther, app.get("/student_dashboard", cookies).Code)
}

func TestPages_Render(t *testing.T) {
	app := newTestApp(t)
	tests := []struct {
		username string
		role     domain.Role
		paths    []string
	}{
		{"alice", domain.RoleStudent, []string{
			"/student_dashboard", "/student_classes_and_grades", "/student_bus_schedule",
			"/student_class_schedule", "/student_profile_settings",
		}},
		{"rivera", domain.RoleTeacher, []string{
			"/teacher_dashboard", "/teacher_attendance", "/teacher_assign_grades?student_id=S1",
			"/teacher_bus_schedule_lookup?student_id=S1", "/teacher_student_profiles?student_id=S1",
			"/teacher_view_schedule",
		}},
		{"pat", domain.RoleParent, []string{
			"/parent_dashboard", "/parent_attendance_records", "/parent_bus_schedule",
			"/parent_view_class_schedule", "/parent_view_student_grades", "/parent_update_student_info",
		}},
		{"root", domain.RoleAdministrator, []string{"/admin_dashboard", "/manage_users_permissions"}},
	}
	for _, tt := range tests {
		cookies := app.login(t, tt.username, tt.role)
		for _, path := range tt.paths {
			t.Run(path, func(t *testing.T) {
				rec := app.get(path, cookies)
				assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
				assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			})
		}
	}

	for _, path := range []string{"/", "/?tab=teacher", "/reset_password", "/reset_password/confirm?token=x"} {
		assert.Equal(t, http.StatusOK, app.get(path, nil).Code, path)
	}
}

func TestPages_ShowData(t *testing.T) {
	app := newTestApp(t)

	student := app.login(t, "ben", domain.RoleStudent)
	bus := app.get("/student_bus_schedule", student)
	assert.Contains(t, bus.Body.String(), domain.NoScheduleMessage)

	teacher := app.login(t, "rivera", domain.RoleTeacher)
	dash := app.get("/teacher_dashboard", teacher)
	assert.Contains(t, dash.Body.String(), "Alice Smith")
	assert.Contains(t, dash.Body.String(), "Ben Jones")

	parent := app.login(t, "pat", domain.RoleParent)
	notLinked := app.get("/parent_view_student_grades?student_id=S2", parent)
	assert.Equal(t, http.StatusNotFound, notLinked.Code)
}

func TestTeacherAPI(t *testing.T) {
	app := newTestApp(t)
	cookies := app.login(t, "rivera", domain.RoleTeacher)

	roster := app.get("/api/teacher/roster", cookies)
	require.Equal(t, http.StatusOK, roster.Code)
	entries := decode[[]domain.RosterEntry](t, roster)
	assert.Equal(t, []domain.RosterEntry{{StudentID: "S1", Name: "Alice Smith"}, {StudentID: "S2", Name: "Ben Jones"}}, entries)

	missing := app.postJSON("/api/teacher/attendance", `{"student_id":"S1","date":"2024-05-01","class_id":"C1"}`, cookies)
	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.Contains(t, missing.Body.String(), `"field":"status"`)
	assert.Equal(t, 0, app.attendance.InsertCalls)

	created := app.postJSON("/api/teacher/attendance", `{"student_id":"S1","date":"2024-05-01","status":"Present","class_id":"C1"}`, cookies)
	assert.Equal(t, http.StatusCreated, created.Code)
	assert.Equal(t, 1, app.attendance.InsertCalls)

	recent := app.get("/api/teacher/attendance?class_id=C1", cookies)
	require.Equal(t, http.StatusOK, recent.Code)
	assert.Len(t, decode[[]domain.AttendanceRecord](t, recent), 1, "only the record inside the window")

	unknown := app.postJSON("/api/teacher/grades", `{"student_id":"S1","assignment_name":"Quiz","assigned_date":"2024-03-01","grade":"B"}`, cookies)
	assert.Equal(t, http.StatusNotFound, unknown.Code)

	graded := app.postJSON("/api/teacher/grades", `{"student_id":"S1","assignment_name":"Essay","assigned_date":"2024-03-01","grade":"A"}`, cookies)
	assert.Equal(t, http.StatusOK, graded.Code)

	hw := app.postJSON("/api/teacher/homework", `{"assignment_name":"Worksheet","assigned_date":"2024-05-01","due_date":"2024-05-08"}`, cookies)
	require.Equal(t, http.StatusCreated, hw.Code)
	assert.Equal(t, 2, decode[handler.HomeworkResponse](t, hw).Inserted)
	assert.Len(t, app.grades.Records(), 3)

	profile := app.get("/api/teacher/students/S2", cookies)
	assert.Equal(t, http.StatusOK, profile.Code)
	assert.Equal(t, http.StatusNotFound, app.get("/api/teacher/students/S404", cookies).Code)
}

func TestStudentAPI_EmptySchedules(t *testing.T) {
	app := newTestApp(t)
	cookies := app.login(t, "ben", domain.RoleStudent)

	for _, path := range []string{"/api/student/bus_schedule", "/api/student/class_schedule"} {
		rec := app.get(path, cookies)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.NoScheduleMessage, decode[handler.ScheduleResponse](t, rec).Message, path)
	}
}

func TestParentAPI(t *testing.T) {
	app := newTestApp(t)
	cookies := app.login(t, "pat", domain.RoleParent)

	students := app.get("/api/parent/students", cookies)
	require.Equal(t, http.StatusOK, students.Code)
	assert.Len(t, decode[[]domain.StudentProfile](t, students), 1)

	assert.Equal(t, http.StatusOK, app.get("/api/parent/grades?student_id=S1", cookies).Code)
	assert.Equal(t, http.StatusNotFound, app.get("/api/parent/grades?student_id=S2", cookies).Code)
	assert.Equal(t, http.StatusBadRequest, app.get("/api/parent/grades", cookies).Code)

	bus := app.get("/api/parent/bus_schedule?student_id=S1", cookies)
	require.Equal(t, http.StatusOK, bus.Code)
	assert.Empty(t, decode[handler.ScheduleResponse](t, bus).Message)

	update := app.postJSON("/api/parent/students/S1/emergency_contacts",
		`{"emergency_contacts":[{"name":"Carol","relationship":"Aunt","phone":"555-0199"}]}`, cookies)
	assert.Equal(t, http.StatusOK, update.Code)

	denied := app.postJSON("/api/parent/students/S2/emergency_contacts",
		`{"emergency_contacts":[{"name":"Carol","relationship":"Aunt","phone":"555-0199"}]}`, cookies)
	assert.Equal(t, http.StatusNotFound, denied.Code)
}

func TestAdminAPI_UpdateUserIsAudited(t *testing.T) {
	app := newTestApp(t)
	cookies := app.login(t, "root", domain.RoleAdministrator)

	rec := app.postJSON("/api/admin/users/alice", `{"field":"password","value":"brandnewpass"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, mocks.MockHash("brandnewpass"), app.users.GetUser("alice").PasswordHash)

	logs := app.get("/api/admin/audit_logs", cookies)
	require.Equal(t, http.StatusOK, logs.Code)
	entries := decode[[]domain.AuditEntry](t, logs)
	require.Len(t, entries, 1)
	assert.Equal(t, "root", entries[0].AdminUser)
	assert.Equal(t, domain.PasswordMask, entries[0].PreviousValue)

	bad := app.postJSON("/api/admin/users/alice", `{"field":"shoe_size","value":"42"}`, cookies)
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	form := app.postForm("/manage_users_permissions", url.Values{
		"username": {"alice"}, "field": {"email"}, "value": {"alice@new.test"},
	}, cookies)
	assert.Equal(t, http.StatusSeeOther, form.Code)
	assert.Equal(t, "alice@new.test", app.users.GetUser("alice").Email)
	assert.Len(t, app.audit.Entries(), 2)
}

func TestPasswordResetFlow(t *testing.T) {
	app := newTestApp(t)

	rec := app.postJSON("/api/reset_password", `{"username":"alice","email":"alice@school.test","role":"Student"}`, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	other := app.postJSON("/api/reset_password", `{"username":"alice","email":"wrong@school.test","role":"Student"}`, nil)
	assert.Equal(t, http.StatusAccepted, other.Code)
	assert.Equal(t, rec.Body.String(), other.Body.String())

	sent := app.mailer.Sent()
	require.Len(t, sent, 1)
	link := strings.TrimSpace(sent[0].Body[strings.Index(sent[0].Body, "http://"):])
	u, err := url.Parse(link)
	require.NoError(t, err)
	token := u.Query().Get("token")

	mismatch := app.postForm("/reset_password/confirm", url.Values{
		"token": {token}, "password": {"newpassword1"}, "confirm_password": {"different1"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, mismatch.Code)

	done := app.postForm("/reset_password/confirm", url.Values{
		"token": {token}, "password": {"newpassword1"}, "confirm_password": {"newpassword1"},
	}, nil)
	assert.Equal(t, http.StatusSeeOther, done.Code)
	assert.Equal(t, mocks.MockHash("newpassword1"), app.users.GetUser("alice").PasswordHash)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := app.get(path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "UP", decode[handler.HealthResponse](t, rec).Status)
	}
	assert.Equal(t, http.StatusOK, app.get("/metrics", nil).Code)
}
