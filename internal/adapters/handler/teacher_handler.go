package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/session"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

type TeacherHandler struct {
	roster     ports.RosterService
	grades     ports.GradeService
	attendance ports.AttendanceService
	schedules  ports.ScheduleService
	profiles   ports.ProfileService
	pages      *Renderer
}

func NewTeacherHandler(
	roster ports.RosterService,
	grades ports.GradeService,
	attendance ports.AttendanceService,
	schedules ports.ScheduleService,
	profiles ports.ProfileService,
	pages *Renderer,
) *TeacherHandler {
	return &TeacherHandler{
		roster:     roster,
		grades:     grades,
		attendance: attendance,
		schedules:  schedules,
		profiles:   profiles,
		pages:      pages,
	}
}

type HomeworkResponse struct {
	Message  string `json:"message"`
	Inserted int    `json:"inserted"`
}

// TeacherPage is the data behind every teacher page: the roster plus
// whatever the page looked up.
type TeacherPage struct {
	Classes    []domain.AssignedClass
	Roster     []domain.RosterEntry
	StudentID  string
	ClassID    string
	Grades     []domain.GradeRecord
	Attendance []domain.AttendanceRecord
	Student    *domain.StudentProfile
	Bus        *domain.BusSchedule
}

// rosterFor uses the profile snapshot taken at login when there is one.
func (h *TeacherHandler) rosterFor(r *http.Request) ([]domain.RosterEntry, error) {
	sess := session.FromContext(r.Context())
	if sess.Teacher != nil {
		return h.roster.RosterForProfile(r.Context(), *sess.Teacher)
	}
	return h.roster.Roster(r.Context(), sess.ProfileID)
}

func (h *TeacherHandler) classes(r *http.Request) []domain.AssignedClass {
	if t := session.FromContext(r.Context()).Teacher; t != nil {
		return t.AssignedClasses
	}
	return nil
}

func (h *TeacherHandler) basePage(r *http.Request) (*TeacherPage, error) {
	roster, err := h.rosterFor(r)
	if err != nil {
		return nil, err
	}
	return &TeacherPage{
		Classes:   h.classes(r),
		Roster:    roster,
		StudentID: r.URL.Query().Get("student_id"),
		ClassID:   r.URL.Query().Get("class_id"),
	}, nil
}

func attendanceQuery(r *http.Request, defaultDays int) domain.AttendanceQuery {
	q := domain.AttendanceQuery{
		ClassID:   r.URL.Query().Get("class_id"),
		StudentID: r.URL.Query().Get("student_id"),
		Days:      defaultDays,
	}
	if d, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && d > 0 {
		q.Days = d
	}
	return q
}

func (h *TeacherHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	page, err := h.basePage(r)
	h.pages.RenderResult(w, r, "teacher_dashboard", "Teacher dashboard", page, err)
}

func (h *TeacherHandler) AttendancePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.basePage(r)
	if err == nil {
		page.Attendance, err = h.attendance.Query(r.Context(), attendanceQuery(r, domain.TeacherAttendanceWindowDays))
	}
	h.pages.RenderResult(w, r, "teacher_attendance", "Attendance", page, err)
}

// SubmitAttendance handles the attendance form on the attendance page.
func (h *TeacherHandler) SubmitAttendance(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	_, err := h.attendance.Record(r.Context(), domain.AttendanceInput{
		StudentID: r.PostForm.Get("student_id"),
		Date:      r.PostForm.Get("date"),
		Status:    r.PostForm.Get("status"),
		ClassID:   r.PostForm.Get("class_id"),
	})
	redirectWithResult(w, r, "/teacher_attendance", "Attendance recorded.", err)
}

func (h *TeacherHandler) AssignGradesPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.basePage(r)
	if err == nil && page.StudentID != "" {
		page.Grades, err = h.grades.GradesForStudent(r.Context(), page.StudentID)
	}
	h.pages.RenderResult(w, r, "teacher_assign_grades", "Assign grades", page, err)
}

// SubmitAssignGrades handles both forms on the grades page: grading one
// record and assigning homework to every class.
func (h *TeacherHandler) SubmitAssignGrades(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	f := r.PostForm
	if f.Get("action") == "homework" {
		n, err := h.grades.AssignHomework(r.Context(), session.FromContext(r.Context()).ProfileID, domain.Homework{
			AssignmentName: f.Get("assignment_name"),
			AssignedDate:   f.Get("assigned_date"),
			DueDate:        f.Get("due_date"),
		})
		redirectWithResult(w, r, "/teacher_assign_grades", "Homework assigned to "+strconv.Itoa(n)+" students.", err)
		return
	}
	err := h.grades.SubmitGrade(r.Context(), domain.GradeSubmission{
		StudentID:      f.Get("student_id"),
		AssignmentName: f.Get("assignment_name"),
		AssignedDate:   f.Get("assigned_date"),
		Grade:          f.Get("grade"),
	})
	redirectWithResult(w, r, "/teacher_assign_grades?student_id="+url.QueryEscape(f.Get("student_id")), "Grade saved.", err)
}

func (h *TeacherHandler) BusScheduleLookup(w http.ResponseWriter, r *http.Request) {
	page, err := h.basePage(r)
	if err == nil && page.StudentID != "" {
		page.Bus, err = h.schedules.BusSchedule(r.Context(), page.StudentID)
	}
	h.pages.RenderResult(w, r, "teacher_bus_schedule_lookup", "Bus schedule lookup", page, err)
}

func (h *TeacherHandler) StudentProfiles(w http.ResponseWriter, r *http.Request) {
	page, err := h.basePage(r)
	if err == nil && page.StudentID != "" {
		page.Student, err = h.profiles.StudentProfile(r.Context(), page.StudentID)
	}
	h.pages.RenderResult(w, r, "teacher_student_profiles", "Student profiles", page, err)
}

func (h *TeacherHandler) ViewSchedule(w http.ResponseWriter, r *http.Request) {
	classes, err := h.profiles.TeacherSchedule(r.Context(), session.FromContext(r.Context()).ProfileID)
	h.pages.RenderResult(w, r, "teacher_view_schedule", "My schedule", &TeacherPage{Classes: classes}, err)
}

func (h *TeacherHandler) Roster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.rosterFor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

func (h *TeacherHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	records, err := h.attendance.Query(r.Context(), attendanceQuery(r, domain.TeacherAttendanceWindowDays))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *TeacherHandler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	var in domain.AttendanceInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := h.attendance.Record(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *TeacherHandler) Grades(w http.ResponseWriter, r *http.Request) {
	grades, err := h.grades.GradesForStudent(r.Context(), r.URL.Query().Get("student_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grades)
}

func (h *TeacherHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	var sub domain.GradeSubmission
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.grades.SubmitGrade(r.Context(), sub); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Grade saved"})
}

func (h *TeacherHandler) AssignHomework(w http.ResponseWriter, r *http.Request) {
	var hw domain.Homework
	if err := decodeJSON(r, &hw); err != nil {
		writeError(w, r, err)
		return
	}
	n, err := h.grades.AssignHomework(r.Context(), session.FromContext(r.Context()).ProfileID, hw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, HomeworkResponse{Message: "Homework assigned", Inserted: n})
}

func (h *TeacherHandler) BusSchedule(w http.ResponseWriter, r *http.Request) {
	s, err := h.schedules.BusSchedule(r.Context(), r.URL.Query().Get("student_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, busScheduleResponse(s))
}

func (h *TeacherHandler) Student(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.StudentProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *TeacherHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	classes, err := h.profiles.TeacherSchedule(r.Context(), session.FromContext(r.Context()).ProfileID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}
