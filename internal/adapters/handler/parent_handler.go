package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/session"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

type ParentHandler struct {
	profiles   ports.ProfileService
	grades     ports.GradeService
	attendance ports.AttendanceService
	schedules  ports.ScheduleService
	pages      *Renderer
}

func NewParentHandler(
	profiles ports.ProfileService,
	grades ports.GradeService,
	attendance ports.AttendanceService,
	schedules ports.ScheduleService,
	pages *Renderer,
) *ParentHandler {
	return &ParentHandler{
		profiles:   profiles,
		grades:     grades,
		attendance: attendance,
		schedules:  schedules,
		pages:      pages,
	}
}

type ContactsRequest struct {
	EmergencyContacts []domain.EmergencyContact `json:"emergency_contacts"`
}

// ParentPage lists the parent's children and the data looked up for the
// selected one.
type ParentPage struct {
	Students   []domain.StudentProfile
	Selected   *domain.StudentProfile
	Attendance []domain.AttendanceRecord
	Grades     []domain.GradeRecord
	Bus        *domain.BusSchedule
	Classes    *domain.ClassSchedule
}

func parentID(r *http.Request) string {
	return session.FromContext(r.Context()).ProfileID
}

var errStudentIDRequired = domain.NewValidationError(nil, domain.FieldError{Field: "student_id", Error: "this field is required"})

// linkedStudent loads the requested student, refusing students not linked
// to the signed in parent.
func (h *ParentHandler) linkedStudent(r *http.Request, studentID string) (*domain.StudentProfile, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, errStudentIDRequired
	}
	return h.profiles.StudentForParent(r.Context(), parentID(r), studentID)
}

// page loads the children and selects the one named by ?student_id, falling
// back to the first linked child.
func (h *ParentHandler) page(r *http.Request) (*ParentPage, error) {
	students, err := h.profiles.LinkedStudents(r.Context(), parentID(r))
	if err != nil {
		return nil, err
	}
	page := &ParentPage{Students: students}
	id := r.URL.Query().Get("student_id")
	if id == "" {
		if len(students) > 0 {
			page.Selected = &students[0]
		}
		return page, nil
	}
	page.Selected, err = h.linkedStudent(r, id)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (h *ParentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	h.pages.RenderResult(w, r, "parent_dashboard", "Parent dashboard", page, err)
}

func (h *ParentHandler) AttendanceRecords(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	if err == nil && page.Selected != nil {
		q := attendanceQuery(r, domain.ParentAttendanceWindowDays)
		q.StudentID = page.Selected.StudentID
		page.Attendance, err = h.attendance.Query(r.Context(), q)
	}
	h.pages.RenderResult(w, r, "parent_attendance_records", "Attendance records", page, err)
}

func (h *ParentHandler) BusSchedulePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	if err == nil && page.Selected != nil {
		page.Bus, err = h.schedules.BusSchedule(r.Context(), page.Selected.StudentID)
	}
	h.pages.RenderResult(w, r, "parent_bus_schedule", "Bus schedule", page, err)
}

func (h *ParentHandler) ClassSchedulePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	if err == nil && page.Selected != nil {
		page.Classes, err = h.schedules.ClassSchedule(r.Context(), page.Selected.StudentID)
	}
	h.pages.RenderResult(w, r, "parent_view_class_schedule", "Class schedule", page, err)
}

func (h *ParentHandler) GradesPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	if err == nil && page.Selected != nil {
		page.Grades, err = h.grades.GradesForStudent(r.Context(), page.Selected.StudentID)
	}
	h.pages.RenderResult(w, r, "parent_view_student_grades", "Student grades", page, err)
}

func (h *ParentHandler) UpdateStudentInfoPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.page(r)
	h.pages.RenderResult(w, r, "parent_update_student_info", "Update student information", page, err)
}

// UpdateStudentInfo handles the emergency contact form. The form carries
// parallel contact_name, contact_relationship and contact_phone fields.
func (h *ParentHandler) UpdateStudentInfo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	f := r.PostForm
	names, rels, phones := f["contact_name"], f["contact_relationship"], f["contact_phone"]
	var contacts []domain.EmergencyContact
	for i, name := range names {
		c := domain.EmergencyContact{Name: strings.TrimSpace(name)}
		if i < len(rels) {
			c.Relationship = strings.TrimSpace(rels[i])
		}
		if i < len(phones) {
			c.Phone = strings.TrimSpace(phones[i])
		}
		if c.Name == "" && c.Phone == "" {
			continue
		}
		contacts = append(contacts, c)
	}

	studentID := f.Get("student_id")
	err := h.profiles.UpdateEmergencyContacts(r.Context(), parentID(r), studentID, contacts)
	redirectWithResult(w, r, "/parent_update_student_info?student_id="+url.QueryEscape(studentID), "Emergency contacts updated.", err)
}

func (h *ParentHandler) Students(w http.ResponseWriter, r *http.Request) {
	students, err := h.profiles.LinkedStudents(r.Context(), parentID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *ParentHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	st, err := h.linkedStudent(r, r.URL.Query().Get("student_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := attendanceQuery(r, domain.ParentAttendanceWindowDays)
	q.StudentID = st.StudentID
	records, err := h.attendance.Query(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *ParentHandler) Grades(w http.ResponseWriter, r *http.Request) {
	st, err := h.linkedStudent(r, r.URL.Query().Get("student_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	grades, err := h.grades.GradesForStudent(r.Context(), st.StudentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grades)
}

func (h *ParentHandler) BusSchedule(w http.ResponseWriter, r *http.Request) {
	st, err := h.linkedStudent(r, r.URL.Query().Get("student_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.schedules.BusSchedule(r.Context(), st.StudentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, busScheduleResponse(s))
}

func (h *ParentHandler) ClassSchedule(w http.ResponseWriter, r *http.Request) {
	st, err := h.linkedStudent(r, r.URL.Query().Get("student_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s, err := h.schedules.ClassSchedule(r.Context(), st.StudentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, classScheduleResponse(s))
}

func (h *ParentHandler) UpdateEmergencyContacts(w http.ResponseWriter, r *http.Request) {
	var req ContactsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.profiles.UpdateEmergencyContacts(r.Context(), parentID(r), r.PathValue("id"), req.EmergencyContacts); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Emergency contacts updated"})
}
