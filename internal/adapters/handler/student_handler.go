package handler

import (
	"net/http"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/session"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

// ScheduleResponse carries a schedule plus the "no schedule" message when the
// schedule is empty.
type ScheduleResponse struct {
	Schedule any    `json:"schedule"`
	Message  string `json:"message,omitempty"`
}

func classScheduleResponse(s *domain.ClassSchedule) ScheduleResponse {
	resp := ScheduleResponse{Schedule: s}
	if s.Empty() {
		resp.Message = domain.NoScheduleMessage
	}
	return resp
}

func busScheduleResponse(s *domain.BusSchedule) ScheduleResponse {
	resp := ScheduleResponse{Schedule: s}
	if s.Empty() {
		resp.Message = domain.NoScheduleMessage
	}
	return resp
}

type StudentHandler struct {
	grades    ports.GradeService
	schedules ports.ScheduleService
	profiles  ports.ProfileService
	pages     *Renderer
}

func NewStudentHandler(grades ports.GradeService, schedules ports.ScheduleService, profiles ports.ProfileService, pages *Renderer) *StudentHandler {
	return &StudentHandler{grades: grades, schedules: schedules, profiles: profiles, pages: pages}
}

func studentID(r *http.Request) string {
	return session.FromContext(r.Context()).ProfileID
}

func (h *StudentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, "student_dashboard", PageData{Title: "Student dashboard"})
}

func (h *StudentHandler) ClassesAndGrades(w http.ResponseWriter, r *http.Request) {
	grades, err := h.grades.GradesForStudent(r.Context(), studentID(r))
	h.pages.RenderResult(w, r, "student_classes_and_grades", "Classes and grades", grades, err)
}

func (h *StudentHandler) BusSchedulePage(w http.ResponseWriter, r *http.Request) {
	s, err := h.schedules.BusSchedule(r.Context(), studentID(r))
	h.pages.RenderResult(w, r, "bus_schedule", "Bus schedule", s, err)
}

func (h *StudentHandler) ClassSchedulePage(w http.ResponseWriter, r *http.Request) {
	s, err := h.schedules.ClassSchedule(r.Context(), studentID(r))
	h.pages.RenderResult(w, r, "class_schedule", "Class schedule", s, err)
}

func (h *StudentHandler) ProfileSettings(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.StudentProfile(r.Context(), studentID(r))
	h.pages.RenderResult(w, r, "student_profile", "Profile settings", p, err)
}

func (h *StudentHandler) Grades(w http.ResponseWriter, r *http.Request) {
	grades, err := h.grades.GradesForStudent(r.Context(), studentID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grades)
}

func (h *StudentHandler) BusSchedule(w http.ResponseWriter, r *http.Request) {
	s, err := h.schedules.BusSchedule(r.Context(), studentID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, busScheduleResponse(s))
}

func (h *StudentHandler) ClassSchedule(w http.ResponseWriter, r *http.Request) {
	s, err := h.schedules.ClassSchedule(r.Context(), studentID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, classScheduleResponse(s))
}

func (h *StudentHandler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.StudentProfile(r.Context(), studentID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
