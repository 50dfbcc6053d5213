package domain

import "strings"

type AssignedClass struct {
	ClassID          string   `json:"class_id"`
	ClassName        string   `json:"class_name,omitempty"`
	Schedule         string   `json:"schedule,omitempty"`
	StudentsEnrolled []string `json:"students_enrolled"`
}

type TeacherProfile struct {
	TeacherID       string          `json:"teacher_id"`
	Name            string          `json:"name"`
	AssignedClasses []AssignedClass `json:"assigned_classes"`
}

// ClassIDs returns the assigned class ids in profile order.
func (t TeacherProfile) ClassIDs() []string {
	ids := make([]string, 0, len(t.AssignedClasses))
	for _, c := range t.AssignedClasses {
		ids = append(ids, c.ClassID)
	}
	return ids
}

// EnrolledStudentIDs returns each enrolled student once, in first-seen order.
func (t TeacherProfile) EnrolledStudentIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, c := range t.AssignedClasses {
		for _, id := range c.StudentsEnrolled {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

type EmergencyContact struct {
	Name         string `json:"name" validate:"required,notblank"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone" validate:"required,notblank"`
}

type StudentProfile struct {
	StudentID         string             `json:"student_id"`
	FirstName         string             `json:"first_name"`
	LastName          string             `json:"last_name"`
	DateOfBirth       string             `json:"date_of_birth,omitempty"`
	EmergencyContacts []EmergencyContact `json:"emergency_contacts"`
	EnrolledClasses   []string           `json:"enrolled_classes"`
	BusSchedule       string             `json:"bus_schedule,omitempty"`
}

func (s StudentProfile) DisplayName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

type ParentProfile struct {
	ParentID       string   `json:"parent_id"`
	LinkedStudents []string `json:"linked_students"`
}

func (p ParentProfile) IsLinked(studentID string) bool {
	for _, id := range p.LinkedStudents {
		if id == studentID {
			return true
		}
	}
	return false
}

// RosterEntry is one student in a teacher's roster.
type RosterEntry struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
}
