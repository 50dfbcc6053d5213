package mocks

import (
	"errors"
	"time"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
)

var errPublishRejected = errors.New("publish rejected")

// ErrDatabase simulates an unavailable store.
var ErrDatabase = errors.New("database unavailable")

// Teacher T1 teaches class C1 with students S1 and S2.
func TeacherT1() domain.TeacherProfile {
	return domain.TeacherProfile{
		TeacherID: "T1",
		Name:      "Ms. Rivera",
		AssignedClasses: []domain.AssignedClass{
			{ClassID: "C1", ClassName: "Mathematics", Schedule: "Mon 09:00", StudentsEnrolled: []string{"S1", "S2"}},
		},
	}
}

func StudentS1() domain.StudentProfile {
	return domain.StudentProfile{
		StudentID:       "S1",
		FirstName:       "Alice",
		LastName:        "Smith",
		DateOfBirth:     "2012-04-01",
		EnrolledClasses: []string{"C1"},
		BusSchedule:     "R1",
		EmergencyContacts: []domain.EmergencyContact{
			{Name: "Bob Smith", Relationship: "Father", Phone: "555-0100"},
		},
	}
}

func StudentS2() domain.StudentProfile {
	return domain.StudentProfile{
		StudentID:       "S2",
		FirstName:       "Ben",
		LastName:        "Jones",
		EnrolledClasses: []string{"C1"},
	}
}

// ParentP1 is linked to S1 only.
func ParentP1() domain.ParentProfile {
	return domain.ParentProfile{ParentID: "P1", LinkedStudents: []string{"S1"}}
}

func RouteR1() domain.BusRoute {
	return domain.BusRoute{
		RouteID:   "R1",
		BusNumber: "12",
		Driver:    "Sam",
		Stops: []domain.BusStop{
			{Name: "Main St", PickupTime: "07:30", DropoffTime: "15:30"},
		},
	}
}

// TestUser builds an account whose password is stored with MockHash.
func TestUser(username, password string, role domain.Role, profileID string) domain.User {
	return domain.User{
		Username:     username,
		Email:        username + "@school.test",
		PasswordHash: MockHash(password),
		Role:         role,
		Name:         username,
		ProfileID:    profileID,
	}
}

// Homework returns an ungraded record for studentID.
func Homework(studentID, assignment, assigned string) domain.GradeRecord {
	return domain.GradeRecord{
		StudentID:      studentID,
		ClassNumber:    "C1",
		AssignmentName: assignment,
		AssignedDate:   assigned,
		DueDate:        assigned,
	}
}

// FixedClock returns a clock frozen at t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
