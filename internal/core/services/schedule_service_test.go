package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/services"
	"github.com/AchilleasB/school-portal/portal-service/test/mocks"
)

func newScheduleService(students ...domain.StudentProfile) *services.ScheduleService {
	t2 := domain.TeacherProfile{
		TeacherID: "T2",
		Name:      "Mr. Okafor",
		AssignedClasses: []domain.AssignedClass{
			{ClassID: "C2", ClassName: "History", Schedule: "Tue 11:00"},
		},
	}
	return services.NewScheduleService(
		mocks.NewMockStudentRepository(students...),
		mocks.NewMockTeacherRepository(mocks.TeacherT1(), t2),
		mocks.NewMockBusRouteRepository(mocks.RouteR1()),
	)
}

func TestScheduleService_ClassSchedule(t *testing.T) {
	s1 := mocks.StudentS1()
	s1.EnrolledClasses = []string{"C2", "C1", "C404"}
	svc := newScheduleService(s1)

	got, err := svc.ClassSchedule(context.Background(), "S1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", got.Entries)
	}
	if got.Entries[0].ClassID != "C2" || got.Entries[0].TeacherName != "Mr. Okafor" {
		t.Errorf("unexpected first entry %+v", got.Entries[0])
	}
	if got.Entries[1].ClassID != "C1" || got.Entries[1].TeacherName != "Ms. Rivera" {
		t.Errorf("unexpected second entry %+v", got.Entries[1])
	}
}

func TestScheduleService_ClassSchedule_Empty(t *testing.T) {
	s2 := mocks.StudentS2()
	s2.EnrolledClasses = nil
	svc := newScheduleService(s2)

	got, err := svc.ClassSchedule(context.Background(), "S2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Empty() {
		t.Errorf("expected empty schedule, got %+v", got)
	}
}

func TestScheduleService_BusSchedule(t *testing.T) {
	dangling := mocks.StudentS2()
	dangling.StudentID = "S3"
	dangling.BusSchedule = "R404"
	svc := newScheduleService(mocks.StudentS1(), mocks.StudentS2(), dangling)

	tests := []struct {
		name      string
		studentID string
		wantEmpty bool
	}{
		{"assigned_route", "S1", false},
		{"no_route", "S2", true},
		{"dangling_route", "S3", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.BusSchedule(context.Background(), tt.studentID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Empty() != tt.wantEmpty {
				t.Errorf("expected empty=%v, got %+v", tt.wantEmpty, got)
			}
			if !tt.wantEmpty && got.Route.BusNumber != "12" {
				t.Errorf("unexpected route %+v", got.Route)
			}
		})
	}
}

func TestScheduleService_UnknownStudent(t *testing.T) {
	svc := newScheduleService()

	if _, err := svc.BusSchedule(context.Background(), "S404"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.ClassSchedule(context.Background(), "S404"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
