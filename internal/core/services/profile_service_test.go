package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/services"
	"github.com/AchilleasB/school-portal/portal-service/test/mocks"
)

func newProfileFixture() (*services.ProfileService, *mocks.MockStudentRepository) {
	students := mocks.NewMockStudentRepository(mocks.StudentS1(), mocks.StudentS2())
	svc := services.NewProfileService(
		students,
		mocks.NewMockParentRepository(mocks.ParentP1(), domain.ParentProfile{ParentID: "P2"}),
		mocks.NewMockTeacherRepository(mocks.TeacherT1()),
	)
	return svc, students
}

func TestProfileService_LinkedStudents(t *testing.T) {
	svc, _ := newProfileFixture()

	got, err := svc.LinkedStudents(context.Background(), "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].StudentID != "S1" {
		t.Errorf("expected only S1, got %+v", got)
	}

	none, err := svc.LinkedStudents(context.Background(), "P2")
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil list, got %v, %v", none, err)
	}
}

func TestProfileService_StudentForParent(t *testing.T) {
	svc, _ := newProfileFixture()

	if _, err := svc.StudentForParent(context.Background(), "P1", "S1"); err != nil {
		t.Errorf("linked student: unexpected error %v", err)
	}
	if _, err := svc.StudentForParent(context.Background(), "P1", "S2"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unlinked student: expected ErrNotFound, got %v", err)
	}
}

func TestProfileService_UpdateEmergencyContacts(t *testing.T) {
	valid := []domain.EmergencyContact{{Name: "Carol", Relationship: "Aunt", Phone: "555-0199"}}
	tests := []struct {
		name      string
		studentID string
		contacts  []domain.EmergencyContact
		wantErr   func(error) bool
		wantWrite bool
	}{
		{
			name:      "linked_student",
			studentID: "S1",
			contacts:  valid,
			wantErr:   func(err error) bool { return err == nil },
			wantWrite: true,
		},
		{
			name:      "unlinked_student",
			studentID: "S2",
			contacts:  valid,
			wantErr:   func(err error) bool { return errors.Is(err, domain.ErrNotFound) },
		},
		{
			name:      "empty_list",
			studentID: "S1",
			wantErr:   isValidationError,
		},
		{
			name:      "contact_without_phone",
			studentID: "S1",
			contacts:  []domain.EmergencyContact{{Name: "Carol"}},
			wantErr:   isValidationError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, students := newProfileFixture()
			err := svc.UpdateEmergencyContacts(context.Background(), "P1", tt.studentID, tt.contacts)
			if !tt.wantErr(err) {
				t.Fatalf("unexpected error result: %v", err)
			}
			if wrote := students.UpdateContactsCalls > 0; wrote != tt.wantWrite {
				t.Errorf("expected write=%v, got %v", tt.wantWrite, wrote)
			}
			if tt.wantWrite {
				st, _ := students.FindByID(context.Background(), tt.studentID)
				if len(st.EmergencyContacts) != 1 || st.EmergencyContacts[0].Name != "Carol" {
					t.Errorf("contacts not replaced: %+v", st.EmergencyContacts)
				}
			}
		})
	}
}

func TestProfileService_TeacherSchedule(t *testing.T) {
	svc, _ := newProfileFixture()

	classes, err := svc.TeacherSchedule(context.Background(), "T1")
	if err != nil || len(classes) != 1 || classes[0].ClassID != "C1" {
		t.Errorf("unexpected schedule %+v, %v", classes, err)
	}
	if _, err := svc.TeacherSchedule(context.Background(), "T404"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func isValidationError(err error) bool {
	var verr *domain.ValidationError
	return errors.As(err, &verr)
}
