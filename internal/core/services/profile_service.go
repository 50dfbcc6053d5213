package services

import (
	"context"

	"github.com/pkg/errors"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

type ProfileService struct {
	students ports.StudentRepository
	parents  ports.ParentRepository
	teachers ports.TeacherRepository
}

var _ ports.ProfileService = (*ProfileService)(nil)

func NewProfileService(
	students ports.StudentRepository,
	parents ports.ParentRepository,
	teachers ports.TeacherRepository,
) *ProfileService {
	return &ProfileService{students: students, parents: parents, teachers: teachers}
}

func (s *ProfileService) StudentProfile(ctx context.Context, studentID string) (*domain.StudentProfile, error) {
	st, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, errors.Wrapf(err, "loading student %s", studentID)
	}
	return st, nil
}

func (s *ProfileService) LinkedStudents(ctx context.Context, parentID string) ([]domain.StudentProfile, error) {
	parent, err := s.parents.FindByID(ctx, parentID)
	if err != nil {
		return nil, errors.Wrapf(err, "loading parent %s", parentID)
	}
	if len(parent.LinkedStudents) == 0 {
		return []domain.StudentProfile{}, nil
	}
	students, err := s.students.FindByIDs(ctx, parent.LinkedStudents)
	if err != nil {
		return nil, errors.Wrap(err, "loading linked students")
	}
	return students, nil
}

// StudentForParent loads a student only when it is linked to the parent.
// Unlinked students are indistinguishable from missing ones.
func (s *ProfileService) StudentForParent(ctx context.Context, parentID, studentID string) (*domain.StudentProfile, error) {
	parent, err := s.parents.FindByID(ctx, parentID)
	if err != nil {
		return nil, errors.Wrapf(err, "loading parent %s", parentID)
	}
	if !parent.IsLinked(studentID) {
		return nil, errors.Wrapf(domain.ErrNotFound, "student %s for parent %s", studentID, parentID)
	}
	return s.StudentProfile(ctx, studentID)
}

func (s *ProfileService) UpdateEmergencyContacts(ctx context.Context, parentID, studentID string, contacts []domain.EmergencyContact) error {
	if len(contacts) == 0 {
		return fieldInvalid("emergency_contacts", requiredText)
	}
	for _, c := range contacts {
		if err := validateStruct(c); err != nil {
			return err
		}
	}
	if _, err := s.StudentForParent(ctx, parentID, studentID); err != nil {
		return err
	}
	if err := s.students.UpdateEmergencyContacts(ctx, studentID, contacts); err != nil {
		return errors.Wrapf(err, "updating contacts for %s", studentID)
	}
	return nil
}

func (s *ProfileService) TeacherSchedule(ctx context.Context, teacherID string) ([]domain.AssignedClass, error) {
	t, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		return nil, errors.Wrapf(err, "loading teacher %s", teacherID)
	}
	if t.AssignedClasses == nil {
		return []domain.AssignedClass{}, nil
	}
	return t.AssignedClasses, nil
}
