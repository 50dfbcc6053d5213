package services

import (
	"context"

	"github.com/pkg/errors"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

type RosterService struct {
	teachers ports.TeacherRepository
	students ports.StudentRepository
}

var _ ports.RosterService = (*RosterService)(nil)

func NewRosterService(teachers ports.TeacherRepository, students ports.StudentRepository) *RosterService {
	return &RosterService{teachers: teachers, students: students}
}

// Roster lists the students enrolled in any of the teacher's classes.
func (s *RosterService) Roster(ctx context.Context, teacherID string) ([]domain.RosterEntry, error) {
	profile, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		return nil, errors.Wrapf(err, "loading teacher %s", teacherID)
	}
	return s.RosterForProfile(ctx, *profile)
}

// RosterForProfile resolves a roster from an already loaded profile, such as
// the snapshot stored in a teacher's session.
func (s *RosterService) RosterForProfile(ctx context.Context, profile domain.TeacherProfile) ([]domain.RosterEntry, error) {
	ids := profile.EnrolledStudentIDs()
	if len(ids) == 0 {
		return []domain.RosterEntry{}, nil
	}

	students, err := s.students.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "loading enrolled students")
	}
	byID := make(map[string]domain.StudentProfile, len(students))
	for _, st := range students {
		byID[st.StudentID] = st
	}

	roster := make([]domain.RosterEntry, 0, len(ids))
	for _, id := range ids {
		st, ok := byID[id]
		if !ok {
			continue
		}
		roster = append(roster, domain.RosterEntry{StudentID: id, Name: st.DisplayName()})
	}
	return roster, nil
}
