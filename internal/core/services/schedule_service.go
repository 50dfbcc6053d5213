package services

import (
	"context"

	"github.com/pkg/errors"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

type ScheduleService struct {
	students ports.StudentRepository
	teachers ports.TeacherRepository
	routes   ports.BusRouteRepository
}

var _ ports.ScheduleService = (*ScheduleService)(nil)

func NewScheduleService(
	students ports.StudentRepository,
	teachers ports.TeacherRepository,
	routes ports.BusRouteRepository,
) *ScheduleService {
	return &ScheduleService{students: students, teachers: teachers, routes: routes}
}

// ClassSchedule pairs each enrolled class with the teacher assigned to it, in
// enrollment order. Classes nobody teaches are left out.
func (s *ScheduleService) ClassSchedule(ctx context.Context, studentID string) (*domain.ClassSchedule, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, errors.Wrapf(err, "loading student %s", studentID)
	}
	out := &domain.ClassSchedule{StudentID: studentID, Entries: []domain.ClassScheduleEntry{}}
	if len(student.EnrolledClasses) == 0 {
		return out, nil
	}

	teachers, err := s.teachers.FindByClassIDs(ctx, student.EnrolledClasses)
	if err != nil {
		return nil, errors.Wrap(err, "loading class teachers")
	}

	byClass := make(map[string]domain.ClassScheduleEntry)
	for _, t := range teachers {
		for _, c := range t.AssignedClasses {
			if _, seen := byClass[c.ClassID]; seen {
				continue
			}
			byClass[c.ClassID] = domain.ClassScheduleEntry{
				ClassID:     c.ClassID,
				ClassName:   c.ClassName,
				TeacherName: t.Name,
				Schedule:    c.Schedule,
			}
		}
	}
	for _, classID := range student.EnrolledClasses {
		if entry, ok := byClass[classID]; ok {
			out.Entries = append(out.Entries, entry)
		}
	}
	return out, nil
}

// BusSchedule resolves the student's route. A student without a route, or
// with a dangling route id, gets an empty schedule rather than an error.
func (s *ScheduleService) BusSchedule(ctx context.Context, studentID string) (*domain.BusSchedule, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, errors.Wrapf(err, "loading student %s", studentID)
	}
	out := &domain.BusSchedule{StudentID: studentID}
	if student.BusSchedule == "" {
		return out, nil
	}

	route, err := s.routes.FindByID(ctx, student.BusSchedule)
	if errors.Is(err, domain.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading bus route %s", student.BusSchedule)
	}
	out.Route = route
	return out, nil
}
