package services

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

type GradeService struct {
	grades   ports.GradeRepository
	teachers ports.TeacherRepository
	now      func() time.Time
}

var _ ports.GradeService = (*GradeService)(nil)

// NewGradeService builds the service. A nil clock means time.Now.
func NewGradeService(grades ports.GradeRepository, teachers ports.TeacherRepository, clock func() time.Time) *GradeService {
	if clock == nil {
		clock = time.Now
	}
	return &GradeService{grades: grades, teachers: teachers, now: clock}
}

func (s *GradeService) GradesForStudent(ctx context.Context, studentID string) ([]domain.GradeRecord, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, fieldInvalid("student_id", requiredText)
	}
	records, err := s.grades.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, errors.Wrapf(err, "loading grades for %s", studentID)
	}
	return records, nil
}

// SubmitGrade fills in the grade of one existing assignment record. It never
// creates a record; an unmatched key yields domain.ErrNotFound.
func (s *GradeService) SubmitGrade(ctx context.Context, sub domain.GradeSubmission) error {
	sub.StudentID = strings.TrimSpace(sub.StudentID)
	sub.AssignmentName = strings.TrimSpace(sub.AssignmentName)
	sub.Grade = strings.TrimSpace(sub.Grade)
	if err := validateStruct(sub); err != nil {
		return err
	}
	assigned, err := NormalizeDate("assigned_date", sub.AssignedDate)
	if err != nil {
		return err
	}

	key := domain.GradeKey{
		StudentID:      sub.StudentID,
		AssignmentName: sub.AssignmentName,
		AssignedDate:   assigned,
	}
	graded := s.now().UTC().Format(domain.DateLayout)
	if err := s.grades.SetGrade(ctx, key, sub.Grade, graded); err != nil {
		return errors.Wrapf(err, "grading %q for %s", sub.AssignmentName, sub.StudentID)
	}
	return nil
}

// AssignHomework creates one ungraded record per enrolled student of every
// class the teacher is assigned. Repeated calls insert duplicates.
func (s *GradeService) AssignHomework(ctx context.Context, teacherID string, hw domain.Homework) (int, error) {
	hw.AssignmentName = strings.TrimSpace(hw.AssignmentName)
	if err := validateStruct(hw); err != nil {
		return 0, err
	}
	assigned, err := NormalizeDate("assigned_date", hw.AssignedDate)
	if err != nil {
		return 0, err
	}
	due, err := NormalizeDate("due_date", hw.DueDate)
	if err != nil {
		return 0, err
	}

	profile, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		return 0, errors.Wrapf(err, "loading teacher %s", teacherID)
	}

	var records []domain.GradeRecord
	for _, class := range profile.AssignedClasses {
		for _, studentID := range class.StudentsEnrolled {
			records = append(records, domain.GradeRecord{
				StudentID:      studentID,
				ClassNumber:    class.ClassID,
				AssignmentName: hw.AssignmentName,
				AssignedDate:   assigned,
				DueDate:        due,
			})
		}
	}
	if len(records) == 0 {
		return 0, nil
	}

	n, err := s.grades.InsertMany(ctx, records)
	if err != nil {
		return n, errors.Wrap(err, "inserting homework records")
	}
	return n, nil
}
