package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

type AttendanceService struct {
	records ports.AttendanceRepository
	now     func() time.Time
}

var _ ports.AttendanceService = (*AttendanceService)(nil)

// NewAttendanceService builds the service. A nil clock means time.Now.
func NewAttendanceService(records ports.AttendanceRepository, clock func() time.Time) *AttendanceService {
	if clock == nil {
		clock = time.Now
	}
	return &AttendanceService{records: records, now: clock}
}

func (s *AttendanceService) Record(ctx context.Context, in domain.AttendanceInput) (*domain.AttendanceRecord, error) {
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.ClassID = strings.TrimSpace(in.ClassID)
	in.Status = strings.TrimSpace(in.Status)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	date, ok := ParseDate(in.Date)
	if !ok {
		return nil, fieldInvalid("date", "not a recognised date")
	}

	rec := domain.AttendanceRecord{
		ID:        uuid.NewString(),
		StudentID: in.StudentID,
		ClassID:   in.ClassID,
		Date:      date,
		Status:    in.Status,
	}
	if err := s.records.Insert(ctx, rec); err != nil {
		return nil, errors.Wrap(err, "inserting attendance record")
	}
	return &rec, nil
}

// Query returns records dated within the last q.Days days, today included.
// The window is computed from the clock on every call.
func (s *AttendanceService) Query(ctx context.Context, q domain.AttendanceQuery) ([]domain.AttendanceRecord, error) {
	days := q.Days
	if days <= 0 {
		days = domain.TeacherAttendanceWindowDays
	}
	now := s.now()
	filter := domain.AttendanceFilter{
		ClassID:   q.ClassID,
		StudentID: q.StudentID,
		From:      startOfDay(now).AddDate(0, 0, -days),
		To:        endOfDay(now),
	}
	records, err := s.records.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	return records, nil
}
