package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/services"
	"github.com/AchilleasB/school-portal/portal-service/test/mocks"
)

var attendanceNow = time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	d := attendanceNow.AddDate(0, 0, -n)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func TestAttendanceService_Record(t *testing.T) {
	repo := mocks.NewMockAttendanceRepository()
	svc := services.NewAttendanceService(repo, mocks.FixedClock(attendanceNow))

	rec, err := svc.Record(context.Background(), domain.AttendanceInput{
		StudentID: " S1 ",
		Date:      "05/30/2024",
		Status:    "Present",
		ClassID:   "C1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == "" || rec.StudentID != "S1" {
		t.Errorf("unexpected record %+v", rec)
	}
	if !rec.Date.Equal(daysAgo(1)) {
		t.Errorf("expected date %v, got %v", daysAgo(1), rec.Date)
	}
	if repo.InsertCalls != 1 {
		t.Errorf("expected 1 insert, got %d", repo.InsertCalls)
	}
}

func TestAttendanceService_Record_MissingField(t *testing.T) {
	complete := domain.AttendanceInput{StudentID: "S1", Date: "2024-05-30", Status: "Present", ClassID: "C1"}
	tests := []struct {
		name   string
		mutate func(*domain.AttendanceInput)
		field  string
	}{
		{"no_student", func(in *domain.AttendanceInput) { in.StudentID = "" }, "student_id"},
		{"no_date", func(in *domain.AttendanceInput) { in.Date = "" }, "date"},
		{"no_status", func(in *domain.AttendanceInput) { in.Status = "  " }, "status"},
		{"no_class", func(in *domain.AttendanceInput) { in.ClassID = "" }, "class_id"},
		{"unparseable_date", func(in *domain.AttendanceInput) { in.Date = "yesterday" }, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAttendanceRepository()
			svc := services.NewAttendanceService(repo, mocks.FixedClock(attendanceNow))
			in := complete
			tt.mutate(&in)

			_, err := svc.Record(context.Background(), in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Fields[0].Field != tt.field {
				t.Errorf("expected field %s, got %+v", tt.field, verr.Fields)
			}
			if repo.InsertCalls != 0 {
				t.Errorf("nothing may be written on invalid input")
			}
		})
	}
}

func TestAttendanceService_Query_Window(t *testing.T) {
	repo := mocks.NewMockAttendanceRepository(
		domain.AttendanceRecord{ID: "today", StudentID: "S1", ClassID: "C1", Date: daysAgo(0), Status: "Present"},
		domain.AttendanceRecord{ID: "d5", StudentID: "S1", ClassID: "C1", Date: daysAgo(5), Status: "Absent"},
		domain.AttendanceRecord{ID: "d20", StudentID: "S1", ClassID: "C1", Date: daysAgo(20), Status: "Present"},
		domain.AttendanceRecord{ID: "d40", StudentID: "S1", ClassID: "C1", Date: daysAgo(40), Status: "Present"},
		domain.AttendanceRecord{ID: "other", StudentID: "S2", ClassID: "C2", Date: daysAgo(1), Status: "Late"},
	)
	svc := services.NewAttendanceService(repo, mocks.FixedClock(attendanceNow))

	tests := []struct {
		name  string
		query domain.AttendanceQuery
		want  []string
	}{
		{"teacher_default_window", domain.AttendanceQuery{ClassID: "C1"}, []string{"today", "d5"}},
		{"parent_window", domain.AttendanceQuery{StudentID: "S1", Days: domain.ParentAttendanceWindowDays}, []string{"today", "d5", "d20"}},
		{"student_filter", domain.AttendanceQuery{StudentID: "S2", Days: 14}, []string{"other"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Query(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %+v", tt.want, got)
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestAttendanceService_Query_WindowFollowsClock(t *testing.T) {
	repo := mocks.NewMockAttendanceRepository()
	now := attendanceNow
	svc := services.NewAttendanceService(repo, func() time.Time { return now })

	_, _ = svc.Query(context.Background(), domain.AttendanceQuery{})
	first := repo.LastFilter.From

	now = now.AddDate(0, 0, 3)
	_, _ = svc.Query(context.Background(), domain.AttendanceQuery{})
	if !repo.LastFilter.From.Equal(first.AddDate(0, 0, 3)) {
		t.Errorf("window must be recomputed per call: %v then %v", first, repo.LastFilter.From)
	}
}
