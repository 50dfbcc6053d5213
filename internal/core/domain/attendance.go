package domain

import "time"

const (
	TeacherAttendanceWindowDays = 14
	ParentAttendanceWindowDays  = 30
)

type AttendanceRecord struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	ClassID   string    `json:"class_id"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
}

// AttendanceInput carries the four fields required to record attendance.
type AttendanceInput struct {
	StudentID string `json:"student_id" validate:"required,notblank"`
	Date      string `json:"date" validate:"required,notblank"`
	Status    string `json:"status" validate:"required,notblank"`
	ClassID   string `json:"class_id" validate:"required,notblank"`
}

type AttendanceQuery struct {
	ClassID   string
	StudentID string
	Days      int
}

// AttendanceFilter is the store-level form of a query: optional ids plus
// an inclusive date range.
type AttendanceFilter struct {
	ClassID   string
	StudentID string
	From      time.Time
	To        time.Time
}
