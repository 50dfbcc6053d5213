package domain

// DateLayout is the canonical storage format for assignment and attendance dates.
const DateLayout = "2006-01-02"

type GradeRecord struct {
	StudentID      string  `json:"student_id"`
	ClassNumber    string  `json:"class_number"`
	AssignmentName string  `json:"assignment_name"`
	AssignedDate   string  `json:"assigned_date"`
	DueDate        string  `json:"due_date"`
	Grade          *string `json:"grade"`
	GradedDate     *string `json:"graded_date"`
}

// GradeKey is the natural key of a grade record.
type GradeKey struct {
	StudentID      string
	AssignmentName string
	AssignedDate   string
}

func (g GradeRecord) Key() GradeKey {
	return GradeKey{
		StudentID:      g.StudentID,
		AssignmentName: g.AssignmentName,
		AssignedDate:   g.AssignedDate,
	}
}

// GradeSubmission is a teacher's grade for one existing record.
type GradeSubmission struct {
	StudentID      string `json:"student_id" validate:"required,notblank"`
	AssignmentName string `json:"assignment_name" validate:"required,notblank"`
	AssignedDate   string `json:"assigned_date" validate:"required,notblank"`
	Grade          string `json:"grade" validate:"required,notblank"`
}

// Homework describes an assignment fanned out to every enrolled student.
type Homework struct {
	AssignmentName string `json:"assignment_name" validate:"required,notblank"`
	AssignedDate   string `json:"assigned_date" validate:"required,notblank"`
	DueDate        string `json:"due_date" validate:"required,notblank"`
}
