package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
)

type Assignment struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Subject     string       `json:"subject"`
	Class       string       `json:"class"`
	TeacherID   string       `json:"teacherId"`
	TeacherName string       `json:"teacherName"`
	Attachment  string       `json:"attachment"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Submissions []Submission `json:"submissions"`
	CreatedAt   time.Time    `json:"createdAt"` // UTC
	UpdatedAt   time.Time    `json:"updatedAt"` // UTC
}

// HasSubmissionFrom reports whether the student already turned this in.
func (a Assignment) HasSubmissionFrom(studentID string) bool {
	for _, sub := range a.Submissions {
		if sub.StudentID == studentID {
			return true
		}
	}
	return false
}

// Submission is a student's answer file for an assignment.
type Submission struct {
	StudentID   string    `json:"studentId"`
	StudentName string    `json:"studentName"`
	Filename    string    `json:"filename"`
	SubmittedAt time.Time `json:"submittedAt"` // UTC
}

// NewAssignment contains information needed to publish an assignment.
type NewAssignment struct {
	Title       string     `json:"title" form:"title" validate:"required"`
	Description string     `json:"description" form:"description"`
	Subject     string     `json:"subject" form:"subject" validate:"required"`
	Class       string     `json:"class" form:"class" validate:"required"`
	TeacherID   string     `json:"teacherId" form:"teacherId" validate:"required"`
	TeacherName string     `json:"teacherName" form:"teacherName"`
	DueDate     *time.Time `json:"dueDate" form:"dueDate"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Subject = core.CleanString(na.Subject)
	na.Class = core.CleanString(na.Class)
	return validate.Struct(na)
}

// NewSubmission is a student turning in an assignment. The answer file is
// uploaded alongside and its stored name recorded by the service.
type NewSubmission struct {
	StudentID   string `json:"studentId" form:"studentId" validate:"required"`
	StudentName string `json:"studentName" form:"studentName" validate:"required"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.StudentName = core.CleanString(ns.StudentName)
	return validate.Struct(ns)
}

// QueryFilter narrows assignment listings.
type QueryFilter struct {
	TeacherID string `query:"teacherId"`
	Class     string `query:"class"`
	Subject   string `query:"subject"`
}

// Stats summarizes a teacher's assignments for their dashboard.
type Stats struct {
	Total            int `json:"total"`
	TotalSubmissions int `json:"totalSubmissions"`
	DueSoon          int `json:"dueSoon"`
}
