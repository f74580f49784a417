package query

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
)

// Statuses
const (
	StatusPending  = "Pending"
	StatusResolved = "Resolved"
)

// Query is a doubt raised by a student, optionally answered by a teacher.
type Query struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"studentId"`
	StudentName string     `json:"studentName"`
	Class       string     `json:"class"`
	Subject     string     `json:"subject"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Attachment  string     `json:"attachment"`
	Status      string     `json:"status"`
	Response    string     `json:"response"`
	RespondedBy string     `json:"respondedBy"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"` // UTC
	UpdatedAt   time.Time  `json:"updatedAt"` // UTC
}

// NewQuery contains information needed to raise a doubt.
type NewQuery struct {
	StudentID   string `json:"studentId" form:"studentId" validate:"required"`
	StudentName string `json:"studentName" form:"studentName" validate:"required"`
	Class       string `json:"class" form:"class" validate:"required"`
	Subject     string `json:"subject" form:"subject" validate:"required"`
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description"`
}

func (nq *NewQuery) Validate(validate *validator.Validate) error {
	nq.StudentName = core.CleanString(nq.StudentName)
	nq.Class = core.CleanString(nq.Class)
	nq.Subject = core.CleanString(nq.Subject)
	nq.Title = core.CleanString(nq.Title)
	return validate.Struct(nq)
}

// Response is a teacher answering a doubt.
type Response struct {
	Response    string `json:"response" validate:"required"`
	RespondedBy string `json:"respondedBy" validate:"required"`
}

func (r *Response) Validate(validate *validator.Validate) error {
	r.RespondedBy = core.CleanString(r.RespondedBy)
	return validate.Struct(r)
}

// QueryFilter narrows doubt listings.
type QueryFilter struct {
	StudentID string `query:"studentId"`
	Class     string `query:"class"`
	Subject   string `query:"subject"`
	Status    string `query:"status"`
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
}

func (qf *QueryFilter) Clean() {
	qf.Class = core.CleanString(qf.Class)
	qf.Subject = core.CleanString(qf.Subject)
	qf.Status = core.CleanString(qf.Status)
	if qf.Page <= 0 {
		qf.Page = 1
	}
	if qf.Limit <= 0 {
		qf.Limit = 10
	}
}

// Stats summarizes doubts for dashboards.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Resolved int `json:"resolved"`
}
