package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrNotFound         = errors.New("assignment not found")
	ErrAlreadySubmitted = errors.New("assignment already submitted")
)

type Repository interface {
	CreateAssignment(a Assignment) (Assignment, error)
	QueryAssignments(qf QueryFilter) ([]Assignment, error)
	GetAssignmentByID(id string) (Assignment, error)
	UpdateAssignment(a Assignment) (Assignment, error)
	DeleteAssignment(id string) error
}

// Service manages homework assignments and their submissions.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{
		repo:     repo,
		validate: validate,
	}
}

// Create publishes an assignment. attachment is the stored filename of the
// question sheet, if one was uploaded.
func (svc *Service) Create(na NewAssignment, attachment string) (Assignment, error) {
	if err := na.Validate(svc.validate); err != nil {
		return Assignment{}, err
	}

	now := time.Now().UTC()
	a := Assignment{
		ID:          uuid.New().String(),
		Title:       na.Title,
		Description: na.Description,
		Subject:     na.Subject,
		Class:       na.Class,
		TeacherID:   na.TeacherID,
		TeacherName: na.TeacherName,
		Attachment:  attachment,
		DueDate:     na.DueDate,
		Submissions: []Submission{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateAssignment(a)
}

func (svc *Service) Query(qf QueryFilter) ([]Assignment, error) {
	return svc.repo.QueryAssignments(qf)
}

func (svc *Service) GetByID(id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(id)
}

// Submit records a student's answer file against an assignment. A student
// may submit at most once.
func (svc *Service) Submit(id string, ns NewSubmission, filename string) (Assignment, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Assignment{}, err
	}
	a, err := svc.repo.GetAssignmentByID(id)
	if err != nil {
		return Assignment{}, err
	}
	if a.HasSubmissionFrom(ns.StudentID) {
		return Assignment{}, ErrAlreadySubmitted
	}

	now := time.Now().UTC()
	a.Submissions = append(a.Submissions, Submission{
		StudentID:   ns.StudentID,
		StudentName: ns.StudentName,
		Filename:    filename,
		SubmittedAt: now,
	})
	a.UpdatedAt = now
	return svc.repo.UpdateAssignment(a)
}

func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteAssignment(id)
}

// StatsForTeacher summarizes a teacher's assignments. DueSoon counts
// assignments due within the next 7 days.
func (svc *Service) StatsForTeacher(teacherID string) (Stats, error) {
	all, err := svc.repo.QueryAssignments(QueryFilter{TeacherID: teacherID})
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	now := time.Now().UTC()
	cutoff := now.Add(7 * 24 * time.Hour)
	for _, a := range all {
		stats.Total++
		stats.TotalSubmissions += len(a.Submissions)
		if a.DueDate != nil && a.DueDate.After(now) && a.DueDate.Before(cutoff) {
			stats.DueSoon++
		}
	}
	return stats, nil
}
