package teacher

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
	"github.com/SRMV-Team/Online-Tutor-Backend/core/subject"
)

var (
	ErrNotFound           = errors.New("teacher not found")
	ErrEmailExists        = errors.New("email address already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Repository interface {
	CheckEmailUniqueness(email string, excludedTeachers ...Teacher) error
	CreateTeacher(t Teacher) (Teacher, error)
	QueryAllTeachers() ([]Teacher, error)
	GetTeacherByID(id string) (Teacher, error)
	GetTeacherByEmail(email string) (Teacher, error)
	UpdateTeacher(t Teacher) (Teacher, error)
	DeleteTeacher(id string) error
}

// Service manages teaching applications, approvals and class assignments.
type Service struct {
	repo     Repository
	subjects subject.Repository
	mailSvc  core.EmailService
	conf     core.Config
	validate *validator.Validate
}

func NewService(repo Repository, subjects subject.Repository, mailSvc core.EmailService, conf core.Config, validate *validator.Validate) *Service {
	return &Service{
		repo:     repo,
		subjects: subjects,
		mailSvc:  mailSvc,
		conf:     conf,
		validate: validate,
	}
}

func (svc *Service) checkUniqueness(email string, excluded ...Teacher) error {
	return svc.repo.CheckEmailUniqueness(email, excluded...)
}

// Register files a new teaching application. Applications start Pending with
// no subject or class assignments.
func (svc *Service) Register(nt NewTeacher) (Teacher, error) {
	if err := nt.Validate(svc.validate, svc); err != nil {
		return Teacher{}, err
	}

	now := time.Now().UTC()
	t := Teacher{
		ID:             uuid.New().String(),
		Salutation:     nt.Salutation,
		FirstName:      nt.FirstName,
		LastName:       nt.LastName,
		Email:          nt.Email,
		Mobile:         nt.Mobile,
		Timezone:       nt.Timezone,
		Qualification:  nt.Qualification,
		Experience:     nt.Experience,
		Subjects:       nt.Subjects,
		ApprovalStatus: ApprovalPending,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := t.SetPassword(nt.Password); err != nil {
		return Teacher{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateTeacher(t)
}

func (svc *Service) Authenticate(email, password string) (Teacher, error) {
	t, err := svc.repo.GetTeacherByEmail(core.CleanString(email, true))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Teacher{}, ErrInvalidCredentials
		}
		return Teacher{}, err
	}
	if err = t.CheckPassword(password); err != nil {
		return Teacher{}, ErrInvalidCredentials
	}
	return t, nil
}

func (svc *Service) QueryAll() ([]Teacher, error) {
	return svc.repo.QueryAllTeachers()
}

// Query returns the roster page matching the filter, roster-wide stats and
// pagination metadata.
func (svc *Service) Query(qf QueryFilter) ([]Teacher, Stats, core.Pagination, error) {
	qf.Clean()

	all, err := svc.repo.QueryAllTeachers()
	if err != nil {
		return nil, Stats{}, core.Pagination{}, err
	}

	var stats Stats
	stats.Total = len(all)
	matched := make([]Teacher, 0, len(all))
	search := strings.ToLower(qf.Search)
	for _, t := range all {
		switch t.ApprovalStatus {
		case ApprovalApproved:
			stats.Approved++
		case ApprovalPending:
			stats.Pending++
		case ApprovalRejected:
			stats.Rejected++
		}
		if qf.Status != "" && t.ApprovalStatus != qf.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Name()), search) &&
			!strings.Contains(strings.ToLower(t.Email), search) {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	pg := core.NewPagination(qf.Page, qf.Limit, len(matched))
	start, end := core.Paginate(qf.Page, qf.Limit, len(matched))
	return matched[start:end], stats, pg, nil
}

// QueryPending returns applications awaiting an admin decision.
func (svc *Service) QueryPending() ([]Teacher, error) {
	all, err := svc.repo.QueryAllTeachers()
	if err != nil {
		return nil, err
	}
	pending := make([]Teacher, 0, len(all))
	for _, t := range all {
		if t.ApprovalStatus == ApprovalPending {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

// QueryByClass returns approved teachers assigned to the given class.
func (svc *Service) QueryByClass(class string) ([]Teacher, error) {
	all, err := svc.repo.QueryAllTeachers()
	if err != nil {
		return nil, err
	}
	matched := make([]Teacher, 0, len(all))
	for _, t := range all {
		if t.ApprovalStatus == ApprovalApproved && t.TeachesClass(class) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

func (svc *Service) GetByID(id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(id)
}

func (svc *Service) Update(id string, ut UpdateTeacher) (Teacher, error) {
	t, err := svc.repo.GetTeacherByID(id)
	if err != nil {
		return Teacher{}, err
	}
	if err = ut.Validate(svc.validate, t, svc); err != nil {
		return Teacher{}, err
	}

	if ut.Salutation != nil {
		t.Salutation = *ut.Salutation
	}
	if ut.FirstName != "" {
		t.FirstName = ut.FirstName
	}
	if ut.LastName != "" {
		t.LastName = ut.LastName
	}
	if ut.Email != "" {
		t.Email = ut.Email
	}
	if ut.Password != "" {
		if err = t.SetPassword(ut.Password); err != nil {
			return Teacher{}, errors.Wrap(err, "hashing password")
		}
	}
	if ut.Mobile != nil {
		t.Mobile = *ut.Mobile
	}
	if ut.Timezone != nil {
		t.Timezone = *ut.Timezone
	}
	if ut.Qualification != nil {
		t.Qualification = *ut.Qualification
	}
	if ut.Experience != nil {
		t.Experience = *ut.Experience
	}
	if ut.Subjects != nil {
		t.Subjects = ut.Subjects
	}
	if ut.IsActive != nil {
		t.IsActive = *ut.IsActive
	}
	t.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTeacher(t)
}

func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteTeacher(id)
}

// Approve records an admin's decision on an application and notifies the
// applicant by email. A delivery failure does not roll back the decision.
func (svc *Service) Approve(id string, a Approval) (Teacher, error) {
	if err := a.Validate(svc.validate); err != nil {
		return Teacher{}, err
	}
	t, err := svc.repo.GetTeacherByID(id)
	if err != nil {
		return Teacher{}, err
	}

	t.ApprovalStatus = a.Status
	t.UpdatedAt = time.Now().UTC()
	t, err = svc.repo.UpdateTeacher(t)
	if err != nil {
		return Teacher{}, err
	}

	switch a.Status {
	case ApprovalApproved:
		svc.sendEmail(t, "Application Approved", fmt.Sprintf(
			"Hi %s,\n\nWelcome aboard! Your teaching application has been approved. "+
				"You will receive your subject and class assignments shortly. "+
				"Log in at %s to get started.",
			t.Name(), svc.conf.FrontendBaseURL,
		))
	case ApprovalRejected:
		svc.sendEmail(t, "Application Update", fmt.Sprintf(
			"Hi %s,\n\nWe are sorry, your teaching application could not be approved "+
				"at this time. Please contact support for more details.",
			t.Name(),
		))
	}
	return t, nil
}

// Assign puts a teacher in charge of subjects and classes and emails them
// the details.
func (svc *Service) Assign(id string, as Assignment) (Teacher, error) {
	if err := as.Validate(svc.validate); err != nil {
		return Teacher{}, err
	}
	t, err := svc.repo.GetTeacherByID(id)
	if err != nil {
		return Teacher{}, err
	}

	t.AssignedSubjects = as.Subjects
	t.AssignedClasses = as.Classes
	t.UpdatedAt = time.Now().UTC()
	t, err = svc.repo.UpdateTeacher(t)
	if err != nil {
		return Teacher{}, err
	}

	svc.sendEmail(t, "Your Subject & Class Assignments", fmt.Sprintf(
		"Hi %s,\n\nYou have been assigned the following:\n\nSubjects: %s\nClasses: %s\n\n"+
			"Log in at %s to see your schedule.",
		t.Name(), strings.Join(t.AssignedSubjects, ", "),
		strings.Join(t.AssignedClasses, ", "), svc.conf.FrontendBaseURL,
	))
	return t, nil
}

// AssignedSubjectDetails resolves a teacher's assigned subject names against
// the subject catalog.
func (svc *Service) AssignedSubjectDetails(id string) (Teacher, []subject.Subject, error) {
	t, err := svc.repo.GetTeacherByID(id)
	if err != nil {
		return Teacher{}, nil, err
	}
	if len(t.AssignedSubjects) == 0 {
		return t, []subject.Subject{}, nil
	}
	subjects, err := svc.subjects.GetSubjectsByNames(t.AssignedSubjects)
	if err != nil {
		return Teacher{}, nil, err
	}
	return t, subjects, nil
}

func (svc *Service) sendEmail(t Teacher, subj, body string) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: t.Name(), Address: t.Email}},
		Subject: subj,
		Body:    body,
	})
}
