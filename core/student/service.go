package student

import (
	"fmt"
	"net/mail"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
)

var (
	ErrNotFound           = errors.New("student not found")
	ErrEmailExists        = errors.New("email address already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotApproved        = errors.New("enrollment not yet approved")
)

type Repository interface {
	CheckEmailUniqueness(email string, excludedStudents ...Student) error
	CreateStudent(s Student) (Student, error)
	QueryAllStudents() ([]Student, error)
	GetStudentByID(id string) (Student, error)
	GetStudentByEmail(email string) (Student, error)
	UpdateStudent(s Student) (Student, error)
	DeleteStudent(id string) error
}

// Service manages student enrollment and accounts.
type Service struct {
	repo     Repository
	mailSvc  core.EmailService
	conf     core.Config
	validate *validator.Validate
}

func NewService(repo Repository, mailSvc core.EmailService, conf core.Config, validate *validator.Validate) *Service {
	return &Service{
		repo:     repo,
		mailSvc:  mailSvc,
		conf:     conf,
		validate: validate,
	}
}

func (svc *Service) checkUniqueness(email string, excluded ...Student) error {
	return svc.repo.CheckEmailUniqueness(email, excluded...)
}

// Register enrolls a new student. proof is the stored filename of the
// payment proof, if one was uploaded. New accounts start Unpaid and Pending.
func (svc *Service) Register(ns NewStudent, proof string) (Student, error) {
	if err := ns.Validate(svc.validate, svc); err != nil {
		return Student{}, err
	}

	now := time.Now().UTC()
	s := Student{
		ID:             uuid.New().String(),
		Salutation:     ns.Salutation,
		FirstName:      ns.FirstName,
		LastName:       ns.LastName,
		Email:          ns.Email,
		Mobile:         ns.Mobile,
		Timezone:       ns.Timezone,
		Class:          ns.Class,
		Group:          ns.Group,
		Syllabus:       ns.Syllabus,
		EmisNumber:     ns.EmisNumber,
		Proof:          proof,
		PaymentStatus:  PaymentUnpaid,
		ApprovalStatus: ApprovalPending,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateStudent(s)
}

// Authenticate checks a student's credentials. Approval is not required to
// log in; the dashboard restricts what unapproved accounts can do.
func (svc *Service) Authenticate(email, password string) (Student, error) {
	s, err := svc.repo.GetStudentByEmail(core.CleanString(email, true))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Student{}, ErrInvalidCredentials
		}
		return Student{}, err
	}
	if err = s.CheckPassword(password); err != nil {
		return Student{}, ErrInvalidCredentials
	}
	return s, nil
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

// QueryPending returns enrollments awaiting an admin decision.
func (svc *Service) QueryPending() ([]Student, error) {
	all, err := svc.repo.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	pending := make([]Student, 0, len(all))
	for _, s := range all {
		if s.ApprovalStatus == ApprovalPending {
			pending = append(pending, s)
		}
	}
	return pending, nil
}

// Classes returns the distinct classes of approved students, sorted
// numerically where the class names are numbers.
func (svc *Service) Classes() ([]string, error) {
	all, err := svc.repo.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	classes := make([]string, 0)
	for _, s := range all {
		if s.ApprovalStatus != ApprovalApproved || s.Class == "" || seen[s.Class] {
			continue
		}
		seen[s.Class] = true
		classes = append(classes, s.Class)
	}
	sort.Slice(classes, func(i, j int) bool {
		a, aerr := strconv.Atoi(classes[i])
		b, berr := strconv.Atoi(classes[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		return classes[i] < classes[j]
	})
	return classes, nil
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) Update(id string, us UpdateStudent) (Student, error) {
	s, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}
	if err = us.Validate(svc.validate, s, svc); err != nil {
		return Student{}, err
	}

	if us.Salutation != nil {
		s.Salutation = *us.Salutation
	}
	if us.FirstName != "" {
		s.FirstName = us.FirstName
	}
	if us.LastName != "" {
		s.LastName = us.LastName
	}
	if us.Email != "" {
		s.Email = us.Email
	}
	if us.Password != "" {
		if err = s.SetPassword(us.Password); err != nil {
			return Student{}, errors.Wrap(err, "hashing password")
		}
	}
	if us.Mobile != nil {
		s.Mobile = *us.Mobile
	}
	if us.Timezone != nil {
		s.Timezone = *us.Timezone
	}
	if us.Class != "" {
		s.Class = us.Class
	}
	if us.Group != nil {
		s.Group = *us.Group
	}
	if us.Syllabus != nil {
		s.Syllabus = *us.Syllabus
	}
	if us.EmisNumber != nil {
		s.EmisNumber = *us.EmisNumber
	}
	if us.IsActive != nil {
		s.IsActive = *us.IsActive
	}
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(s)
}

func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteStudent(id)
}

// Approve records an admin's decision on an enrollment and notifies the
// student by email. The email is best-effort; a delivery failure does not
// roll back the decision.
func (svc *Service) Approve(id string, a Approval) (Student, error) {
	if err := a.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	s, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}

	s.ApprovalStatus = a.Status
	s.UpdatedAt = time.Now().UTC()
	s, err = svc.repo.UpdateStudent(s)
	if err != nil {
		return Student{}, err
	}

	switch a.Status {
	case ApprovalApproved:
		svc.sendDecisionEmail(s, "Enrollment Approved", fmt.Sprintf(
			"Hi %s,\n\nYour enrollment for class %s has been approved. "+
				"You can now log in and access your classes at %s.\n\nHappy learning!",
			s.Name(), s.Class, svc.conf.FrontendBaseURL,
		))
	case ApprovalRejected:
		svc.sendDecisionEmail(s, "Enrollment Update", fmt.Sprintf(
			"Hi %s,\n\nWe are sorry, your enrollment could not be approved at this time. "+
				"Please contact support for more details.",
			s.Name(),
		))
	}
	return s, nil
}

// TogglePayment flips a student's payment status between Paid and Unpaid.
func (svc *Service) TogglePayment(id string) (Student, error) {
	s, err := svc.repo.GetStudentByID(id)
	if err != nil {
		return Student{}, err
	}

	if s.PaymentStatus == PaymentPaid {
		s.PaymentStatus = PaymentUnpaid
	} else {
		s.PaymentStatus = PaymentPaid
	}
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(s)
}

func (svc *Service) sendDecisionEmail(s Student, subject, body string) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: s.Name(), Address: s.Email}},
		Subject: subject,
		Body:    body,
	})
}
