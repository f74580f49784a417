package teacher

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
)

// Approval statuses
const (
	ApprovalPending  = "Pending"
	ApprovalApproved = "Approved"
	ApprovalRejected = "Rejected"
)

type Teacher struct {
	ID            string    `json:"id"`
	Salutation    string    `json:"salutation"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	PasswordHash  []byte    `json:"-"`
	Mobile        string    `json:"mobile"`
	Timezone      string    `json:"timezone"`
	Qualification string    `json:"qualification"`
	Experience    string    `json:"experience"`
	// Subjects is what the teacher applied to teach; AssignedSubjects and
	// AssignedClasses are what the admin actually put them in charge of.
	Subjects         []string  `json:"subjects"`
	AssignedSubjects []string  `json:"assignedSubjects"`
	AssignedClasses  []string  `json:"assignedClasses"`
	ApprovalStatus   string    `json:"approvalStatus"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"` // UTC
	UpdatedAt        time.Time `json:"updatedAt"` // UTC
}

func (t Teacher) Name() string {
	if t.FirstName == "" {
		return t.LastName
	}
	if t.LastName == "" {
		return t.FirstName
	}
	return t.FirstName + " " + t.LastName
}

// IsAssigned reports whether the teacher has at least one subject and class.
func (t Teacher) IsAssigned() bool {
	return len(t.AssignedSubjects) > 0 && len(t.AssignedClasses) > 0
}

func (t Teacher) TeachesClass(class string) bool {
	for _, c := range t.AssignedClasses {
		if c == class {
			return true
		}
	}
	return false
}

func (t *Teacher) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	t.PasswordHash = hash
	return nil
}

func (t Teacher) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(t.PasswordHash, []byte(pwd))
}

// NewTeacher contains information needed for a teaching application.
type NewTeacher struct {
	Salutation    string   `json:"salutation" validate:"omitempty,oneof='Mr.' 'Ms.' 'Mrs.'"`
	FirstName     string   `json:"firstName" validate:"required"`
	LastName      string   `json:"lastName" validate:"required"`
	Email         string   `json:"email" validate:"required,email"`
	Password      string   `json:"password" validate:"required,min=6"`
	Mobile        string   `json:"mobile"`
	Timezone      string   `json:"timezone"`
	Qualification string   `json:"qualification"`
	Experience    string   `json:"experience"`
	Subjects      []string `json:"subjects" validate:"required,min=1"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate, svc *Service) error {
	nt.FirstName = core.CleanString(nt.FirstName)
	nt.LastName = core.CleanString(nt.LastName)
	nt.Email = core.CleanString(nt.Email, true)
	if err := validate.Struct(nt); err != nil {
		return err
	}
	return svc.checkUniqueness(nt.Email)
}

// UpdateTeacher defines what information may be provided to modify an
// existing Teacher. Nil pointers mean the field is left untouched.
type UpdateTeacher struct {
	Salutation    *string  `json:"salutation" validate:"omitempty,oneof='Mr.' 'Ms.' 'Mrs.'"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Password      string   `json:"password" validate:"omitempty,min=6"`
	Mobile        *string  `json:"mobile"`
	Timezone      *string  `json:"timezone"`
	Qualification *string  `json:"qualification"`
	Experience    *string  `json:"experience"`
	Subjects      []string `json:"subjects"`
	IsActive      *bool    `json:"isActive"`
}

func (ut *UpdateTeacher) Validate(validate *validator.Validate, orig Teacher, svc *Service) error {
	ut.FirstName = core.CleanString(ut.FirstName)
	ut.LastName = core.CleanString(ut.LastName)
	ut.Email = core.CleanString(ut.Email, true)
	if err := validate.Struct(ut); err != nil {
		return err
	}
	if ut.Email != "" && ut.Email != orig.Email {
		return svc.checkUniqueness(ut.Email, orig)
	}
	return nil
}

// Approval carries an admin's decision on a teaching application.
type Approval struct {
	Status string `json:"approvalStatus" validate:"required,oneof=Approved Rejected Pending"`
}

func (a *Approval) Validate(validate *validator.Validate) error {
	a.Status = core.CleanString(a.Status)
	return validate.Struct(a)
}

// Assignment is an admin putting a teacher in charge of subjects and classes.
type Assignment struct {
	Subjects []string `json:"subjects" validate:"required,min=1"`
	Classes  []string `json:"classes" validate:"required,min=1"`
}

func (as *Assignment) Validate(validate *validator.Validate) error {
	for i, s := range as.Subjects {
		as.Subjects[i] = core.CleanString(s)
	}
	for i, c := range as.Classes {
		as.Classes[i] = core.CleanString(c)
	}
	return validate.Struct(as)
}

// QueryFilter narrows the admin teacher listing.
type QueryFilter struct {
	Search string `query:"search"`
	Status string `query:"status"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Status = core.CleanString(qf.Status)
	if qf.Page <= 0 {
		qf.Page = 1
	}
	if qf.Limit <= 0 {
		qf.Limit = 10
	}
}

// Stats summarizes the teacher roster for the admin listing header.
type Stats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}
