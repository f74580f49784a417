package student

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

// Payment statuses
const (
	PaymentPaid   = "Paid"
	PaymentUnpaid = "Unpaid"
)

type Student struct {
	ID             string    `json:"id"`
	Salutation     string    `json:"salutation"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	PasswordHash   []byte    `json:"-"`
	Mobile         string    `json:"mobile"`
	Timezone       string    `json:"timezone"`
	Class          string    `json:"class"`
	Group          string    `json:"group"`
	Syllabus       string    `json:"syllabus"`
	EmisNumber     string    `json:"emisNumber"`
	Proof          string    `json:"proof"`
	PaymentStatus  string    `json:"status"`
	ApprovalStatus string    `json:"approvalStatus"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"` // UTC
	UpdatedAt      time.Time `json:"updatedAt"` // UTC
}

func (s Student) Name() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

// NewStudent contains information needed for enrollment.
type NewStudent struct {
	Salutation string `json:"salutation" form:"salutation" validate:"omitempty,oneof='Mr.' 'Ms.' 'Mrs.'"`
	FirstName  string `json:"firstName" form:"firstName" validate:"required"`
	LastName   string `json:"lastName" form:"lastName" validate:"required"`
	Email      string `json:"email" form:"email" validate:"required,email"`
	Password   string `json:"password" form:"password" validate:"required,min=6"`
	Mobile     string `json:"mobile" form:"mobile"`
	Timezone   string `json:"timezone" form:"timezone"`
	Class      string `json:"class" form:"class" validate:"required"`
	Group      string `json:"group" form:"group"`
	Syllabus   string `json:"syllabus" form:"syllabus"`
	EmisNumber string `json:"emisNumber" form:"emisNumber"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc *Service) error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true)
	ns.Class = core.CleanString(ns.Class)
	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.Email)
}

// UpdateStudent defines what information may be provided to modify an
// existing Student. Nil pointers mean the field is left untouched.
type UpdateStudent struct {
	Salutation *string `json:"salutation" validate:"omitempty,oneof='Mr.' 'Ms.' 'Mrs.'"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Password   string  `json:"password" validate:"omitempty,min=6"`
	Mobile     *string `json:"mobile"`
	Timezone   *string `json:"timezone"`
	Class      string  `json:"class"`
	Group      *string `json:"group"`
	Syllabus   *string `json:"syllabus"`
	EmisNumber *string `json:"emisNumber"`
	IsActive   *bool   `json:"isActive"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate, orig Student, svc *Service) error {
	us.FirstName = core.CleanString(us.FirstName)
	us.LastName = core.CleanString(us.LastName)
	us.Email = core.CleanString(us.Email, true)
	us.Class = core.CleanString(us.Class)
	if err := validate.Struct(us); err != nil {
		return err
	}
	if us.Email != "" && us.Email != orig.Email {
		return svc.checkUniqueness(us.Email, orig)
	}
	return nil
}

// Credentials is the login request for students, teachers and admins alike.
type Credentials struct {
	Email    string `json:"emailId" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Type     string `json:"type" validate:"omitempty,oneof=Student Teacher Admin"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true)
	return validate.Struct(c)
}

// Approval carries an admin's decision on a pending enrollment.
type Approval struct {
	Status string `json:"approvalStatus" validate:"required,oneof=Approved Rejected Pending"`
}

func (a *Approval) Validate(validate *validator.Validate) error {
	a.Status = core.CleanString(a.Status)
	return validate.Struct(a)
}
