package admin

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
)

var (
	ErrNotFound           = errors.New("admin not found")
	ErrEmailExists        = errors.New("email address already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Admin struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
	UpdatedAt    time.Time `json:"updatedAt"` // UTC
}

func (a Admin) Name() string {
	if a.FirstName == "" {
		return a.LastName
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

func (a *Admin) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a Admin) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// NewAdmin contains information needed to create a new Admin. Admin accounts
// are only created from the command line, never through the API.
type NewAdmin struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

func (na *NewAdmin) Validate(validate *validator.Validate, svc *Service) error {
	na.FirstName = core.CleanString(na.FirstName)
	na.LastName = core.CleanString(na.LastName)
	na.Email = core.CleanString(na.Email, true)
	if err := validate.Struct(na); err != nil {
		return err
	}
	return svc.repo.CheckEmailUniqueness(na.Email)
}

type Repository interface {
	CheckEmailUniqueness(email string, excludedAdmins ...Admin) error
	CreateAdmin(a Admin) (Admin, error)
	GetAdminByID(id string) (Admin, error)
	GetAdminByEmail(email string) (Admin, error)
}

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

func (svc *Service) Create(na NewAdmin) (Admin, error) {
	if err := na.Validate(svc.validate, svc); err != nil {
		return Admin{}, err
	}

	now := time.Now().UTC()
	a := Admin{
		ID:        uuid.New().String(),
		FirstName: na.FirstName,
		LastName:  na.LastName,
		Email:     na.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.SetPassword(na.Password); err != nil {
		return Admin{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateAdmin(a)
}

func (svc *Service) Authenticate(email, password string) (Admin, error) {
	a, err := svc.repo.GetAdminByEmail(core.CleanString(email, true))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Admin{}, ErrInvalidCredentials
		}
		return Admin{}, err
	}
	if err = a.CheckPassword(password); err != nil {
		return Admin{}, ErrInvalidCredentials
	}
	return a, nil
}

func (svc *Service) GetByID(id string) (Admin, error) {
	return svc.repo.GetAdminByID(id)
}
