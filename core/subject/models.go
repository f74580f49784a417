package subject

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
)

// Categories
const (
	CategoryRegular  = "Regular"
	CategoryExplore  = "Explore More"
	CategoryAdvanced = "Advanced"
)

type Subject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     string    `json:"price"`
	Classes   []string  `json:"classes"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name     string   `json:"name" validate:"required"`
	Category string   `json:"category" validate:"omitempty,oneof='Regular' 'Explore More' 'Advanced'"`
	Price    string   `json:"price"`
	Classes  []string `json:"classes"`
}

func (ns *NewSubject) Validate(validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	if ns.Category == "" {
		ns.Category = CategoryRegular
	}
	if ns.Price == "" {
		ns.Price = "Free"
	}
	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.Name)
}

// UpdateSubject defines what information may be provided to modify an existing Subject.
type UpdateSubject struct {
	Name     string   `json:"name"`
	Category string   `json:"category" validate:"omitempty,oneof='Regular' 'Explore More' 'Advanced'"`
	Price    *string  `json:"price"`
	Classes  []string `json:"classes"`
	IsActive *bool    `json:"isActive"`
}

func (us *UpdateSubject) Validate(validate *validator.Validate, orig Subject, svc *Service) error {
	us.Name = core.CleanString(us.Name)
	if err := validate.Struct(us); err != nil {
		return err
	}
	if us.Name != "" && us.Name != orig.Name {
		return svc.checkUniqueness(us.Name, orig)
	}
	return nil
}

// QueryFilter narrows the subject catalog listing.
type QueryFilter struct {
	Category string `query:"category"`
	Search   string `query:"search"`
	Page     int    `query:"page"`
	Limit    int    `query:"limit"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	if qf.Page <= 0 {
		qf.Page = 1
	}
	if qf.Limit <= 0 {
		qf.Limit = 10
	}
}
