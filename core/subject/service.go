package subject

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
)

var (
	ErrNotFound   = errors.New("subject not found")
	ErrNameExists = errors.New("subject name already in use")
)

type Repository interface {
	CheckNameUniqueness(name string, excludedSubjects ...Subject) error
	CreateSubject(s Subject) (Subject, error)
	QueryAllSubjects() ([]Subject, error)
	GetSubjectByID(id string) (Subject, error)
	GetSubjectsByNames(names []string) ([]Subject, error)
	UpdateSubject(s Subject) (Subject, error)
	DeleteSubject(id string) error
}

// Service manages the subject catalog.
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

func (svc *Service) checkUniqueness(name string, excluded ...Subject) error {
	return svc.repo.CheckNameUniqueness(name, excluded...)
}

func (svc *Service) Create(ns NewSubject) (Subject, error) {
	if err := ns.Validate(svc.validate, svc); err != nil {
		return Subject{}, err
	}

	now := time.Now().UTC()
	s := Subject{
		ID:        uuid.New().String(),
		Name:      ns.Name,
		Category:  ns.Category,
		Price:     ns.Price,
		Classes:   ns.Classes,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateSubject(s)
}

// Query returns the catalog page matching the filter plus pagination metadata.
func (svc *Service) Query(qf QueryFilter) ([]Subject, core.Pagination, error) {
	qf.Clean()

	all, err := svc.repo.QueryAllSubjects()
	if err != nil {
		return nil, core.Pagination{}, err
	}

	matched := make([]Subject, 0, len(all))
	search := strings.ToLower(qf.Search)
	for _, s := range all {
		if qf.Category != "" && s.Category != qf.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(s.Name), search) {
			continue
		}
		matched = append(matched, s)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	pg := core.NewPagination(qf.Page, qf.Limit, len(matched))
	start, end := core.Paginate(qf.Page, qf.Limit, len(matched))
	return matched[start:end], pg, nil
}

func (svc *Service) QueryAll() ([]Subject, error) {
	return svc.repo.QueryAllSubjects()
}

// QueryForClass returns active subjects offered to the given class.
func (svc *Service) QueryForClass(class string) ([]Subject, error) {
	all, err := svc.repo.QueryAllSubjects()
	if err != nil {
		return nil, err
	}

	matched := make([]Subject, 0, len(all))
	for _, s := range all {
		if !s.IsActive {
			continue
		}
		for _, c := range s.Classes {
			if c == class {
				matched = append(matched, s)
				break
			}
		}
	}
	return matched, nil
}

func (svc *Service) GetByID(id string) (Subject, error) {
	return svc.repo.GetSubjectByID(id)
}

func (svc *Service) GetByNames(names []string) ([]Subject, error) {
	return svc.repo.GetSubjectsByNames(names)
}

func (svc *Service) Update(id string, us UpdateSubject) (Subject, error) {
	s, err := svc.repo.GetSubjectByID(id)
	if err != nil {
		return Subject{}, err
	}
	if err = us.Validate(svc.validate, s, svc); err != nil {
		return Subject{}, err
	}

	if us.Name != "" {
		s.Name = us.Name
	}
	if us.Category != "" {
		s.Category = us.Category
	}
	if us.Price != nil {
		s.Price = *us.Price
	}
	if us.Classes != nil {
		s.Classes = us.Classes
	}
	if us.IsActive != nil {
		s.IsActive = *us.IsActive
	}
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSubject(s)
}

func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteSubject(id)
}
