package query

import (
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core"
)

var ErrNotFound = errors.New("query not found")

type Repository interface {
	CreateQuery(q Query) (Query, error)
	QueryAllQueries() ([]Query, error)
	GetQueryByID(id string) (Query, error)
	UpdateQuery(q Query) (Query, error)
	DeleteQuery(id string) error
}

// Service manages student doubts and teacher responses.
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

// Create raises a new doubt. attachment is the stored filename of a
// supporting file, if one was uploaded.
func (svc *Service) Create(nq NewQuery, attachment string) (Query, error) {
	if err := nq.Validate(svc.validate); err != nil {
		return Query{}, err
	}

	now := time.Now().UTC()
	q := Query{
		ID:          uuid.New().String(),
		StudentID:   nq.StudentID,
		StudentName: nq.StudentName,
		Class:       nq.Class,
		Subject:     nq.Subject,
		Title:       nq.Title,
		Description: nq.Description,
		Attachment:  attachment,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateQuery(q)
}

// Query returns the doubts page matching the filter, filter-wide stats and
// pagination metadata. Newest doubts come first.
func (svc *Service) Query(qf QueryFilter) ([]Query, Stats, core.Pagination, error) {
	qf.Clean()

	all, err := svc.repo.QueryAllQueries()
	if err != nil {
		return nil, Stats{}, core.Pagination{}, err
	}

	var stats Stats
	matched := make([]Query, 0, len(all))
	for _, q := range all {
		if qf.StudentID != "" && q.StudentID != qf.StudentID {
			continue
		}
		if qf.Class != "" && q.Class != qf.Class {
			continue
		}
		if qf.Subject != "" && !strings.EqualFold(q.Subject, qf.Subject) {
			continue
		}
		stats.Total++
		if q.Status == StatusResolved {
			stats.Resolved++
		} else {
			stats.Pending++
		}
		if qf.Status != "" && q.Status != qf.Status {
			continue
		}
		matched = append(matched, q)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	pg := core.NewPagination(qf.Page, qf.Limit, len(matched))
	start, end := core.Paginate(qf.Page, qf.Limit, len(matched))
	return matched[start:end], stats, pg, nil
}

func (svc *Service) GetByID(id string) (Query, error) {
	return svc.repo.GetQueryByID(id)
}

// Respond records a teacher's answer and marks the doubt resolved.
func (svc *Service) Respond(id string, r Response) (Query, error) {
	if err := r.Validate(svc.validate); err != nil {
		return Query{}, err
	}
	q, err := svc.repo.GetQueryByID(id)
	if err != nil {
		return Query{}, err
	}

	now := time.Now().UTC()
	q.Response = r.Response
	q.RespondedBy = r.RespondedBy
	q.Status = StatusResolved
	q.ResolvedAt = &now
	q.UpdatedAt = now
	return svc.repo.UpdateQuery(q)
}

func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteQuery(id)
}
