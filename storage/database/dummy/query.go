package dummydb

import (
	"sort"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/query"
)

type queryRepository struct {
	db *queryTable
}

var _ query.Repository = (*queryRepository)(nil) // interface compliance check

func NewQueryRepository(db *DB) query.Repository {
	return &queryRepository{db: db.query}
}

func (repo *queryRepository) all() []query.Query {
	queries := make([]query.Query, 0, len(repo.db.table))
	for _, q := range repo.db.table {
		queries = append(queries, *q)
	}
	sort.Slice(queries, func(i, j int) bool { return queries[i].CreatedAt.Before(queries[j].CreatedAt) })
	return queries
}

func (repo *queryRepository) CreateQuery(q query.Query) (query.Query, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[q.ID] = &q
	return q, nil
}

func (repo *queryRepository) QueryAllQueries() ([]query.Query, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.all(), nil
}

func (repo *queryRepository) GetQueryByID(id string) (query.Query, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if q, ok := repo.db.table[id]; ok {
		return *q, nil
	}
	return query.Query{}, query.ErrNotFound
}

func (repo *queryRepository) UpdateQuery(q query.Query) (query.Query, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[q.ID]; !ok {
		return query.Query{}, query.ErrNotFound
	}
	repo.db.table[q.ID] = &q
	return q, nil
}

func (repo *queryRepository) DeleteQuery(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return query.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
