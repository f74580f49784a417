package dummydb

import (
	"sort"
	"strings"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/subject"
)

type subjectRepository struct {
	db *subjectTable
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db.subject}
}

func (repo *subjectRepository) query() []subject.Subject {
	subjects := make([]subject.Subject, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		subjects = append(subjects, *s)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
	return subjects
}

func (repo *subjectRepository) CheckNameUniqueness(name string, excludedSubjects ...subject.Subject) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.query() {
		if !strings.EqualFold(s.Name, name) {
			continue
		}
		excluded := false
		for _, ex := range excludedSubjects {
			if ex.ID == s.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return subject.ErrNameExists
		}
	}
	return nil
}

func (repo *subjectRepository) CreateSubject(s subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *subjectRepository) QueryAllSubjects() ([]subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *subjectRepository) GetSubjectByID(id string) (subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) GetSubjectsByNames(names []string) ([]subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matched := make([]subject.Subject, 0, len(names))
	for _, s := range repo.query() {
		for _, name := range names {
			if strings.EqualFold(s.Name, name) {
				matched = append(matched, s)
				break
			}
		}
	}
	return matched, nil
}

func (repo *subjectRepository) UpdateSubject(s subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[s.ID]; !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *subjectRepository) DeleteSubject(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return subject.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
