package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/subject"
)

type subjectRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Category  string         `db:"category"`
	Price     string         `db:"price"`
	Classes   pq.StringArray `db:"classes"`
	IsActive  bool           `db:"is_active"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func newSubjectRow(s subject.Subject) subjectRow {
	return subjectRow{
		ID:        s.ID,
		Name:      s.Name,
		Category:  s.Category,
		Price:     s.Price,
		Classes:   s.Classes,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (row subjectRow) toSubject() subject.Subject {
	return subject.Subject{
		ID:        row.ID,
		Name:      row.Name,
		Category:  row.Category,
		Price:     row.Price,
		Classes:   row.Classes,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type subjectRepository struct {
	db *sqlx.DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *sqlx.DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CheckNameUniqueness(name string, excludedSubjects ...subject.Subject) error {
	q := `SELECT EXISTS (SELECT 1 FROM subjects WHERE lower(name) = lower(?))`
	args := []interface{}{name}
	if len(excludedSubjects) > 0 {
		ids := make([]string, 0, len(excludedSubjects))
		for _, s := range excludedSubjects {
			ids = append(ids, s.ID)
		}
		var err error
		q, args, err = sqlx.In(`SELECT EXISTS (SELECT 1 FROM subjects WHERE lower(name) = lower(?) AND id NOT IN (?))`, name, ids)
		if err != nil {
			return errors.Wrap(err, "building name uniqueness query")
		}
	}

	var exists bool
	if err := repo.db.Get(&exists, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking name uniqueness")
	}
	if exists {
		return subject.ErrNameExists
	}
	return nil
}

func (repo *subjectRepository) CreateSubject(s subject.Subject) (subject.Subject, error) {
	const q = `
	INSERT INTO subjects (id, name, category, price, classes, is_active, created_at, updated_at)
	VALUES (:id, :name, :category, :price, :classes, :is_active, :created_at, :updated_at)`
	if _, err := repo.db.NamedExec(q, newSubjectRow(s)); err != nil {
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return s, nil
}

func (repo *subjectRepository) QueryAllSubjects() ([]subject.Subject, error) {
	var rows []subjectRow
	if err := repo.db.Select(&rows, `SELECT * FROM subjects ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}
	subjects := make([]subject.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, row.toSubject())
	}
	return subjects, nil
}

func (repo *subjectRepository) GetSubjectByID(id string) (subject.Subject, error) {
	var row subjectRow
	if err := repo.db.Get(&row, `SELECT * FROM subjects WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return subject.Subject{}, subject.ErrNotFound
		}
		return subject.Subject{}, errors.Wrap(err, "getting subject")
	}
	return row.toSubject(), nil
}

func (repo *subjectRepository) GetSubjectsByNames(names []string) ([]subject.Subject, error) {
	if len(names) == 0 {
		return []subject.Subject{}, nil
	}
	q, args, err := sqlx.In(`SELECT * FROM subjects WHERE name IN (?) ORDER BY name`, names)
	if err != nil {
		return nil, errors.Wrap(err, "building subjects query")
	}

	var rows []subjectRow
	if err = repo.db.Select(&rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying subjects by names")
	}
	subjects := make([]subject.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, row.toSubject())
	}
	return subjects, nil
}

func (repo *subjectRepository) UpdateSubject(s subject.Subject) (subject.Subject, error) {
	const q = `
	UPDATE subjects SET
		name = :name, category = :category, price = :price, classes = :classes,
		is_active = :is_active, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExec(q, newSubjectRow(s))
	if err != nil {
		return subject.Subject{}, errors.Wrap(err, "updating subject")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return subject.Subject{}, subject.ErrNotFound
	}
	return s, nil
}

func (repo *subjectRepository) DeleteSubject(id string) error {
	res, err := repo.db.Exec(`DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return subject.ErrNotFound
	}
	return nil
}
