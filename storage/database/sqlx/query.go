package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/query"
)

type queryRow struct {
	ID          string     `db:"id"`
	StudentID   string     `db:"student_id"`
	StudentName string     `db:"student_name"`
	Class       string     `db:"class"`
	Subject     string     `db:"subject"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Attachment  string     `db:"attachment"`
	Status      string     `db:"status"`
	Response    string     `db:"response"`
	RespondedBy string     `db:"responded_by"`
	ResolvedAt  *time.Time `db:"resolved_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func newQueryRow(q query.Query) queryRow {
	return queryRow(q)
}

func (row queryRow) toQuery() query.Query {
	return query.Query(row)
}

type queryRepository struct {
	db *sqlx.DB
}

var _ query.Repository = (*queryRepository)(nil) // interface compliance check

func NewQueryRepository(db *sqlx.DB) query.Repository {
	return &queryRepository{db: db}
}

func (repo *queryRepository) CreateQuery(q query.Query) (query.Query, error) {
	const stmt = `
	INSERT INTO queries (
		id, student_id, student_name, class, subject, title, description,
		attachment, status, response, responded_by, resolved_at, created_at, updated_at
	) VALUES (
		:id, :student_id, :student_name, :class, :subject, :title, :description,
		:attachment, :status, :response, :responded_by, :resolved_at, :created_at, :updated_at
	)`
	if _, err := repo.db.NamedExec(stmt, newQueryRow(q)); err != nil {
		return query.Query{}, errors.Wrap(err, "inserting query")
	}
	return q, nil
}

func (repo *queryRepository) QueryAllQueries() ([]query.Query, error) {
	var rows []queryRow
	if err := repo.db.Select(&rows, `SELECT * FROM queries ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying queries")
	}
	queries := make([]query.Query, 0, len(rows))
	for _, row := range rows {
		queries = append(queries, row.toQuery())
	}
	return queries, nil
}

func (repo *queryRepository) GetQueryByID(id string) (query.Query, error) {
	var row queryRow
	if err := repo.db.Get(&row, `SELECT * FROM queries WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return query.Query{}, query.ErrNotFound
		}
		return query.Query{}, errors.Wrap(err, "getting query")
	}
	return row.toQuery(), nil
}

func (repo *queryRepository) UpdateQuery(q query.Query) (query.Query, error) {
	const stmt = `
	UPDATE queries SET
		student_name = :student_name, class = :class, subject = :subject,
		title = :title, description = :description, attachment = :attachment,
		status = :status, response = :response, responded_by = :responded_by,
		resolved_at = :resolved_at, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExec(stmt, newQueryRow(q))
	if err != nil {
		return query.Query{}, errors.Wrap(err, "updating query")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return query.Query{}, query.ErrNotFound
	}
	return q, nil
}

func (repo *queryRepository) DeleteQuery(id string) error {
	res, err := repo.db.Exec(`DELETE FROM queries WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting query")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return query.ErrNotFound
	}
	return nil
}
