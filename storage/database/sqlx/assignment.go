package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/assignment"
)

type assignmentRow struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Subject     string     `db:"subject"`
	Class       string     `db:"class"`
	TeacherID   string     `db:"teacher_id"`
	TeacherName string     `db:"teacher_name"`
	Attachment  string     `db:"attachment"`
	DueDate     *time.Time `db:"due_date"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

type submissionRow struct {
	AssignmentID string    `db:"assignment_id"`
	StudentID    string    `db:"student_id"`
	StudentName  string    `db:"student_name"`
	Filename     string    `db:"filename"`
	SubmittedAt  time.Time `db:"submitted_at"`
}

func newAssignmentRow(a assignment.Assignment) assignmentRow {
	return assignmentRow{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Subject:     a.Subject,
		Class:       a.Class,
		TeacherID:   a.TeacherID,
		TeacherName: a.TeacherName,
		Attachment:  a.Attachment,
		DueDate:     a.DueDate,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (row assignmentRow) toAssignment() assignment.Assignment {
	return assignment.Assignment{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Subject:     row.Subject,
		Class:       row.Class,
		TeacherID:   row.TeacherID,
		TeacherName: row.TeacherName,
		Attachment:  row.Attachment,
		DueDate:     row.DueDate,
		Submissions: []assignment.Submission{},
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

// loadSubmissions attaches submissions to the given assignments, which are
// keyed by ID for the lookup.
func (repo *assignmentRepository) loadSubmissions(assignments []assignment.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	ids := make([]string, 0, len(assignments))
	byID := make(map[string]*assignment.Assignment, len(assignments))
	for i := range assignments {
		ids = append(ids, assignments[i].ID)
		byID[assignments[i].ID] = &assignments[i]
	}

	q, args, err := sqlx.In(`SELECT * FROM assignment_submissions WHERE assignment_id IN (?) ORDER BY submitted_at`, ids)
	if err != nil {
		return errors.Wrap(err, "building submissions query")
	}
	var rows []submissionRow
	if err = repo.db.Select(&rows, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	for _, row := range rows {
		a := byID[row.AssignmentID]
		a.Submissions = append(a.Submissions, assignment.Submission{
			StudentID:   row.StudentID,
			StudentName: row.StudentName,
			Filename:    row.Filename,
			SubmittedAt: row.SubmittedAt,
		})
	}
	return nil
}

func (repo *assignmentRepository) CreateAssignment(a assignment.Assignment) (assignment.Assignment, error) {
	const q = `
	INSERT INTO assignments (
		id, title, description, subject, class, teacher_id, teacher_name,
		attachment, due_date, created_at, updated_at
	) VALUES (
		:id, :title, :description, :subject, :class, :teacher_id, :teacher_name,
		:attachment, :due_date, :created_at, :updated_at
	)`
	if _, err := repo.db.NamedExec(q, newAssignmentRow(a)); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return a, nil
}

func (repo *assignmentRepository) QueryAssignments(qf assignment.QueryFilter) ([]assignment.Assignment, error) {
	q := `SELECT * FROM assignments WHERE 1=1`
	var args []interface{}
	if qf.TeacherID != "" {
		q += ` AND teacher_id = ?`
		args = append(args, qf.TeacherID)
	}
	if qf.Class != "" {
		q += ` AND class = ?`
		args = append(args, qf.Class)
	}
	if qf.Subject != "" {
		q += ` AND lower(subject) = lower(?)`
		args = append(args, qf.Subject)
	}
	q += ` ORDER BY created_at DESC`

	var rows []assignmentRow
	if err := repo.db.Select(&rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	assignments := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toAssignment())
	}
	if err := repo.loadSubmissions(assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (repo *assignmentRepository) GetAssignmentByID(id string) (assignment.Assignment, error) {
	var row assignmentRow
	if err := repo.db.Get(&row, `SELECT * FROM assignments WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment")
	}
	a := row.toAssignment()
	assignments := []assignment.Assignment{a}
	if err := repo.loadSubmissions(assignments); err != nil {
		return assignment.Assignment{}, err
	}
	return assignments[0], nil
}

// UpdateAssignment rewrites the assignment row and reconciles its
// submissions, inserting any that are not stored yet.
func (repo *assignmentRepository) UpdateAssignment(a assignment.Assignment) (assignment.Assignment, error) {
	const q = `
	UPDATE assignments SET
		title = :title, description = :description, subject = :subject,
		class = :class, teacher_name = :teacher_name, attachment = :attachment,
		due_date = :due_date, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExec(q, newAssignmentRow(a))
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}

	const subQ = `
	INSERT INTO assignment_submissions (assignment_id, student_id, student_name, filename, submitted_at)
	VALUES (:assignment_id, :student_id, :student_name, :filename, :submitted_at)
	ON CONFLICT (assignment_id, student_id) DO NOTHING`
	for _, sub := range a.Submissions {
		row := submissionRow{
			AssignmentID: a.ID,
			StudentID:    sub.StudentID,
			StudentName:  sub.StudentName,
			Filename:     sub.Filename,
			SubmittedAt:  sub.SubmittedAt,
		}
		if _, err = repo.db.NamedExec(subQ, row); err != nil {
			return assignment.Assignment{}, errors.Wrap(err, "inserting submission")
		}
	}
	return a, nil
}

func (repo *assignmentRepository) DeleteAssignment(id string) error {
	res, err := repo.db.Exec(`DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return assignment.ErrNotFound
	}
	return nil
}
