package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/student"
)

type studentRow struct {
	ID             string    `db:"id"`
	Salutation     string    `db:"salutation"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	Email          string    `db:"email"`
	PasswordHash   []byte    `db:"password_hash"`
	Mobile         string    `db:"mobile"`
	Timezone       string    `db:"timezone"`
	Class          string    `db:"class"`
	Group          string    `db:"group"`
	Syllabus       string    `db:"syllabus"`
	EmisNumber     string    `db:"emis_number"`
	Proof          string    `db:"proof"`
	PaymentStatus  string    `db:"payment_status"`
	ApprovalStatus string    `db:"approval_status"`
	IsActive       bool      `db:"is_active"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func newStudentRow(s student.Student) studentRow {
	return studentRow(s)
}

func (row studentRow) toStudent() student.Student {
	return student.Student(row)
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckEmailUniqueness(email string, excludedStudents ...student.Student) error {
	q := `SELECT EXISTS (SELECT 1 FROM students WHERE email = ?)`
	args := []interface{}{email}
	if len(excludedStudents) > 0 {
		ids := make([]string, 0, len(excludedStudents))
		for _, s := range excludedStudents {
			ids = append(ids, s.ID)
		}
		var err error
		q, args, err = sqlx.In(`SELECT EXISTS (SELECT 1 FROM students WHERE email = ? AND id NOT IN (?))`, email, ids)
		if err != nil {
			return errors.Wrap(err, "building email uniqueness query")
		}
	}

	var exists bool
	if err := repo.db.Get(&exists, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return student.ErrEmailExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(s student.Student) (student.Student, error) {
	const q = `
	INSERT INTO students (
		id, salutation, first_name, last_name, email, password_hash, mobile,
		timezone, class, "group", syllabus, emis_number, proof, payment_status,
		approval_status, is_active, created_at, updated_at
	) VALUES (
		:id, :salutation, :first_name, :last_name, :email, :password_hash, :mobile,
		:timezone, :class, :group, :syllabus, :emis_number, :proof, :payment_status,
		:approval_status, :is_active, :created_at, :updated_at
	)`
	if _, err := repo.db.NamedExec(q, newStudentRow(s)); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return s, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.Select(&rows, `SELECT * FROM students ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toStudent())
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	var row studentRow
	if err := repo.db.Get(&row, `SELECT * FROM students WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return row.toStudent(), nil
}

func (repo *studentRepository) GetStudentByEmail(email string) (student.Student, error) {
	var row studentRow
	if err := repo.db.Get(&row, `SELECT * FROM students WHERE email = $1`, email); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student by email")
	}
	return row.toStudent(), nil
}

func (repo *studentRepository) UpdateStudent(s student.Student) (student.Student, error) {
	const q = `
	UPDATE students SET
		salutation = :salutation, first_name = :first_name, last_name = :last_name,
		email = :email, password_hash = :password_hash, mobile = :mobile,
		timezone = :timezone, class = :class, "group" = :group, syllabus = :syllabus,
		emis_number = :emis_number, proof = :proof, payment_status = :payment_status,
		approval_status = :approval_status, is_active = :is_active, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExec(q, newStudentRow(s))
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return s, nil
}

func (repo *studentRepository) DeleteStudent(id string) error {
	res, err := repo.db.Exec(`DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.ErrNotFound
	}
	return nil
}
