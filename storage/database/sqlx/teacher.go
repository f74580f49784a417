package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/teacher"
)

type teacherRow struct {
	ID               string         `db:"id"`
	Salutation       string         `db:"salutation"`
	FirstName        string         `db:"first_name"`
	LastName         string         `db:"last_name"`
	Email            string         `db:"email"`
	PasswordHash     []byte         `db:"password_hash"`
	Mobile           string         `db:"mobile"`
	Timezone         string         `db:"timezone"`
	Qualification    string         `db:"qualification"`
	Experience       string         `db:"experience"`
	Subjects         pq.StringArray `db:"subjects"`
	AssignedSubjects pq.StringArray `db:"assigned_subjects"`
	AssignedClasses  pq.StringArray `db:"assigned_classes"`
	ApprovalStatus   string         `db:"approval_status"`
	IsActive         bool           `db:"is_active"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func newTeacherRow(t teacher.Teacher) teacherRow {
	return teacherRow{
		ID:               t.ID,
		Salutation:       t.Salutation,
		FirstName:        t.FirstName,
		LastName:         t.LastName,
		Email:            t.Email,
		PasswordHash:     t.PasswordHash,
		Mobile:           t.Mobile,
		Timezone:         t.Timezone,
		Qualification:    t.Qualification,
		Experience:       t.Experience,
		Subjects:         t.Subjects,
		AssignedSubjects: t.AssignedSubjects,
		AssignedClasses:  t.AssignedClasses,
		ApprovalStatus:   t.ApprovalStatus,
		IsActive:         t.IsActive,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func (row teacherRow) toTeacher() teacher.Teacher {
	return teacher.Teacher{
		ID:               row.ID,
		Salutation:       row.Salutation,
		FirstName:        row.FirstName,
		LastName:         row.LastName,
		Email:            row.Email,
		PasswordHash:     row.PasswordHash,
		Mobile:           row.Mobile,
		Timezone:         row.Timezone,
		Qualification:    row.Qualification,
		Experience:       row.Experience,
		Subjects:         row.Subjects,
		AssignedSubjects: row.AssignedSubjects,
		AssignedClasses:  row.AssignedClasses,
		ApprovalStatus:   row.ApprovalStatus,
		IsActive:         row.IsActive,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) teacher.Repository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) CheckEmailUniqueness(email string, excludedTeachers ...teacher.Teacher) error {
	q := `SELECT EXISTS (SELECT 1 FROM teachers WHERE email = ?)`
	args := []interface{}{email}
	if len(excludedTeachers) > 0 {
		ids := make([]string, 0, len(excludedTeachers))
		for _, t := range excludedTeachers {
			ids = append(ids, t.ID)
		}
		var err error
		q, args, err = sqlx.In(`SELECT EXISTS (SELECT 1 FROM teachers WHERE email = ? AND id NOT IN (?))`, email, ids)
		if err != nil {
			return errors.Wrap(err, "building email uniqueness query")
		}
	}

	var exists bool
	if err := repo.db.Get(&exists, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return teacher.ErrEmailExists
	}
	return nil
}

func (repo *teacherRepository) CreateTeacher(t teacher.Teacher) (teacher.Teacher, error) {
	const q = `
	INSERT INTO teachers (
		id, salutation, first_name, last_name, email, password_hash, mobile,
		timezone, qualification, experience, subjects, assigned_subjects,
		assigned_classes, approval_status, is_active, created_at, updated_at
	) VALUES (
		:id, :salutation, :first_name, :last_name, :email, :password_hash, :mobile,
		:timezone, :qualification, :experience, :subjects, :assigned_subjects,
		:assigned_classes, :approval_status, :is_active, :created_at, :updated_at
	)`
	if _, err := repo.db.NamedExec(q, newTeacherRow(t)); err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return t, nil
}

func (repo *teacherRepository) QueryAllTeachers() ([]teacher.Teacher, error) {
	var rows []teacherRow
	if err := repo.db.Select(&rows, `SELECT * FROM teachers ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.toTeacher())
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacherByID(id string) (teacher.Teacher, error) {
	var row teacherRow
	if err := repo.db.Get(&row, `SELECT * FROM teachers WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "getting teacher")
	}
	return row.toTeacher(), nil
}

func (repo *teacherRepository) GetTeacherByEmail(email string) (teacher.Teacher, error) {
	var row teacherRow
	if err := repo.db.Get(&row, `SELECT * FROM teachers WHERE email = $1`, email); err != nil {
		if err == sql.ErrNoRows {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "getting teacher by email")
	}
	return row.toTeacher(), nil
}

func (repo *teacherRepository) UpdateTeacher(t teacher.Teacher) (teacher.Teacher, error) {
	const q = `
	UPDATE teachers SET
		salutation = :salutation, first_name = :first_name, last_name = :last_name,
		email = :email, password_hash = :password_hash, mobile = :mobile,
		timezone = :timezone, qualification = :qualification, experience = :experience,
		subjects = :subjects, assigned_subjects = :assigned_subjects,
		assigned_classes = :assigned_classes, approval_status = :approval_status,
		is_active = :is_active, updated_at = :updated_at
	WHERE id = :id`
	res, err := repo.db.NamedExec(q, newTeacherRow(t))
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return t, nil
}

func (repo *teacherRepository) DeleteTeacher(id string) error {
	res, err := repo.db.Exec(`DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return teacher.ErrNotFound
	}
	return nil
}
