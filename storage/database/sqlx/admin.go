package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/admin"
)

type adminRow struct {
	ID           string    `db:"id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type adminRepository struct {
	db *sqlx.DB
}

var _ admin.Repository = (*adminRepository)(nil) // interface compliance check

func NewAdminRepository(db *sqlx.DB) admin.Repository {
	return &adminRepository{db: db}
}

func (repo *adminRepository) CheckEmailUniqueness(email string, excludedAdmins ...admin.Admin) error {
	q := `SELECT EXISTS (SELECT 1 FROM admins WHERE email = ?)`
	args := []interface{}{email}
	if len(excludedAdmins) > 0 {
		ids := make([]string, 0, len(excludedAdmins))
		for _, a := range excludedAdmins {
			ids = append(ids, a.ID)
		}
		var err error
		q, args, err = sqlx.In(`SELECT EXISTS (SELECT 1 FROM admins WHERE email = ? AND id NOT IN (?))`, email, ids)
		if err != nil {
			return errors.Wrap(err, "building email uniqueness query")
		}
	}

	var exists bool
	if err := repo.db.Get(&exists, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return admin.ErrEmailExists
	}
	return nil
}

func (repo *adminRepository) CreateAdmin(a admin.Admin) (admin.Admin, error) {
	const q = `
	INSERT INTO admins (id, first_name, last_name, email, password_hash, created_at, updated_at)
	VALUES (:id, :first_name, :last_name, :email, :password_hash, :created_at, :updated_at)`
	if _, err := repo.db.NamedExec(q, adminRow(a)); err != nil {
		return admin.Admin{}, errors.Wrap(err, "inserting admin")
	}
	return a, nil
}

func (repo *adminRepository) GetAdminByID(id string) (admin.Admin, error) {
	var row adminRow
	if err := repo.db.Get(&row, `SELECT * FROM admins WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return admin.Admin{}, admin.ErrNotFound
		}
		return admin.Admin{}, errors.Wrap(err, "getting admin")
	}
	return admin.Admin(row), nil
}

func (repo *adminRepository) GetAdminByEmail(email string) (admin.Admin, error) {
	var row adminRow
	if err := repo.db.Get(&row, `SELECT * FROM admins WHERE email = $1`, email); err != nil {
		if err == sql.ErrNoRows {
			return admin.Admin{}, admin.ErrNotFound
		}
		return admin.Admin{}, errors.Wrap(err, "getting admin by email")
	}
	return admin.Admin(row), nil
}
