package dummydb

import (
	"github.com/SRMV-Team/Online-Tutor-Backend/core/admin"
)

type adminRepository struct {
	db *adminTable
}

var _ admin.Repository = (*adminRepository)(nil) // interface compliance check

func NewAdminRepository(db *DB) admin.Repository {
	return &adminRepository{db: db.admin}
}

func (repo *adminRepository) CheckEmailUniqueness(email string, excludedAdmins ...admin.Admin) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, a := range repo.db.table {
		if a.Email != email {
			continue
		}
		excluded := false
		for _, ex := range excludedAdmins {
			if ex.ID == a.ID {
				excluded = true
				break
			}
		}
		if !excluded {
			return admin.ErrEmailExists
		}
	}
	return nil
}

func (repo *adminRepository) CreateAdmin(a admin.Admin) (admin.Admin, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[a.ID] = &a
	return a, nil
}

func (repo *adminRepository) GetAdminByID(id string) (admin.Admin, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if a, ok := repo.db.table[id]; ok {
		return *a, nil
	}
	return admin.Admin{}, admin.ErrNotFound
}

func (repo *adminRepository) GetAdminByEmail(email string) (admin.Admin, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, a := range repo.db.table {
		if a.Email == email {
			return *a, nil
		}
	}
	return admin.Admin{}, admin.ErrNotFound
}
