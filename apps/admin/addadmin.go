package main

import (
	"fmt"

	"github.com/SRMV-Team/Online-Tutor-Backend/core/admin"
)

// addAdmin creates an admin account. Admin accounts have no API signup; this
// command is the only way to mint one.
func (cli *commandLine) addAdmin(email, firstName, lastName, pwd string) error {
	a, err := cli.adminSvc.Create(admin.NewAdmin{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  pwd,
	})
	if err != nil {
		return err
	}
	fmt.Printf("admin %s created (id %s)\n", a.Email, a.ID)
	return nil
}
