package main

import (
	"context"

	"github.com/qori-edu/backend/core/institution"
	"github.com/qori-edu/backend/core/user"
)

// addInstitution registers a new institution.
func (cli *commandLine) addInstitution(name, address, phone, email string) error {
	_, err := cli.instSvc.Create(context.Background(), institution.NewInstitution{
		Name:    name,
		Address: address,
		Phone:   phone,
		Email:   email,
	})
	return err
}

// addUser creates an administrator account for an institution. Teachers
// and students are registered through the service API, not this tool.
func (cli *commandLine) addUser(code, institutionID, name, lastName, email, pwd string) error {
	ctx := context.Background()

	if _, err := cli.instSvc.GetByID(ctx, institutionID); err != nil {
		return err
	}
	_, err := cli.usrSvc.Create(ctx, user.NewUser{
		Code:            code,
		Role:            user.RoleAdmin,
		InstitutionID:   institutionID,
		Name:            name,
		LastName:        lastName,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	return err
}
