package main

import (
	"context"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/user"
)

// createSuperuser creates or updates the administrator account and
// ensures it carries the Administrador role.
func (cli *commandLine) createSuperuser(firstName, lastName, document, email, pwd string) error {
	if err := cli.connect(); err != nil {
		return err
	}

	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	role, err := cli.usrRepo.GetRoleByName(ctx, user.RoleAdmin)
	if err != nil {
		return err
	}

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			FirstName: core.CleanString(firstName),
			LastName:  core.CleanString(lastName),
			Document:  core.CleanString(document),
			Email:     email,
		}
		active := true
		usr.IsActive = &active
		usr.RoleID = &role.ID
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		if _, err = cli.usrRepo.CreateUser(ctx, usr); err != nil {
			return err
		}
		logger.Printf("superuser %s created", email)
		return nil
	}

	usr.RoleID = &role.ID
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	active := true
	if _, err = cli.usrRepo.UpdateUser(ctx, usr, &active); err != nil {
		return err
	}
	logger.Printf("superuser %s updated", email)
	return nil
}
