package main

import (
	"context"

	"github.com/trezcool/classlog/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	if err := cli.connect(); err != nil {
		return err
	}

	ctx := context.Background()
	usr, err := cli.usrRepo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err = cli.usrRepo.UpdateUser(ctx, usr, nil); err != nil {
		return err
	}
	logger.Printf("password reset for %s", email)
	return nil
}
