package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/classlog/core"
	"github.com/trezcool/classlog/core/user"
	"github.com/trezcool/classlog/storage/database"
	sqlxrepos "github.com/trezcool/classlog/storage/database/sqlx"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	db      *sqlx.DB
	usrRepo user.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate - create the database if needed and apply pending migrations")
	fmt.Println("  createsuperuser -nombre NAME -apellido LASTNAME -documento DOC -email EMAIL - create or update the admin account; the password is prompted next")
	fmt.Println("  resetpassword -email EMAIL - reset a user's password; the password is prompted next")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	superuserCmd := flag.NewFlagSet("createsuperuser", flag.ExitOnError)
	superuserFirstName := superuserCmd.String("nombre", "", "The admin's first name.")
	superuserLastName := superuserCmd.String("apellido", "", "The admin's last name.")
	superuserDocument := superuserCmd.String("documento", "", "The admin's identity document.")
	superuserEmail := superuserCmd.String("email", "", "The admin's email. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		return cli.migrate()

	case "createsuperuser":
		if err := superuserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *superuserFirstName == "" || *superuserLastName == "" || *superuserDocument == "" || *superuserEmail == "" {
			superuserCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			superuserCmd.Usage()
			return errHelp
		}
		return cli.createSuperuser(*superuserFirstName, *superuserLastName, *superuserDocument, *superuserEmail, pwd)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) connect() error {
	if cli.usrRepo != nil {
		return nil
	}
	db, err := database.Open(cli.conf)
	if err != nil {
		return err
	}
	cli.db = db
	cli.usrRepo = sqlxrepos.NewUserRepository(db)
	return nil
}

func (cli *commandLine) close() {
	if cli.db != nil {
		_ = cli.db.Close()
	}
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
