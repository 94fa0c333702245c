package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/qori-edu/backend/core/institution"
	"github.com/qori-edu/backend/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	instSvc *institution.Service
	usrSvc  *user.Service

	ensureIndexesFunc func(ctx context.Context) error
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addinstitution -name NAME [-address ADDRESS] [-phone PHONE] [-email EMAIL] - register a new institution")
	fmt.Println("  adduser -code CODE -institution ID -name NAME -lastname LASTNAME [-email EMAIL] - create an administrator account; the password will be prompted")
	fmt.Println("  ensureindexes - create the database indexes")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addInstCmd := flag.NewFlagSet("addinstitution", flag.ExitOnError)
	addInstName := addInstCmd.String("name", "", "The institution's name.")
	addInstAddress := addInstCmd.String("address", "", "The institution's address.")
	addInstPhone := addInstCmd.String("phone", "", "The institution's phone number.")
	addInstEmail := addInstCmd.String("email", "", "The institution's contact email.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserCode := addUserCmd.String("code", "", "The user's login code.")
	addUserInst := addUserCmd.String("institution", "", "The institution the user belongs to.")
	addUserName := addUserCmd.String("name", "", "The user's first name.")
	addUserLastName := addUserCmd.String("lastname", "", "The user's last name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")

	switch args[1] {
	case "addinstitution":
		if err := addInstCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addInstName == "" {
			addInstCmd.Usage()
			return errHelp
		}
		return cli.addInstitution(*addInstName, *addInstAddress, *addInstPhone, *addInstEmail)

	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserCode == "" || *addUserInst == "" || *addUserName == "" || *addUserLastName == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserCode, *addUserInst, *addUserName, *addUserLastName, *addUserEmail, string(pwd))

	case "ensureindexes":
		return cli.ensureIndexesFunc(context.Background())

	default:
		cli.printUsage()
		return errHelp
	}
}
