package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/codegrow/frontend/core/user"
)

func (cli *commandLine) login(args []string) error {
	fs := cli.flagSet("login")
	uname := fs.String("username", "", "The username. The password will be prompted next.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *uname == "" {
		fs.Usage()
		return errHelp
	}
	pwd, err := readPassword(cli.out)
	if err != nil {
		return err
	}
	if pwd == "" {
		fs.Usage()
		return errHelp
	}

	creds, err := cli.api.Login(cli.context(), user.LoginRequest{Username: *uname, Password: pwd})
	if err != nil {
		return err
	}
	role := "student"
	if creds.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(cli.out, "Logged in as %s (%s).\n", creds.Username, role)
	return nil
}

func (cli *commandLine) logout() error {
	if !cli.sess.Authenticated() {
		fmt.Fprintln(cli.out, "Not logged in.")
		return nil
	}
	if err := cli.api.Logout(cli.context()); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Logged out.")
	return nil
}

func (cli *commandLine) whoami() error {
	if !cli.sess.Authenticated() {
		return errNotLoggedIn
	}
	creds := cli.sess.Credentials()
	role := "student"
	if creds.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(cli.out, "%s (%s), logged in %s\n", creds.Username, role, humanize.RelTime(creds.SavedAt, time.Now(), "ago", "from now"))
	return nil
}
