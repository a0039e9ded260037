package main

import (
	"fmt"

	"github.com/codegrow/frontend/core/collection"
	"github.com/codegrow/frontend/core/user"
	apisvc "github.com/codegrow/frontend/services/api"
	metricsvc "github.com/codegrow/frontend/services/metrics"
)

func (cli *commandLine) usersBrowser(q collection.Query) *collection.Browser[user.User] {
	return collection.NewBrowser(apisvc.ResourceUsers, cli.api.Users, collection.Options{
		PageSize: cli.pageSize,
		Query:    q,
		OnStale:  func() { metricsvc.RecordStale("users") },
	})
}

func (cli *commandLine) users(action string, args []string) error {
	ctx := cli.context()
	switch action {
	case "list":
		fs := cli.flagSet("users list")
		lf := newListFlags(fs, user.Filters...)
		if err := fs.Parse(args); err != nil {
			return err
		}
		return walkPages(ctx, cli.usersBrowser(lf.query()), *lf.all, func(page collection.Page[user.User]) error {
			tbl := &table{headers: []string{"ID", "USERNAME", "EMAIL", "NAME", "ROLE", "ACTIVE", "GOAL", "LEVEL"}}
			for _, u := range page.Items {
				tbl.add(fmt.Sprint(u.ID), u.Username, u.Email, u.FullName(), u.RoleName(), yesNo(u.IsActive),
					u.LearningGoal.String, u.DifficultyLevel.String)
			}
			return renderPage(cli.out, *lf.format, page, tbl)
		})

	case "show":
		fs := cli.flagSet("users show")
		format := fs.String("o", formatYAML, "Output format: json or yaml.")
		id, err := idFlag(fs, args)
		if err != nil {
			return err
		}
		usr, err := cli.api.User(ctx, id)
		if err != nil {
			return err
		}
		return render(cli.out, *format, usr, nil)

	case "activate", "deactivate":
		id, err := idFlag(cli.flagSet("users "+action), args)
		if err != nil {
			return err
		}
		if err := cli.api.SetUserActive(ctx, id, action == "activate"); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "User %d %sd.\n", id, action)
		return nil

	case "delete":
		id, err := idFlag(cli.flagSet("users delete"), args)
		if err != nil {
			return err
		}
		if err := cli.api.DeleteUser(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "User %d deleted.\n", id)
		return nil

	case "create":
		fs := cli.flagSet("users create")
		nu := user.NewUser{IsActive: true}
		fs.StringVar(&nu.Username, "username", "", "Username.")
		fs.StringVar(&nu.Email, "email", "", "Email.")
		fs.StringVar(&nu.FirstName, "first-name", "", "First name.")
		fs.StringVar(&nu.LastName, "last-name", "", "Last name.")
		fs.StringVar(&nu.Role, "role", user.RoleStudent, "Role: student or admin.")
		fs.StringVar(&nu.LearningGoal, "goal", "", "Learning goal.")
		fs.StringVar(&nu.DifficultyLevel, "level", "", "Difficulty level.")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if nu.Username == "" {
			fs.Usage()
			return errHelp
		}
		pwd, err := readPassword(cli.out)
		if err != nil {
			return err
		}
		nu.Password, nu.PasswordConfirm = pwd, pwd
		usr, err := cli.api.CreateUser(ctx, nu)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "User %d (%s) created.\n", usr.ID, usr.Username)
		return nil

	case "update":
		fs := cli.flagSet("users update")
		id, rest, err := leadingID(fs, args)
		if err != nil {
			return err
		}
		// empty values keep the current ones
		var uu user.UpdateUser
		fs.StringVar(&uu.Username, "username", "", "New username.")
		fs.StringVar(&uu.Email, "email", "", "New email.")
		fs.StringVar(&uu.FirstName, "first-name", "", "New first name.")
		fs.StringVar(&uu.LastName, "last-name", "", "New last name.")
		fs.StringVar(&uu.Role, "role", "", "New role: student or admin.")
		fs.StringVar(&uu.LearningGoal, "goal", "", "New learning goal.")
		fs.StringVar(&uu.DifficultyLevel, "level", "", "New difficulty level.")
		newPassword := fs.Bool("password", false, "Prompt for a new password.")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		orig, err := cli.api.User(ctx, id)
		if err != nil {
			return err
		}
		if *newPassword {
			pwd, err := readPassword(cli.out)
			if err != nil {
				return err
			}
			uu.Password, uu.PasswordConfirm = pwd, pwd
		}
		usr, err := cli.api.UpdateUser(ctx, orig, uu)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "User %d (%s) updated.\n", usr.ID, usr.Username)
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}
