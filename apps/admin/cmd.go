package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"syscall"

	"golang.org/x/term"

	"github.com/codegrow/frontend/core/collection"
	"github.com/codegrow/frontend/core/notify"
	"github.com/codegrow/frontend/core/session"
	apisvc "github.com/codegrow/frontend/services/api"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errNotLoggedIn = errors.New("not logged in, run: admin login -username USERNAME")
	errNotAdmin    = errors.New("this command requires an admin account")
)

type commandLine struct {
	ctx      context.Context
	api      *apisvc.Client
	sess     *session.Session
	bus      *notify.Bus
	in       io.Reader // code for run-code & feedback when no -file is given
	out      io.Writer
	pageSize int
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -username USERNAME                       - log in, the password is prompted next")
	fmt.Fprintln(cli.out, "  logout                                         - log out")
	fmt.Fprintln(cli.out, "  whoami                                         - show the logged in user")
	fmt.Fprintln(cli.out, "  feed [-watch] [-interval 30s]                  - show your activity feed")
	fmt.Fprintln(cli.out, "  users list|show|create|update|activate|deactivate|delete")
	fmt.Fprintln(cli.out, "  pathways list|show|create|update|activate|deactivate|delete")
	fmt.Fprintln(cli.out, "  lessons list|show|create|update|publish|unpublish|delete")
	fmt.Fprintln(cli.out, "  activity-log list [-type T] [-user ID] [-from YYYY-MM-DD] [-to YYYY-MM-DD]")
	fmt.Fprintln(cli.out, "  dashboard                                      - your current lesson, progress & sessions")
	fmt.Fprintln(cli.out, "  my-lessons [-recommended]                      - the lessons of your learning path")
	fmt.Fprintln(cli.out, "  lesson ID                                      - show a lesson and whether you completed it")
	fmt.Fprintln(cli.out, "  learning-path [-goal G] [-level L]             - change your learning goal or difficulty")
	fmt.Fprintln(cli.out, "  run-code -lesson ID [-file F]                  - run code, read from stdin without -file")
	fmt.Fprintln(cli.out, "  feedback -lesson ID [-file F] [-expected OUT]  - ask the AI to review your code")
	fmt.Fprintln(cli.out, "  ask -lesson ID [-step N] [-file F] QUESTION    - ask the lesson assistant")
	fmt.Fprintln(cli.out, "  complete-lesson -id LESSON_ID                  - mark a lesson as completed")
	fmt.Fprintln(cli.out, "  submit-quiz -answers 1=a,2=c                   - submit quiz answers")
	fmt.Fprintln(cli.out, "  add-session -lesson ID -date D -start HH:MM -end HH:MM")
	fmt.Fprintln(cli.out, "Update commands take the id first: users update ID -email E.")
	fmt.Fprintln(cli.out, "List commands accept -page N, -all, -search TERM, resource filters and -o table|json|yaml.")
}

func (cli *commandLine) context() context.Context {
	if cli.ctx == nil {
		return context.Background()
	}
	return cli.ctx
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "login":
		return cli.login(rest)
	case "logout":
		return cli.logout()
	case "whoami":
		return cli.whoami()
	}

	if !cli.sess.Authenticated() {
		return errNotLoggedIn
	}
	switch cmd {
	case "feed":
		return cli.feed(rest)
	case "complete-lesson":
		return cli.completeLesson(rest)
	case "submit-quiz":
		return cli.submitQuiz(rest)
	case "add-session":
		return cli.addSession(rest)
	case "dashboard":
		return cli.dashboard(rest)
	case "my-lessons":
		return cli.myLessons(rest)
	case "lesson":
		return cli.lesson(rest)
	case "learning-path":
		return cli.learningPath(rest)
	case "run-code":
		return cli.runCode(rest)
	case "feedback":
		return cli.feedback(rest)
	case "ask":
		return cli.ask(rest)
	case "users", "pathways", "lessons", "activity-log":
		if !cli.sess.Credentials().IsAdmin {
			return errNotAdmin
		}
		if len(rest) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.admin(cmd, rest[0], rest[1:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) admin(resource, action string, args []string) error {
	switch resource {
	case "users":
		return cli.users(action, args)
	case "pathways":
		return cli.pathways(action, args)
	case "lessons":
		return cli.lessons(action, args)
	default:
		if action != "list" {
			cli.printUsage()
			return errHelp
		}
		return cli.activityLog(args)
	}
}

// listFlags registers the flags every list command shares.
type listFlags struct {
	page    *int
	all     *bool
	search  *string
	format  *string
	filters map[string]*string
}

func newListFlags(fs *flag.FlagSet, filters ...string) listFlags {
	lf := listFlags{
		page:    fs.Int("page", 1, "Page number, starting at 1."),
		all:     fs.Bool("all", false, "Also print every following page."),
		search:  fs.String("search", "", "Search term."),
		format:  fs.String("o", formatTable, "Output format: table, json or yaml."),
		filters: make(map[string]*string, len(filters)),
	}
	for _, name := range filters {
		lf.filters[name] = fs.String(name, "", "Filter on "+name+".")
	}
	return lf
}

func (lf listFlags) query() collection.Query {
	q := collection.NewQuery()
	for name, val := range lf.filters {
		q = collection.OnFilterChange(q, name, *val)
	}
	q = collection.OnSearchChange(q, *lf.search)
	return collection.OnPageChange(q, *lf.page, 0)
}

// idFlag parses "-id N" or a bare positional id.
func idFlag(fs *flag.FlagSet, args []string) (int64, error) {
	id := fs.Int64("id", 0, "The item id.")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if *id == 0 && fs.NArg() > 0 {
		parsed, err := strconv.ParseInt(fs.Arg(0), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid id %q", fs.Arg(0))
		}
		*id = parsed
	}
	if *id <= 0 {
		fs.Usage()
		return 0, errHelp
	}
	return *id, nil
}

// walkPages loads the browser's page and hands it to show, then, with all set,
// moves on page by page until the last one.
func walkPages[T collection.Item](
	ctx context.Context,
	b *collection.Browser[T],
	all bool,
	show func(page collection.Page[T]) error,
) error {
	defer b.Dispose()
	if err := b.Load(ctx); err != nil {
		return err
	}
	for {
		state := b.Snapshot()
		if err := show(state.Page); err != nil {
			return err
		}
		next := state.Page.CurrentPage + 1
		if !all || next > state.TotalPages() {
			return nil
		}
		if err := b.SetPage(ctx, next); err != nil {
			return err
		}
		if b.Snapshot().Page.CurrentPage != next {
			return nil
		}
	}
}

// leadingID parses the "ID [flags]" arguments of update commands and returns the flags.
func leadingID(fs *flag.FlagSet, args []string) (int64, []string, error) {
	if len(args) == 0 {
		fs.Usage()
		return 0, nil, errHelp
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, nil, fmt.Errorf("invalid id %q", args[0])
	}
	return id, args[1:], nil
}

func readPassword(out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(out)
	return string(pwd), err
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}
