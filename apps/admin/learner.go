package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/codegrow/frontend/core/course"
	"github.com/codegrow/frontend/core/user"
)

func (cli *commandLine) dashboard(args []string) error {
	fs := cli.flagSet("dashboard")
	format := fs.String("o", formatTable, "Output format: table, json or yaml.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	d, err := cli.api.Dashboard(cli.context())
	if err != nil {
		return err
	}
	if *format != formatTable && *format != "" {
		return render(cli.out, *format, d, nil)
	}

	if d.CurrentLesson != nil {
		fmt.Fprintf(cli.out, "Current lesson: %s (#%d)\n", d.CurrentLesson.Title, d.CurrentLesson.ID)
	} else {
		fmt.Fprintln(cli.out, "No lesson yet, pick a learning path: learning-path -goal G -level L")
	}
	fmt.Fprintf(cli.out, "Streak: %d day(s), %d lesson(s) completed\n", d.Progress.Streak, d.Progress.TotalLessonsCompleted)
	if len(d.RecommendedLessons) > 0 {
		fmt.Fprintln(cli.out, "Recommended:")
		for _, l := range d.RecommendedLessons {
			fmt.Fprintf(cli.out, "  #%d %s\n", l.ID, l.Title)
		}
	}
	fmt.Fprintf(cli.out, "Study sessions: %d\n", len(d.StudySessions))
	return nil
}

func (cli *commandLine) myLessons(args []string) error {
	fs := cli.flagSet("my-lessons")
	recommended := fs.Bool("recommended", false, "Only the recommended lessons.")
	format := fs.String("o", formatTable, "Output format: table, json or yaml.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	fetch := cli.api.MyLessons
	if *recommended {
		fetch = cli.api.RecommendedLessons
	}
	lessons, err := fetch(cli.context())
	if err != nil {
		return err
	}
	if len(lessons) == 0 && (*format == formatTable || *format == "") {
		fmt.Fprintln(cli.out, "No lessons yet, pick a learning path: learning-path -goal G -level L")
		return nil
	}
	tbl := &table{headers: []string{"ID", "ORDER", "TITLE", "LEVEL", "MINUTES"}}
	for _, l := range lessons {
		tbl.add(fmt.Sprint(l.ID), fmt.Sprint(l.Order), l.Title, l.DifficultyLevel, fmt.Sprint(l.EstimatedMinutes.Int))
	}
	return render(cli.out, *format, lessons, tbl)
}

type lessonView struct {
	course.Lesson
	Completed bool `json:"completed"`
}

func (cli *commandLine) lesson(args []string) error {
	fs := cli.flagSet("lesson")
	format := fs.String("o", formatYAML, "Output format: json or yaml.")
	id, err := idFlag(fs, args)
	if err != nil {
		return err
	}
	ctx := cli.context()
	l, err := cli.api.LearnerLesson(ctx, id)
	if err != nil {
		return err
	}
	completed, err := cli.api.LessonCompleted(ctx, id)
	if err != nil {
		return err
	}
	return render(cli.out, *format, lessonView{Lesson: l, Completed: completed}, nil)
}

func (cli *commandLine) learningPath(args []string) error {
	fs := cli.flagSet("learning-path")
	var lp user.LearningPath
	fs.StringVar(&lp.LearningGoal, "goal", "", "Learning goal: School, Portfolio or Career Growth.")
	fs.StringVar(&lp.DifficultyLevel, "level", "", "Difficulty level: Beginner, Intermediate or Advanced.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if lp.LearningGoal == "" && lp.DifficultyLevel == "" {
		fs.Usage()
		return errHelp
	}
	profile, err := cli.api.SetLearningPath(cli.context(), lp)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Learning path: %s, %s.\n", profile.LearningGoal.String, profile.DifficultyLevel.String)
	return nil
}

// readCode reads the code from file, or from the CLI input when file is empty.
func (cli *commandLine) readCode(file string) (string, error) {
	if file != "" {
		raw, err := os.ReadFile(file)
		return string(raw), errors.Wrap(err, "reading code")
	}
	if cli.in == nil {
		return "", nil
	}
	raw, err := io.ReadAll(cli.in)
	return string(raw), errors.Wrap(err, "reading code from stdin")
}

func (cli *commandLine) runCode(args []string) error {
	fs := cli.flagSet("run-code")
	lesson := fs.Int64("lesson", 0, "The lesson id.")
	file := fs.String("file", "", "File holding the code; stdin when empty.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *lesson <= 0 {
		fs.Usage()
		return errHelp
	}
	code, err := cli.readCode(*file)
	if err != nil {
		return err
	}
	out, err := cli.api.RunCode(cli.context(), course.CodeRun{Code: code, LessonID: *lesson})
	if err != nil {
		return err
	}
	fmt.Fprint(cli.out, out.Output)
	if !strings.HasSuffix(out.Output, "\n") {
		fmt.Fprintln(cli.out)
	}
	return nil
}

func (cli *commandLine) feedback(args []string) error {
	fs := cli.flagSet("feedback")
	var req course.FeedbackRequest
	fs.Int64Var(&req.LessonID, "lesson", 0, "The lesson id.")
	fs.StringVar(&req.ExpectedOutput, "expected", "", "Expected output, for a review of the difference.")
	fs.StringVar(&req.UserOutput, "output", "", "What the code printed.")
	fs.StringVar(&req.Question, "question", "", "The challenge question.")
	file := fs.String("file", "", "File holding the code; stdin when empty.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if req.LessonID <= 0 {
		fs.Usage()
		return errHelp
	}
	code, err := cli.readCode(*file)
	if err != nil {
		return err
	}
	req.Code = code
	text, err := cli.api.Feedback(cli.context(), req)
	if err != nil {
		return err
	}
	if text == "" {
		text = "No feedback available."
	}
	fmt.Fprintln(cli.out, text)
	return nil
}

func (cli *commandLine) ask(args []string) error {
	fs := cli.flagSet("ask")
	var q course.AssistantQuestion
	fs.Int64Var(&q.LessonID, "lesson", 0, "The lesson id.")
	fs.IntVar(&q.CurrentStep, "step", 1, "The step of the lesson you are on.")
	fs.StringVar(&q.ExpectedOutput, "expected", "", "Expected output of the step.")
	file := fs.String("file", "", "File holding your code, if any.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q.Question = strings.Join(fs.Args(), " ")
	if q.LessonID <= 0 || strings.TrimSpace(q.Question) == "" {
		fs.Usage()
		return errHelp
	}
	if *file != "" {
		code, err := cli.readCode(*file)
		if err != nil {
			return err
		}
		q.UserCode = code
	}
	answer, err := cli.api.Ask(cli.context(), q)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, answer)
	return nil
}
