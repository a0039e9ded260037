package main

import (
	"fmt"
	"strings"

	"github.com/codegrow/frontend/core/course"
)

func (cli *commandLine) completeLesson(args []string) error {
	id, err := idFlag(cli.flagSet("complete-lesson"), args)
	if err != nil {
		return err
	}
	res, err := cli.api.CompleteLesson(cli.context(), id)
	if err != nil {
		return err
	}
	msg := res.Message
	if msg == "" {
		msg = "Lesson completed."
	}
	if res.XPEarned > 0 {
		msg += fmt.Sprintf(" +%d XP", res.XPEarned)
	}
	fmt.Fprintln(cli.out, msg)
	return nil
}

func (cli *commandLine) submitQuiz(args []string) error {
	fs := cli.flagSet("submit-quiz")
	answers := fs.String("answers", "", "Comma separated question=answer pairs, e.g. 1=a,2=c.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sub := course.QuizSubmission{Answers: make(map[string]string)}
	for _, pair := range strings.Split(*answers, ",") {
		question, answer, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || question == "" {
			continue
		}
		sub.Answers[question] = answer
	}
	if len(sub.Answers) == 0 {
		fs.Usage()
		return errHelp
	}

	res, err := cli.api.SubmitQuiz(cli.context(), sub)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Score: %d/%d, +%d XP (total %d, level %d)\n", res.Correct, res.Total, res.XPEarned, res.XPTotal, res.Level)
	return nil
}

func (cli *commandLine) addSession(args []string) error {
	fs := cli.flagSet("add-session")
	var s course.StudySession
	fs.Int64Var(&s.Lesson, "lesson", 0, "The lesson id.")
	fs.StringVar(&s.Date, "date", "", "Date, YYYY-MM-DD.")
	fs.StringVar(&s.StartTime, "start", "", "Start time, HH:MM.")
	fs.StringVar(&s.EndTime, "end", "", "End time, HH:MM.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if s.Lesson == 0 {
		fs.Usage()
		return errHelp
	}

	created, err := cli.api.AddStudySession(cli.context(), s)
	if err != nil {
		return err
	}
	title := created.LessonTitle
	if title == "" {
		title = fmt.Sprintf("lesson %d", created.Lesson)
	}
	fmt.Fprintf(cli.out, "Study session scheduled on %s from %s to %s for %s.\n", created.Date, created.StartTime, created.EndTime, title)
	return nil
}
