package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/codegrow/frontend/core/collection"
	"github.com/codegrow/frontend/core/course"
	apisvc "github.com/codegrow/frontend/services/api"
	metricsvc "github.com/codegrow/frontend/services/metrics"
)

func pathwayFlags(fs *flag.FlagSet, f *course.PathwayForm) {
	fs.StringVar(&f.Title, "title", f.Title, "Title.")
	fs.StringVar(&f.Description, "description", f.Description, "Description.")
	fs.StringVar(&f.DifficultyLevel, "level", f.DifficultyLevel, "Difficulty level: Beginner, Intermediate or Advanced.")
	fs.BoolVar(&f.IsActive, "active", f.IsActive, "Visible to learners.")
	fs.IntVar(&f.EstimatedHours, "hours", f.EstimatedHours, "Estimated hours.")
	fs.StringVar(&f.Prerequisites, "prerequisites", f.Prerequisites, "Prerequisites.")
	fs.StringVar(&f.LearningObjectives, "objectives", f.LearningObjectives, "Learning objectives.")
	fs.StringVar(&f.ThumbnailURL, "thumbnail", f.ThumbnailURL, "Thumbnail URL.")
}

func (cli *commandLine) pathways(action string, args []string) error {
	ctx := cli.context()
	switch action {
	case "list":
		fs := cli.flagSet("pathways list")
		lf := newListFlags(fs, course.PathwayFilters...)
		if err := fs.Parse(args); err != nil {
			return err
		}
		b := collection.NewBrowser(apisvc.ResourcePathways, cli.api.Pathways, collection.Options{
			PageSize: cli.pageSize,
			Query:    lf.query(),
			OnStale:  func() { metricsvc.RecordStale("pathways") },
		})
		return walkPages(ctx, b, *lf.all, func(page collection.Page[course.Pathway]) error {
			tbl := &table{headers: []string{"ID", "TITLE", "LEVEL", "ACTIVE", "HOURS", "LESSONS"}}
			for _, p := range page.Items {
				tbl.add(fmt.Sprint(p.ID), p.Title, p.DifficultyLevel, yesNo(p.IsActive),
					fmt.Sprint(p.EstimatedHours.Int), fmt.Sprint(p.LessonCount.Int))
			}
			return renderPage(cli.out, *lf.format, page, tbl)
		})

	case "show":
		fs := cli.flagSet("pathways show")
		format := fs.String("o", formatYAML, "Output format: json or yaml.")
		id, err := idFlag(fs, args)
		if err != nil {
			return err
		}
		p, err := cli.api.Pathway(ctx, id)
		if err != nil {
			return err
		}
		return render(cli.out, *format, p, nil)

	case "create":
		fs := cli.flagSet("pathways create")
		var form course.PathwayForm
		pathwayFlags(fs, &form)
		if err := fs.Parse(args); err != nil {
			return err
		}
		p, err := cli.api.CreatePathway(ctx, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Pathway %d (%s) created.\n", p.ID, p.Title)
		return nil

	case "update":
		fs := cli.flagSet("pathways update")
		id, rest, err := leadingID(fs, args)
		if err != nil {
			return err
		}
		orig, err := cli.api.Pathway(ctx, id)
		if err != nil {
			return err
		}
		// flags default to the current values, only the given ones change
		form := orig.Form()
		pathwayFlags(fs, &form)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		p, err := cli.api.UpdatePathway(ctx, id, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Pathway %d (%s) updated.\n", p.ID, p.Title)
		return nil

	case "activate", "deactivate":
		id, err := idFlag(cli.flagSet("pathways "+action), args)
		if err != nil {
			return err
		}
		if err := cli.api.SetPathwayActive(ctx, id, action == "activate"); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Pathway %d %sd.\n", id, action)
		return nil

	case "delete":
		id, err := idFlag(cli.flagSet("pathways delete"), args)
		if err != nil {
			return err
		}
		if err := cli.api.DeletePathway(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Pathway %d deleted.\n", id)
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}

// lessonFlags registers the LessonForm fields. The returned func loads -content-file, if given,
// once the flags are parsed.
func lessonFlags(fs *flag.FlagSet, f *course.LessonForm) func() error {
	fs.Int64Var(&f.Pathway, "pathway", f.Pathway, "Pathway id.")
	fs.StringVar(&f.Title, "title", f.Title, "Title.")
	fs.IntVar(&f.Order, "order", f.Order, "Position in the pathway.")
	fs.StringVar(&f.DifficultyLevel, "level", f.DifficultyLevel, "Difficulty level: Beginner, Intermediate or Advanced.")
	fs.StringVar(&f.LearningGoal, "goal", f.LearningGoal, "Learning goal: School, Portfolio or Career Growth.")
	fs.IntVar(&f.EstimatedMinutes, "minutes", f.EstimatedMinutes, "Estimated minutes.")
	fs.BoolVar(&f.IsPublished, "published", f.IsPublished, "Visible to learners.")
	fs.StringVar(&f.Content, "content", f.Content, "Lesson content (HTML).")
	fs.StringVar(&f.CodeSnippet, "snippet", f.CodeSnippet, "Code snippet shown with the lesson.")
	contentFile := fs.String("content-file", "", "Read the lesson content from this file.")

	return func() error {
		if *contentFile == "" {
			return nil
		}
		raw, err := os.ReadFile(*contentFile)
		if err != nil {
			return errors.Wrap(err, "reading lesson content")
		}
		f.Content = string(raw)
		return nil
	}
}

func (cli *commandLine) lessons(action string, args []string) error {
	ctx := cli.context()
	switch action {
	case "list":
		fs := cli.flagSet("lessons list")
		lf := newListFlags(fs, course.LessonFilters...)
		if err := fs.Parse(args); err != nil {
			return err
		}
		b := collection.NewBrowser(apisvc.ResourceLessons, cli.api.Lessons, collection.Options{
			PageSize: cli.pageSize,
			Query:    lf.query(),
			OnStale:  func() { metricsvc.RecordStale("lessons") },
		})
		return walkPages(ctx, b, *lf.all, func(page collection.Page[course.Lesson]) error {
			tbl := &table{headers: []string{"ID", "ORDER", "TITLE", "PATHWAY", "LEVEL", "PUBLISHED", "MINUTES"}}
			for _, l := range page.Items {
				tbl.add(fmt.Sprint(l.ID), fmt.Sprint(l.Order), l.Title, l.PathwayLabel(), l.DifficultyLevel,
					yesNo(l.IsPublished), fmt.Sprint(l.EstimatedMinutes.Int))
			}
			return renderPage(cli.out, *lf.format, page, tbl)
		})

	case "show":
		fs := cli.flagSet("lessons show")
		format := fs.String("o", formatYAML, "Output format: json or yaml.")
		id, err := idFlag(fs, args)
		if err != nil {
			return err
		}
		l, err := cli.api.Lesson(ctx, id)
		if err != nil {
			return err
		}
		return render(cli.out, *format, l, nil)

	case "create":
		fs := cli.flagSet("lessons create")
		var form course.LessonForm
		loadContent := lessonFlags(fs, &form)
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := loadContent(); err != nil {
			return err
		}
		l, err := cli.api.CreateLesson(ctx, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Lesson %d (%s) created.\n", l.ID, l.Title)
		return nil

	case "update":
		fs := cli.flagSet("lessons update")
		id, rest, err := leadingID(fs, args)
		if err != nil {
			return err
		}
		orig, err := cli.api.Lesson(ctx, id)
		if err != nil {
			return err
		}
		form := orig.Form()
		loadContent := lessonFlags(fs, &form)
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if err := loadContent(); err != nil {
			return err
		}
		l, err := cli.api.UpdateLesson(ctx, id, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Lesson %d (%s) updated.\n", l.ID, l.Title)
		return nil

	case "publish", "unpublish":
		id, err := idFlag(cli.flagSet("lessons "+action), args)
		if err != nil {
			return err
		}
		if err := cli.api.SetLessonPublished(ctx, id, action == "publish"); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Lesson %d %sed.\n", id, action)
		return nil

	case "delete":
		id, err := idFlag(cli.flagSet("lessons delete"), args)
		if err != nil {
			return err
		}
		if err := cli.api.DeleteLesson(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Lesson %d deleted.\n", id)
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}
