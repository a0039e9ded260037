package echoweb

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/codegrow/frontend/core/course"
	"github.com/codegrow/frontend/core/user"
)

// The handlers below earn XP: a success notifies the user's open activity streams.

type learningApi struct {
	clientFor clientFunc
}

func registerLearningAPI(g *echo.Group, jwt echo.MiddlewareFunc, clientFor clientFunc) {
	api := learningApi{clientFor: clientFor}

	g.POST("/lessons/:id/complete", api.completeLesson, jwt)
	g.POST("/quiz", api.submitQuiz, jwt)

	sg := g.Group("/study-sessions", jwt)
	sg.GET("", api.querySessions)
	sg.POST("", api.createSession)

	g.GET("/dashboard", api.dashboard, jwt)
	g.GET("/lessons", api.queryLessons, jwt)
	g.GET("/lessons/:id", api.retrieveLesson, jwt)
	g.PATCH("/learning-path", api.setLearningPath, jwt)
	g.POST("/run-code", api.runCode, jwt)
	g.POST("/assistant/feedback", api.feedback, jwt)
	g.POST("/assistant/ask", api.ask, jwt)
}

func (api *learningApi) completeLesson(ctx echo.Context) error {
	client, _, err := api.clientFor(ctx)
	if err != nil {
		return err
	}
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	res, err := client.CompleteLesson(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *learningApi) submitQuiz(ctx echo.Context) error {
	client, _, err := api.clientFor(ctx)
	if err != nil {
		return err
	}
	var data course.QuizSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuizSubmission")
	}
	res, err := client.SubmitQuiz(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *learningApi) querySessions(ctx echo.Context) error {
	client, _, err := api.clientFor(ctx)
	if err != nil {
		return err
	}
	sessions, err := client.StudySessions(ctx.Request().Context())
	if err != nil {
		return err
	}
	if sessions == nil {
		sessions = []course.StudySession{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *learningApi) createSession(ctx echo.Context) error {
	client, _, err := api.clientFor(ctx)
	if err != nil {
		return err
	}
	var data course.StudySession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudySession")
	}
	created, err := client.AddStudySession(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}

func (api *learningApi) dashboard(ctx echo.Context) error {
	client, _, err := api.clientFor(ctx)
	if err != nil {
		return err
	}
	d, err := client.Dashboard(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d)
}

// queryLessons lists the learner's lessons, or the recommended ones with ?recommended=true.
func (api *learningApi) queryLessons(ctx echo.Context) error {
	client, _, err := api.clientFor(ctx)
	if err != nil {
		return err
	}
	fetch := client.MyLessons
	if recommended, _ := strconv.ParseBool(ctx.QueryParam("recommended")); recommended {
		fetch = client.RecommendedLessons
	}
	lessons, err := fetch(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, lessons)
}

// LessonView is a lesson as the learner sees it.
type LessonView struct {
	course.Lesson
	Completed bool `json:"completed"`
}

func (api *learningApi) retrieveLesson(ctx echo.Context) error {
	client, _, err := api.clientFor(ctx)
	if err != nil {
		return err
	}
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()
	lesson, err := client.LearnerLesson(reqCtx, id)
	if err != nil {
		return err
	}
	completed, err := client.LessonCompleted(reqCtx, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LessonView{Lesson: lesson, Completed: completed})
}

func (api *learningApi) setLearningPath(ctx echo.Context) error {
	client, _, err := api.clientFor(ctx)
	if err != nil {
		return err
	}
	var data user.LearningPath
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LearningPath")
	}
	profile, err := client.SetLearningPath(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, profile)
}

func (api *learningApi) runCode(ctx echo.Context) error {
	client, _, err := api.clientFor(ctx)
	if err != nil {
		return err
	}
	var data course.CodeRun
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CodeRun")
	}
	out, err := client.RunCode(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, out)
}

type textResponse struct {
	Text string `json:"text"`
}

func (api *learningApi) feedback(ctx echo.Context) error {
	client, _, err := api.clientFor(ctx)
	if err != nil {
		return err
	}
	var data course.FeedbackRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FeedbackRequest")
	}
	text, err := client.Feedback(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, textResponse{Text: text})
}

func (api *learningApi) ask(ctx echo.Context) error {
	client, _, err := api.clientFor(ctx)
	if err != nil {
		return err
	}
	var data course.AssistantQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssistantQuestion")
	}
	text, err := client.Ask(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, textResponse{Text: text})
}
