package apisvc

import (
	"context"
	"strconv"

	"github.com/codegrow/frontend/core/course"
	"github.com/codegrow/frontend/core/user"
)

// MyLessons returns the lessons matching the learner's goal & difficulty, in order.
// It is empty until the learner picked a learning path.
func (c *Client) MyLessons(ctx context.Context) ([]course.Lesson, error) {
	return c.lessons(ctx, "accounts/lessons/")
}

// RecommendedLessons returns the lessons suggested to the learner.
func (c *Client) RecommendedLessons(ctx context.Context) ([]course.Lesson, error) {
	return c.lessons(ctx, "accounts/recommended-lessons/")
}

func (c *Client) lessons(ctx context.Context, path string) ([]course.Lesson, error) {
	var raw []byte
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, err
	}
	res, err := decodeList[course.Lesson](raw)
	return res.Items, err
}

func (c *Client) LearnerLesson(ctx context.Context, id int64) (course.Lesson, error) {
	var l course.Lesson
	if id <= 0 {
		return l, course.ErrInvalidLesson
	}
	err := c.get(ctx, "accounts/lessons/"+strconv.FormatInt(id, 10)+"/", &l)
	return l, err
}

type completion struct {
	Completed bool `json:"completed"`
}

// LessonCompleted tells whether the learner already completed the lesson.
func (c *Client) LessonCompleted(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, course.ErrInvalidLesson
	}
	var res completion
	err := c.get(ctx, "accounts/check-lesson-completion/"+strconv.FormatInt(id, 10)+"/", &res)
	return res.Completed, err
}

func (c *Client) Dashboard(ctx context.Context) (course.Dashboard, error) {
	var d course.Dashboard
	if err := c.get(ctx, "accounts/dashboard/", &d); err != nil {
		return d, err
	}
	if d.RecommendedLessons == nil {
		d.RecommendedLessons = []course.Lesson{}
	}
	if d.StudySessions == nil {
		d.StudySessions = []course.StudySession{}
	}
	return d, nil
}

// RunCode executes the snippet server side.
func (c *Client) RunCode(ctx context.Context, run course.CodeRun) (course.CodeOutput, error) {
	var out course.CodeOutput
	if err := run.Validate(); err != nil {
		return out, err
	}
	err := c.post(ctx, "accounts/run-code/", run, &out)
	return out, err
}

type generated struct {
	GeneratedText string `json:"generated_text"`
}

type codeFeedback struct {
	Feedback []generated `json:"feedback"`
}

type lessonFeedback struct {
	Feedback string `json:"feedback"`
}

// Feedback asks the AI reviewer about the code. The text is empty when the model had nothing to say.
func (c *Client) Feedback(ctx context.Context, req course.FeedbackRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if req.Targeted() {
		var res lessonFeedback
		err := c.post(ctx, "accounts/lesson-feedback/", req, &res)
		return res.Feedback, err
	}
	var res codeFeedback
	if err := c.post(ctx, "accounts/ai-feedback/", req, &res); err != nil {
		return "", err
	}
	if len(res.Feedback) == 0 {
		return "", nil
	}
	return res.Feedback[0].GeneratedText, nil
}

type assistantAnswer struct {
	Response string `json:"response"`
}

// Ask sends a question to the lesson assistant.
func (c *Client) Ask(ctx context.Context, q course.AssistantQuestion) (string, error) {
	if err := q.Validate(); err != nil {
		return "", err
	}
	var res assistantAnswer
	err := c.post(ctx, "accounts/lesson-assistant/", q, &res)
	return res.Response, err
}

// SetLearningPath updates the learner's goal and difficulty. Empty choices keep the current ones.
func (c *Client) SetLearningPath(ctx context.Context, lp user.LearningPath) (user.Profile, error) {
	current, err := c.Profile(ctx)
	if err != nil {
		return current, err
	}
	if err := lp.Validate(current); err != nil {
		return current, err
	}
	var updated user.Profile
	err = c.patch(ctx, "accounts/profile/", lp, &updated)
	return updated, err
}
