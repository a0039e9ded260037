package apisvc

import (
	"context"
	"strconv"

	"github.com/codegrow/frontend/core/course"
)

// CompleteLesson, SubmitQuiz and AddStudySession earn XP: each publishes one
// "activity updated" notification once the server accepted it.

func (c *Client) CompleteLesson(ctx context.Context, lessonID int64) (course.LessonCompletion, error) {
	var res course.LessonCompletion
	if lessonID <= 0 {
		return res, course.ErrInvalidLesson
	}
	if err := c.post(ctx, "accounts/complete-lesson/"+strconv.FormatInt(lessonID, 10)+"/", struct{}{}, &res); err != nil {
		return res, err
	}
	c.publish()
	return res, nil
}

func (c *Client) SubmitQuiz(ctx context.Context, sub course.QuizSubmission) (course.QuizResult, error) {
	var res course.QuizResult
	if err := sub.Validate(); err != nil {
		return res, err
	}
	if err := c.post(ctx, "accounts/quiz-questions/submit/", sub, &res); err != nil {
		return res, err
	}
	c.publish()
	return res, nil
}

func (c *Client) AddStudySession(ctx context.Context, s course.StudySession) (course.StudySession, error) {
	var created course.StudySession
	if err := s.Validate(); err != nil {
		return created, err
	}
	if err := c.post(ctx, "accounts/study-sessions/", s, &created); err != nil {
		return created, err
	}
	c.publish()
	return created, nil
}

func (c *Client) StudySessions(ctx context.Context) ([]course.StudySession, error) {
	var raw []byte
	if err := c.get(ctx, "accounts/study-sessions/", &raw); err != nil {
		return nil, err
	}
	res, err := decodeList[course.StudySession](raw)
	return res.Items, err
}
