package course

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/codegrow/frontend/core"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

func init() {
	validate.RegisterStructValidation(studySessionValidation, StudySession{})
	core.RegisterCustomTranslation(validate, translator, "endafterstart", "end time must be after start time")
	core.RegisterCustomTranslation(validate, translator, "date", "must be a date formatted as YYYY-MM-DD")
	core.RegisterCustomTranslation(validate, translator, "clock", "must be a time formatted as HH:MM or HH:MM:SS")
}

// StudySession is a block of time a learner plans on a lesson (accounts/study-sessions/).
type StudySession struct {
	ID          int64  `json:"id,omitempty"`
	Lesson      int64  `json:"lesson" validate:"required,gt=0"`
	LessonTitle string `json:"lesson_title,omitempty"`
	Date        string `json:"date" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
}

// Validate normalizes "HH:MM" times to "HH:MM:SS" and checks the session ends after it starts.
func (s *StudySession) Validate() error {
	s.Date = core.CleanString(s.Date)
	s.StartTime = normalizeClock(core.CleanString(s.StartTime))
	s.EndTime = normalizeClock(core.CleanString(s.EndTime))
	return core.TranslateValidationErrors(validate.Struct(s), translator)
}

func normalizeClock(v string) string {
	if t, err := time.Parse("15:04", v); err == nil {
		return t.Format(timeLayout)
	}
	return v
}

func studySessionValidation(sl validator.StructLevel) {
	s, ok := sl.Current().Interface().(StudySession)
	if !ok {
		return
	}
	if s.Date != "" {
		if _, err := time.Parse(dateLayout, s.Date); err != nil {
			sl.ReportError(s.Date, "date", "Date", "date", "")
		}
	}
	start, startErr := time.Parse(timeLayout, s.StartTime)
	end, endErr := time.Parse(timeLayout, s.EndTime)
	if s.StartTime != "" && startErr != nil {
		sl.ReportError(s.StartTime, "start_time", "StartTime", "clock", "")
	}
	if s.EndTime != "" && endErr != nil {
		sl.ReportError(s.EndTime, "end_time", "EndTime", "clock", "")
	}
	if startErr == nil && endErr == nil && !end.After(start) {
		sl.ReportError(s.EndTime, "end_time", "EndTime", "endafterstart", "")
	}
}

// QuizSubmission maps question ids to the chosen answer.
type QuizSubmission struct {
	Answers map[string]string `json:"answers"`
}

func (q QuizSubmission) Validate() error {
	if len(q.Answers) == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "answers", Error: "answer at least one question"})
	}
	return nil
}

type QuizResult struct {
	Correct  int `json:"correct"`
	Total    int `json:"total"`
	XPEarned int `json:"xp_earned"`
	XPTotal  int `json:"xp_total"`
	Level    int `json:"level"`
}

// LessonCompletion is what accounts/complete-lesson/:id/ answers.
type LessonCompletion struct {
	Message  string `json:"message"`
	XPEarned int    `json:"xp_earned"`
	Streak   int    `json:"streak"`
}

// ErrInvalidLesson is returned for non-positive lesson ids before any request is made.
var ErrInvalidLesson = errors.New("invalid lesson id")
