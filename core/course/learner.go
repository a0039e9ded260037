package course

import (
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/codegrow/frontend/core"
)

// Progress is the learner's standing in their current pathway.
type Progress struct {
	Streak                int         `json:"streak"`
	TotalLessonsCompleted int         `json:"total_lessons_completed"`
	LastActive            null.String `json:"last_active"`
}

// Dashboard is what accounts/dashboard/ answers: where the learner is and what comes next.
type Dashboard struct {
	CurrentLesson      *Lesson        `json:"current_lesson"`
	RecommendedLessons []Lesson       `json:"recommended_lessons"`
	StudySessions      []StudySession `json:"study_sessions"`
	Progress           Progress       `json:"progress"`
}

// CodeRun is a snippet sent to the code runner, in the context of a lesson.
type CodeRun struct {
	Code     string `json:"code" validate:"required"`
	LessonID int64  `json:"lesson_id" validate:"required,gt=0"`
}

// Validate trims the surrounding blank lines only, indentation is significant.
func (r *CodeRun) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	return core.TranslateValidationErrors(validate.Struct(r), translator)
}

// CodeOutput is stdout, or stderr when stdout is empty, of a CodeRun.
type CodeOutput struct {
	Output string `json:"output"`
	Lesson string `json:"lesson"`
}

// FeedbackRequest asks the AI for a review of a lesson's code. With ExpectedOutput set,
// the review targets the gap between the expected and the actual output.
type FeedbackRequest struct {
	Code           string `json:"code" validate:"required"`
	LessonID       int64  `json:"lesson_id,omitempty"`
	ExpectedOutput string `json:"expected_output,omitempty"`
	UserOutput     string `json:"user_output,omitempty"`
	Question       string `json:"question,omitempty"`
}

func (r *FeedbackRequest) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	return core.TranslateValidationErrors(validate.Struct(r), translator)
}

// Targeted reports whether the request compares outputs.
func (r FeedbackRequest) Targeted() bool {
	return r.ExpectedOutput != ""
}

// AssistantQuestion is a question to the lesson assistant about the learner's current step.
type AssistantQuestion struct {
	LessonID       int64  `json:"lessonId" validate:"required,gt=0"`
	CurrentStep    int    `json:"currentStep"`
	UserCode       string `json:"userCode"`
	ExpectedOutput string `json:"expectedOutput"`
	Question       string `json:"question" validate:"required"`
}

// Validate defaults the step to the first one.
func (q *AssistantQuestion) Validate() error {
	q.Question = core.CleanString(q.Question)
	if q.CurrentStep < 1 {
		q.CurrentStep = 1
	}
	return core.TranslateValidationErrors(validate.Struct(q), translator)
}
