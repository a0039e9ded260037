// Package course holds the learning content managed from the admin screens: pathways and their lessons.
package course

import (
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/codegrow/frontend/core"
	"github.com/codegrow/frontend/core/collection"
)

// Filters accepted by admin/pathways/ and admin/lessons/.
const (
	FilterDifficultyLevel = "difficulty_level"
	FilterIsActive        = "is_active"
	FilterPathway         = "pathway"
	FilterIsPublished     = "is_published"
	FilterLearningGoal    = "learning_goal"
)

var (
	PathwayFilters = []string{FilterDifficultyLevel, FilterIsActive}
	LessonFilters  = []string{FilterPathway, FilterDifficultyLevel, FilterIsPublished, FilterLearningGoal}
)

// initialized before any init func, which register struct level rules on it
var validate, translator = core.NewValidator()

type Pathway struct {
	ID                 int64       `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	DifficultyLevel    string      `json:"difficulty_level"`
	IsActive           bool        `json:"is_active"`
	EstimatedHours     null.Int    `json:"estimated_hours"`
	Prerequisites      null.String `json:"prerequisites"`
	LearningObjectives null.String `json:"learning_objectives"`
	ThumbnailURL       null.String `json:"thumbnail_url"`
	LessonCount        null.Int    `json:"lesson_count"`
}

var _ collection.Toggler[Pathway] = Pathway{}

func (p Pathway) ItemID() int64 { return p.ID }

func (p Pathway) WithField(field string, value interface{}) (Pathway, error) {
	b, ok := value.(bool)
	if !ok || field != "is_active" {
		return p, collection.ErrUnknownField
	}
	p.IsActive = b
	return p, nil
}

// Exercise is the code runner challenge attached to a lesson.
type Exercise struct {
	Language     string `json:"language"`
	Instructions string `json:"instructions"`
	StarterCode  string `json:"starter_code"`
	SolutionCode string `json:"solution_code"`
	TestCode     string `json:"test_code"`
}

type Lesson struct {
	ID               int64       `json:"id"`
	Title            string      `json:"title"`
	Description      null.String `json:"description"`
	Content          null.String `json:"content"`
	Pathway          null.Int64  `json:"pathway"`
	Order            int         `json:"order"`
	DifficultyLevel  string      `json:"difficulty_level"`
	LearningGoal     null.String `json:"learning_goal"`
	EstimatedMinutes null.Int    `json:"estimated_minutes"`
	IsPublished      bool        `json:"is_published"`
	CodeSnippet      null.String `json:"code_snippet"`
	Exercise         *Exercise   `json:"exercise,omitempty"`
}

var _ collection.Toggler[Lesson] = Lesson{}

func (l Lesson) ItemID() int64 { return l.ID }

func (l Lesson) WithField(field string, value interface{}) (Lesson, error) {
	b, ok := value.(bool)
	if !ok || field != "is_published" {
		return l, collection.ErrUnknownField
	}
	l.IsPublished = b
	return l, nil
}

// PathwayLabel names the pathway a lesson belongs to, for list output.
func (l Lesson) PathwayLabel() string {
	if !l.Pathway.Valid {
		return "-"
	}
	return "#" + strconv.FormatInt(l.Pathway.Int64, 10)
}

// PathwayForm is what an admin submits to create or replace a Pathway.
type PathwayForm struct {
	Title              string `json:"title" validate:"required,max=255"`
	Description        string `json:"description" validate:"required"`
	DifficultyLevel    string `json:"difficulty_level" validate:"required,difficulty"`
	IsActive           bool   `json:"is_active"`
	EstimatedHours     int    `json:"estimated_hours" validate:"gte=0"`
	Prerequisites      string `json:"prerequisites,omitempty"`
	LearningObjectives string `json:"learning_objectives,omitempty"`
	ThumbnailURL       string `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
}

func (f *PathwayForm) Validate() error {
	f.Title = core.CleanString(f.Title)
	f.Description = core.CleanString(f.Description)
	f.DifficultyLevel = core.CleanString(f.DifficultyLevel)
	f.ThumbnailURL = core.CleanString(f.ThumbnailURL)
	return core.TranslateValidationErrors(validate.Struct(f), translator)
}

// LessonForm is what an admin submits to create or replace a Lesson.
type LessonForm struct {
	Pathway          int64     `json:"pathway" validate:"required,gt=0"`
	Title            string    `json:"title" validate:"required,max=255"`
	Order            int       `json:"order" validate:"gte=0"`
	DifficultyLevel  string    `json:"difficulty_level" validate:"required,difficulty"`
	LearningGoal     string    `json:"learning_goal,omitempty" validate:"omitempty,goal"`
	EstimatedMinutes int       `json:"estimated_minutes" validate:"gte=0"`
	IsPublished      bool      `json:"is_published"`
	Content          string    `json:"content" validate:"required"`
	CodeSnippet      string    `json:"code_snippet,omitempty"`
	Exercise         *Exercise `json:"exercise,omitempty"`
}

func (f *LessonForm) Validate() error {
	f.Title = core.CleanString(f.Title)
	f.Content = core.CleanString(f.Content)
	f.DifficultyLevel = core.CleanString(f.DifficultyLevel)
	f.LearningGoal = core.CleanString(f.LearningGoal)
	return core.TranslateValidationErrors(validate.Struct(f), translator)
}

// Form returns the form that would recreate p, the starting point of an update.
func (p Pathway) Form() PathwayForm {
	return PathwayForm{
		Title:              p.Title,
		Description:        p.Description,
		DifficultyLevel:    p.DifficultyLevel,
		IsActive:           p.IsActive,
		EstimatedHours:     p.EstimatedHours.Int,
		Prerequisites:      p.Prerequisites.String,
		LearningObjectives: p.LearningObjectives.String,
		ThumbnailURL:       p.ThumbnailURL.String,
	}
}

// Form returns the form that would recreate l, the starting point of an update.
func (l Lesson) Form() LessonForm {
	return LessonForm{
		Pathway:          l.Pathway.Int64,
		Title:            l.Title,
		Order:            l.Order,
		DifficultyLevel:  l.DifficultyLevel,
		LearningGoal:     l.LearningGoal.String,
		EstimatedMinutes: l.EstimatedMinutes.Int,
		IsPublished:      l.IsPublished,
		Content:          l.Content.String,
		CodeSnippet:      l.CodeSnippet.String,
		Exercise:         l.Exercise,
	}
}
