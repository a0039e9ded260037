package course

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegrow/frontend/core"
	"github.com/codegrow/frontend/core/collection"
)

func TestLesson_Decode(t *testing.T) {
	raw := `{"id": 9, "title": "Loops", "pathway": null, "order": 3, "difficulty_level": "Beginner",
		"is_published": true, "content": "<p>for</p>", "code_snippet": null}`
	var lesson Lesson
	require.NoError(t, json.Unmarshal([]byte(raw), &lesson))
	assert.Equal(t, int64(9), lesson.ItemID())
	assert.Equal(t, "-", lesson.PathwayLabel())
	assert.False(t, lesson.CodeSnippet.Valid)
	assert.Nil(t, lesson.Exercise)

	lesson.Pathway.SetValid(2)
	assert.Equal(t, "#2", lesson.PathwayLabel())
}

func TestWithField(t *testing.T) {
	p, err := Pathway{ID: 1}.WithField("is_active", true)
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	_, err = Pathway{ID: 1}.WithField("is_published", true)
	assert.Equal(t, collection.ErrUnknownField, err)

	l, err := Lesson{ID: 1, IsPublished: true}.WithField("is_published", false)
	require.NoError(t, err)
	assert.False(t, l.IsPublished)
	_, err = Lesson{ID: 1}.WithField("is_active", true)
	assert.Equal(t, collection.ErrUnknownField, err)
}

func TestPathwayForm_Validate(t *testing.T) {
	tests := []struct {
		name string
		form PathwayForm
		want map[string]string
	}{
		{
			name: "valid",
			form: PathwayForm{Title: " Python ", Description: "Basics", DifficultyLevel: "beginner", EstimatedHours: 4},
		},
		{
			name: "missing fields",
			form: PathwayForm{Title: "  ", DifficultyLevel: "Guru"},
			want: map[string]string{
				"title":            "this field is required",
				"description":      "this field is required",
				"difficulty_level": "must be one of: Beginner, Intermediate, Advanced",
			},
		},
		{
			name: "bad thumbnail",
			form: PathwayForm{Title: "Go", Description: "Gophers", DifficultyLevel: "Advanced", ThumbnailURL: "not a url"},
			want: map[string]string{"thumbnail_url": "thumbnail_url must be a valid URL"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			vErr, ok := err.(*core.ValidationError)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.want, vErr.FieldMap())
		})
	}
}

func TestLessonForm_Validate(t *testing.T) {
	form := LessonForm{Title: "Loops", DifficultyLevel: "Beginner", Content: " "}
	vErr, ok := form.Validate().(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"pathway": "this field is required",
		"content": "this field is required",
	}, vErr.FieldMap())

	form = LessonForm{Pathway: 2, Title: "Loops", DifficultyLevel: "Beginner", LearningGoal: "School", Content: "<p>for</p>"}
	assert.NoError(t, form.Validate())
}
