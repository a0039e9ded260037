package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegrow/frontend/core"
)

func TestStudySession_Validate(t *testing.T) {
	tests := []struct {
		name    string
		session StudySession
		want    map[string]string
	}{
		{
			name:    "short times are normalized",
			session: StudySession{Lesson: 3, Date: "2024-05-02", StartTime: "10:00", EndTime: "11:30"},
		},
		{
			name:    "end before start",
			session: StudySession{Lesson: 3, Date: "2024-05-02", StartTime: "11:00", EndTime: "10:00"},
			want:    map[string]string{"end_time": "end time must be after start time"},
		},
		{
			name:    "same start and end",
			session: StudySession{Lesson: 3, Date: "2024-05-02", StartTime: "11:00", EndTime: "11:00:00"},
			want:    map[string]string{"end_time": "end time must be after start time"},
		},
		{
			name:    "bad formats",
			session: StudySession{Lesson: 3, Date: "02/05/2024", StartTime: "10am", EndTime: "11:00"},
			want: map[string]string{
				"date":       "must be a date formatted as YYYY-MM-DD",
				"start_time": "must be a time formatted as HH:MM or HH:MM:SS",
			},
		},
		{
			name:    "missing lesson",
			session: StudySession{Date: "2024-05-02", StartTime: "10:00", EndTime: "11:00"},
			want:    map[string]string{"lesson": "this field is required"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.session
			err := s.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				assert.Equal(t, "10:00:00", s.StartTime)
				assert.Equal(t, "11:30:00", s.EndTime)
				return
			}
			vErr, ok := err.(*core.ValidationError)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.want, vErr.FieldMap())
		})
	}
}

func TestQuizSubmission_Validate(t *testing.T) {
	assert.Error(t, QuizSubmission{}.Validate())
	assert.NoError(t, QuizSubmission{Answers: map[string]string{"1": "b"}}.Validate())
}
