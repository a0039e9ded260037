package apisvc

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegrow/frontend/core"
	"github.com/codegrow/frontend/core/course"
	"github.com/codegrow/frontend/core/user"
)

func TestClient_LearnerLessons(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("/api/accounts/lessons/", 200, `[{"id": 1, "title": "Variables"}, {"id": 2, "title": "Loops"}]`)
	api.handle("/api/accounts/recommended-lessons/", 200, `{"results": [{"id": 2, "title": "Loops"}]}`)
	api.handle("/api/accounts/lessons/2/", 200, `{"id": 2, "title": "Loops", "content": "<p>for</p>"}`)
	api.handle("/api/accounts/check-lesson-completion/2/", 200, `{"completed": true}`)
	client, _, _ := newTestClient(t, api, "tok")
	ctx := context.Background()

	lessons, err := client.MyLessons(ctx)
	require.NoError(t, err)
	assert.Len(t, lessons, 2)

	lessons, err = client.RecommendedLessons(ctx)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "Loops", lessons[0].Title)

	l, err := client.LearnerLesson(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "<p>for</p>", l.Content.String)

	done, err := client.LessonCompleted(ctx, 2)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, recorded{Method: http.MethodGet, Path: "/api/accounts/check-lesson-completion/2/", Auth: "Token tok"}, api.last())

	_, err = client.LearnerLesson(ctx, 0)
	assert.Equal(t, course.ErrInvalidLesson, err)
	_, err = client.LessonCompleted(ctx, -1)
	assert.Equal(t, course.ErrInvalidLesson, err)
}

func TestClient_Dashboard(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("/api/accounts/dashboard/", 200, `{"current_lesson": {"id": 2, "title": "Loops"}, "progress": {"streak": 3}}`)
	client, _, _ := newTestClient(t, api, "tok")

	d, err := client.Dashboard(context.Background())
	require.NoError(t, err)
	require.NotNil(t, d.CurrentLesson)
	assert.Equal(t, int64(2), d.CurrentLesson.ID)
	assert.Equal(t, 3, d.Progress.Streak)
	assert.NotNil(t, d.RecommendedLessons)
	assert.NotNil(t, d.StudySessions)
}

func TestClient_RunCode(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("/api/accounts/run-code/", 200, `{"output": "3\n", "lesson": "Loops"}`)
	client, _, _ := newTestClient(t, api, "tok")

	_, err := client.RunCode(context.Background(), course.CodeRun{Code: " \n", LessonID: 2})
	verr, ok := err.(*core.ValidationError)
	require.True(t, ok, "%v", err)
	assert.Equal(t, map[string]string{"code": "this field is required"}, verr.FieldMap())

	out, err := client.RunCode(context.Background(), course.CodeRun{Code: "\nprint(1 + 2)\n", LessonID: 2})
	require.NoError(t, err)
	assert.Equal(t, "3\n", out.Output)
	assert.Equal(t, recorded{
		Method: http.MethodPost,
		Path:   "/api/accounts/run-code/",
		Auth:   "Token tok",
		Body:   map[string]interface{}{"code": "print(1 + 2)", "lesson_id": float64(2)},
	}, api.last())
}

func TestClient_Feedback(t *testing.T) {
	tests := []struct {
		name     string
		req      course.FeedbackRequest
		path     string
		response string
		want     string
	}{
		{
			name:     "general review",
			req:      course.FeedbackRequest{Code: "print(1)"},
			path:     "/api/accounts/ai-feedback/",
			response: `{"feedback": [{"generated_text": "Looks fine."}]}`,
			want:     "Looks fine.",
		},
		{
			name:     "nothing generated",
			req:      course.FeedbackRequest{Code: "print(1)"},
			path:     "/api/accounts/ai-feedback/",
			response: `{"feedback": []}`,
		},
		{
			name:     "output review",
			req:      course.FeedbackRequest{Code: "print(1)", LessonID: 2, ExpectedOutput: "2", UserOutput: "1"},
			path:     "/api/accounts/lesson-feedback/",
			response: `{"feedback": "Add one."}`,
			want:     "Add one.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.handle(tt.path, 200, tt.response)
			client, _, _ := newTestClient(t, api, "tok")

			got, err := client.Feedback(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.path, api.last().Path)
		})
	}
}

func TestClient_Ask(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("/api/accounts/lesson-assistant/", 200, `{"response": "Use range."}`)
	client, _, _ := newTestClient(t, api, "tok")

	answer, err := client.Ask(context.Background(), course.AssistantQuestion{LessonID: 2, Question: " How? "})
	require.NoError(t, err)
	assert.Equal(t, "Use range.", answer)
	assert.Equal(t, map[string]interface{}{
		"lessonId":       float64(2),
		"currentStep":    float64(1),
		"userCode":       "",
		"expectedOutput": "",
		"question":       "How?",
	}, api.last().Body)
}

func TestClient_SetLearningPath(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/accounts/profile/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPatch {
			_, _ = w.Write([]byte(`{"username": "ada", "learning_goal": "School", "difficulty_level": "Beginner"}`))
			return
		}
		_, _ = w.Write([]byte(`{"username": "ada", "learning_goal": null, "difficulty_level": null}`))
	})
	client, _, _ := newTestClient(t, api, "tok")
	ctx := context.Background()

	_, err := client.SetLearningPath(ctx, user.LearningPath{})
	verr, ok := err.(*core.ValidationError)
	require.True(t, ok, "%v", err)
	assert.Equal(t, map[string]string{"difficulty_level": "this field is required"}, verr.FieldMap())
	assert.Equal(t, http.MethodGet, api.last().Method, "nothing is sent when invalid")

	profile, err := client.SetLearningPath(ctx, user.LearningPath{DifficultyLevel: "Beginner"})
	require.NoError(t, err)
	assert.Equal(t, "School", profile.LearningGoal.String)
	assert.Equal(t, recorded{
		Method: http.MethodPatch,
		Path:   "/api/accounts/profile/",
		Auth:   "Token tok",
		Body:   map[string]interface{}{"learning_goal": "School", "difficulty_level": "Beginner"},
	}, api.last())
}

func TestClient_UpdateUserKeepsUnsetFields(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("/api/admin/users/4/", 200, `{"id": 4, "username": "bob"}`)
	client, _, _ := newTestClient(t, api, "tok")
	active := false
	orig := user.User{ID: 4, Username: "bob", Email: "bob@codegrow.io", FirstName: "Bob", IsActive: true}

	_, err := client.UpdateUser(context.Background(), orig, user.UpdateUser{LastName: "Marley", IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, recorded{
		Method: http.MethodPut,
		Path:   "/api/admin/users/4/",
		Auth:   "Token tok",
		Body: map[string]interface{}{
			"username":   "bob",
			"email":      "bob@codegrow.io",
			"first_name": "Bob",
			"last_name":  "Marley",
			"role":       "student",
			"is_active":  false,
		},
	}, api.last())
}
