package main

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codegrow/frontend/core"
)

// handleItem answers GET with body and echoes PUT bodies back with the id set.
func (api *fakeAPI) handleItem(pattern string, id int64, body string) {
	api.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPut {
			var data map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&data)
			data["id"] = id
			_ = json.NewEncoder(w).Encode(data)
			return
		}
		_, _ = io.WriteString(w, body)
	})
}

func (api *fakeAPI) callCount() int {
	api.mu.Lock()
	defer api.mu.Unlock()
	return len(api.calls)
}

func Test_commandLine_usersUpdate(t *testing.T) {
	api := newFakeAPI(t)
	api.handleItem("/api/admin/users/4/", 4,
		`{"id": 4, "username": "bob", "email": "bob@codegrow.io", "first_name": "Bob", "is_active": true, "role": "student"}`)
	cli, out := setup(t, api, adminCreds)

	assert.Equal(t, errHelp, cli.run([]string{"admin", "users", "update"}))
	assert.EqualError(t, cli.run([]string{"admin", "users", "update", "bob"}), `invalid id "bob"`)

	require.NoError(t, cli.run([]string{"admin", "users", "update", "4", "-last-name", "Marley", "-role", "admin"}))
	assert.Equal(t, apiCall{
		method: http.MethodPut,
		path:   "/api/admin/users/4/",
		body: map[string]interface{}{
			"username":   "bob",
			"email":      "bob@codegrow.io",
			"first_name": "Bob",
			"last_name":  "Marley",
			"role":       "admin",
			"is_active":  true,
		},
	}, api.lastCall())
	assert.Contains(t, out.String(), "User 4 (bob) updated.")

	before := api.callCount()
	err := cli.run([]string{"admin", "users", "update", "4", "-email", "nope"})
	verr, ok := err.(*core.ValidationError)
	require.True(t, ok, "%v", err)
	assert.Contains(t, verr.FieldMap(), "email")
	assert.Equal(t, before+1, api.callCount(), "only the current user is fetched")
}

func Test_commandLine_pathwaysWrite(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("/api/admin/pathways/", 201, `{"id": 7, "title": "Python"}`)
	api.handleItem("/api/admin/pathways/7/", 7,
		`{"id": 7, "title": "Python", "description": "Basics", "difficulty_level": "Beginner", "is_active": true, "estimated_hours": 10}`)
	cli, out := setup(t, api, adminCreds)

	err := cli.run([]string{"admin", "pathways", "create", "-title", "Python"})
	verr, ok := err.(*core.ValidationError)
	require.True(t, ok, "%v", err)
	assert.Equal(t, map[string]string{
		"description":      "this field is required",
		"difficulty_level": "this field is required",
	}, verr.FieldMap())
	assert.Equal(t, 0, api.callCount(), "invalid forms are not sent")

	require.NoError(t, cli.run([]string{"admin", "pathways", "create",
		"-title", "Python", "-description", "Basics", "-level", "Beginner", "-hours", "10", "-active"}))
	assert.Equal(t, apiCall{
		method: http.MethodPost,
		path:   "/api/admin/pathways/",
		body: map[string]interface{}{
			"title":            "Python",
			"description":      "Basics",
			"difficulty_level": "Beginner",
			"is_active":        true,
			"estimated_hours":  float64(10),
		},
	}, api.lastCall())
	assert.Contains(t, out.String(), "Pathway 7 (Python) created.")

	require.NoError(t, cli.run([]string{"admin", "pathways", "update", "7", "-level", "Intermediate", "-active=false"}))
	assert.Equal(t, apiCall{
		method: http.MethodPut,
		path:   "/api/admin/pathways/7/",
		body: map[string]interface{}{
			"title":            "Python",
			"description":      "Basics",
			"difficulty_level": "Intermediate",
			"is_active":        false,
			"estimated_hours":  float64(10),
		},
	}, api.lastCall(), "the flags not given keep the current values")
	assert.Contains(t, out.String(), "Pathway 7 (Python) updated.")
}

func Test_commandLine_lessonsWrite(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("/api/admin/lessons/", 201, `{"id": 3, "title": "Loops"}`)
	api.handleItem("/api/admin/lessons/3/", 3, `{
		"id": 3, "title": "Loops", "content": "<p>for</p>", "pathway": 7, "order": 2,
		"difficulty_level": "Beginner", "estimated_minutes": 15, "is_published": true
	}`)
	cli, out := setup(t, api, adminCreds)

	content := filepath.Join(t.TempDir(), "loops.html")
	require.NoError(t, os.WriteFile(content, []byte("<p>while</p>\n"), 0o600))

	require.NoError(t, cli.run([]string{"admin", "lessons", "create",
		"-pathway", "7", "-title", "Loops", "-level", "Beginner", "-content-file", content}))
	call := api.lastCall()
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "<p>while</p>", call.body["content"])
	assert.Equal(t, float64(7), call.body["pathway"])
	assert.Contains(t, out.String(), "Lesson 3 (Loops) created.")

	require.NoError(t, cli.run([]string{"admin", "lessons", "update", "3", "-title", "While loops", "-published=false"}))
	assert.Equal(t, apiCall{
		method: http.MethodPut,
		path:   "/api/admin/lessons/3/",
		body: map[string]interface{}{
			"pathway":           float64(7),
			"title":             "While loops",
			"order":             float64(2),
			"difficulty_level":  "Beginner",
			"estimated_minutes": float64(15),
			"is_published":      false,
			"content":           "<p>for</p>",
		},
	}, api.lastCall())
	assert.Contains(t, out.String(), "Lesson 3 (While loops) updated.")

	err := cli.run([]string{"admin", "lessons", "update", "3", "-content-file", filepath.Join(t.TempDir(), "missing.html")})
	assert.Error(t, err)
}

func Test_commandLine_listAll(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/admin/lessons/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			_, _ = io.WriteString(w, `{"count": 12, "results": [{"id": 11, "title": "Recursion"}, {"id": 12, "title": "Closures"}]}`)
			return
		}
		_, _ = io.WriteString(w, `{"count": 12, "results": [{"id": 1, "title": "Variables"}]}`)
	})
	cli, out := setup(t, api, adminCreds)

	require.NoError(t, cli.run([]string{"admin", "lessons", "list"}))
	assert.Equal(t, 1, api.callCount())
	assert.NotContains(t, out.String(), "Recursion")

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "lessons", "list", "-all"}))
	assert.Equal(t, 3, api.callCount())
	assert.Contains(t, api.lastCall().query, "page=2")
	assert.Contains(t, out.String(), "Variables")
	assert.Contains(t, out.String(), "Closures")
	assert.Contains(t, out.String(), "page 1/2 (12 total)")
	assert.Contains(t, out.String(), "page 2/2 (12 total)")
}

func mergedRecords(t *testing.T) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "codegrow_feed_merged_records_total" {
			return f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func Test_commandLine_feedMetrics(t *testing.T) {
	api := newFakeAPI(t)
	api.handle("/api/accounts/activities/", 200, activities)
	cli, _ := setup(t, api, adminCreds)

	before := mergedRecords(t)
	require.NoError(t, cli.run([]string{"admin", "feed"}))
	assert.Equal(t, before+1, mergedRecords(t))
	assert.Equal(t, 1, api.callCount(), "the feed is fetched once")
}
