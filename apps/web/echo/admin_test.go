package echoweb

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// handleItem answers GET and PUT with body and DELETE with 204.
func (up *upstream) handleItem(pattern, body string) {
	up.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	})
}

func TestAdminItemRoutes(t *testing.T) {
	up := newUpstream(t)
	for _, res := range []string{"users", "pathways", "lessons"} {
		up.handle("/api/admin/"+res+"/", 200, `{"count": 1, "results": [{"id": 4}]}`)
		up.handleItem("/api/admin/"+res+"/4/", `{"id": 4}`)
	}
	s := setup(t, up)
	token := getToken(t, s, adminCreds)

	for _, res := range []string{"users", "pathways", "lessons"} {
		t.Run(res, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/admin/"+res+"/4", token, "")
			s.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, upstreamCall{method: http.MethodGet, path: "/api/admin/" + res + "/4/", auth: "Token up-admin"}, up.lastCall())

			req, rec = newAuthRequest(http.MethodDelete, "/v1/admin/"+res+"/4", token, "")
			s.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.JSONEq(t, `{"items": [], "count": 0, "page_size": 10, "current_page": 1, "total_pages": 0}`, rec.Body.String())
			assert.Equal(t, upstreamCall{method: http.MethodDelete, path: "/api/admin/" + res + "/4/", auth: "Token up-admin"}, up.lastCall())
		})
	}
}

func TestAdminToggleUnknownItem(t *testing.T) {
	up := newUpstream(t)
	up.handle("/api/admin/lessons/", 200, `{"count": 1, "results": [{"id": 4, "title": "Loops", "is_published": false}]}`)
	up.handle("/api/admin/lessons/9/", 200, `{}`)
	s := setup(t, up)

	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/lessons/9/publish", getToken(t, s, adminCreds), `{"is_published": true}`)
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, upstreamCall{
		method: http.MethodPatch,
		path:   "/api/admin/lessons/9/",
		auth:   "Token up-admin",
		body:   map[string]interface{}{"is_published": true},
	}, up.lastCall())
	assert.Contains(t, rec.Body.String(), `"is_published":false`, "items off the page are left untouched")
}

func TestAdminWrites(t *testing.T) {
	up := newUpstream(t)
	up.mux.HandleFunc("/api/admin/users/4/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPut {
			var data map[string]interface{}
			_ = json.NewDecoder(r.Body).Decode(&data)
			data["id"] = 4
			_ = json.NewEncoder(w).Encode(data)
			return
		}
		_, _ = io.WriteString(w, `{"id": 4, "username": "bob", "email": "bob@codegrow.io", "is_active": true, "role": "student"}`)
	})
	up.handle("/api/admin/pathways/", 201, `{"id": 7, "title": "Python", "difficulty_level": "Beginner"}`)
	up.handle("/api/admin/lessons/3/", 200, `{"id": 3, "title": "Loops"}`)
	s := setup(t, up)

	runHTTPTests(t, s, []httpTest{
		{
			name:     "pathway without fields",
			method:   http.MethodPost,
			path:     "/v1/admin/pathways",
			body:     `{}`,
			creds:    &adminCreds,
			wantCode: http.StatusBadRequest,
			wantBody: `{
				"title": "this field is required",
				"description": "this field is required",
				"difficulty_level": "this field is required"
			}`,
		},
		{
			name:     "pathway with unknown level",
			method:   http.MethodPost,
			path:     "/v1/admin/pathways",
			body:     `{"title": "Python", "description": "Basics", "difficulty_level": "Expert"}`,
			creds:    &adminCreds,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "lesson update without content",
			method:   http.MethodPut,
			path:     "/v1/admin/lessons/3",
			body:     `{"pathway": 7, "title": "Loops", "difficulty_level": "Beginner"}`,
			creds:    &adminCreds,
			wantCode: http.StatusBadRequest,
			wantBody: `{"content": "this field is required"}`,
		},
		{
			name:     "user with invalid email",
			method:   http.MethodPut,
			path:     "/v1/admin/users/4",
			body:     `{"email": "nope"}`,
			creds:    &adminCreds,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "user not found",
			method:   http.MethodPut,
			path:     "/v1/admin/users/5",
			body:     `{"first_name": "Bobby"}`,
			creds:    &adminCreds,
			wantCode: http.StatusNotFound,
		},
	})

	token := getToken(t, s, adminCreds)

	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/pathways", token,
		`{"title": " Python ", "description": "Basics", "difficulty_level": "Beginner", "estimated_hours": 10}`)
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"id":7`)
	call := up.lastCall()
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "Python", call.body["title"])
	assert.Equal(t, float64(10), call.body["estimated_hours"])

	req, rec = newAuthRequest(http.MethodPut, "/v1/admin/users/4", token, `{"first_name": "Robert"}`)
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, upstreamCall{
		method: http.MethodPut,
		path:   "/api/admin/users/4/",
		auth:   "Token up-admin",
		body: map[string]interface{}{
			"username":   "bob",
			"email":      "bob@codegrow.io",
			"first_name": "Robert",
			"last_name":  "",
			"role":       "student",
			"is_active":  true,
		},
	}, up.lastCall(), "unset fields keep their current values")
	assert.Contains(t, rec.Body.String(), `"first_name":"Robert"`)
}
