package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classtrack/core/project"
	"github.com/trezcool/classtrack/tests"
)

func Test_projectApi_create(t *testing.T) {
	a := setup(t)
	teacherToken := a.token(t, testutil.Teacher)
	aliceToken := a.token(t, testutil.Alice)

	body := []byte(`{"title": "Library System", "subject": "Database Management Systems", "deadline": "2025-06-01", "groupId": "g1"}`)

	rec := a.do(newAuthRequest(http.MethodPost, "/v1/projects", aliceToken, body))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(newAuthRequest(http.MethodPost, "/v1/projects", teacherToken, body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var prj project.Project
	unmarshalObj(t, rec.Body.Bytes(), &prj)
	assert.Equal(t, "Team A", prj.GroupName)
	assert.Equal(t, []string{"Alice", "Bob"}, prj.GroupStudents)
	assert.JSONEq(t, `[]`, string(marchallObj(t, prj.Submissions)))
	assert.JSONEq(t, `[]`, string(marchallObj(t, prj.Tasks)))

	rec = a.do(newAuthRequest(http.MethodPost, "/v1/projects", teacherToken, []byte(`{"title": " ", "subject": "Data Structures", "deadline": "2025-06-01", "groupId": "g1"}`)))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: []byte(`{"error": "please fill all fields", "fields": {"title": "this field is required"}}`),
	}, rec)

	rec = a.do(newAuthRequest(http.MethodGet, "/v1/projects", aliceToken))
	require.Equal(t, http.StatusOK, rec.Code)
	var all []project.Project
	unmarshalObj(t, rec.Body.Bytes(), &all)
	assert.Len(t, all, 1)
}

func Test_projectApi_detail(t *testing.T) {
	a := setup(t)
	teacherToken := a.token(t, testutil.Teacher)
	prj := testutil.CreateProject(t, a.svcs.ProjectSvc)
	path := fmt.Sprintf("/v1/projects/%d", prj.ID)

	updated := prj
	updated.Title = "Library v2"
	updated.GroupID = "g2"
	updated.GroupName = "Team B"
	updated.GroupStudents = []string{"Carol", "Dave"}

	runHTTPTests(t, a, []httpTest{
		{name: "retrieve", method: http.MethodGet, path: path, token: teacherToken, wantCode: http.StatusOK, wantData: marchallObj(t, prj)},
		{name: "invalid id", method: http.MethodGet, path: "/v1/projects/abc", token: teacherToken, wantCode: http.StatusBadRequest},
		{name: "unknown id", method: http.MethodGet, path: "/v1/projects/42", token: teacherToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "project not found"})},
		{
			name: "update by student", method: http.MethodPut, path: path, token: a.token(t, testutil.Alice),
			body:     []byte(`{"title": "Library v2", "subject": "Database Management Systems", "deadline": "2025-06-01", "groupId": "g2"}`),
			wantCode: http.StatusForbidden,
		},
		{
			name: "update", method: http.MethodPut, path: path, token: teacherToken,
			body:     []byte(`{"title": "Library v2", "subject": "Database Management Systems", "deadline": "2025-06-01", "groupId": "g2"}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, updated),
		},
		{
			name: "update unknown", method: http.MethodPut, path: "/v1/projects/42", token: teacherToken,
			body:     []byte(`{"title": "Library v2", "subject": "Database Management Systems", "deadline": "2025-06-01", "groupId": "g2"}`),
			wantCode: http.StatusNotFound,
		},
		{name: "delete unconfirmed", method: http.MethodDelete, path: path, token: teacherToken, wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "operation aborted"})},
		{name: "delete", method: http.MethodDelete, path: path + "?confirm=true", token: teacherToken, wantCode: http.StatusNoContent},
		{name: "retrieve deleted", method: http.MethodGet, path: path, token: teacherToken, wantCode: http.StatusNotFound},
	})
}

func Test_projectApi_submissions(t *testing.T) {
	a := setup(t)
	aliceToken := a.token(t, testutil.Alice)
	prj := testutil.CreateProject(t, a.svcs.ProjectSvc)
	path := fmt.Sprintf("/v1/projects/%d/submissions", prj.ID)

	// teachers do not submit projects
	rec := a.do(newUploadRequest(t, path, a.token(t, testutil.Teacher), "report.txt", []byte("report")))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(newUploadRequest(t, path, aliceToken, "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(newUploadRequest(t, path, aliceToken, "report.txt", []byte("my report")))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var got project.Project
	unmarshalObj(t, rec.Body.Bytes(), &got)
	require.Len(t, got.Submissions, 1)
	assert.Equal(t, "Alice", got.Submissions[0].StudentID)
	assert.Equal(t, "report.txt", got.Submissions[0].FileName)

	// download
	rec = a.do(newAuthRequest(http.MethodGet, path+"/Alice/file", aliceToken))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "my report", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="report.txt"`)

	rec = a.do(newAuthRequest(http.MethodGet, path+"/Alice/file", a.token(t, testutil.Bob)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = a.do(newAuthRequest(http.MethodGet, path+"/Bob/file", a.token(t, testutil.Teacher)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// summary
	rec = a.do(newAuthRequest(http.MethodGet, "/v1/projects/summary", aliceToken))
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, project.Summary{Student: "Alice", Total: 1, Submitted: 1}),
	}, rec)

	stored, err := a.svcs.ProjectSvc.Get(context.Background(), prj.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Submissions, 1)
}
