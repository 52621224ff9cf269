package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanketrathod07/taskview/handlers"
	"github.com/sanketrathod07/taskview/middleware"
	"github.com/sanketrathod07/taskview/repositories/inmemory"
	"github.com/sanketrathod07/taskview/services"
	"github.com/sanketrathod07/taskview/utils"
)

type testAPI struct {
	t      *testing.T
	router *mux.Router
	tasks  *inmemory.TaskStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, utils.InitJWTSecret())

	userStore := inmemory.NewUserStore()
	projectStore := inmemory.NewProjectStore()
	taskStore := inmemory.NewTaskStore()

	userService := services.NewUserService(userStore)
	projectService := services.NewProjectService(projectStore, taskStore)
	taskService := services.NewTaskService(taskStore, projectStore)

	router := handlers.NewRouter(
		handlers.NewAuthHandler(userService),
		handlers.NewProjectHandler(projectService),
		handlers.NewTaskHandler(taskService),
		middleware.JWTAuthMiddleware(userService),
	)

	return &testAPI{t: t, router: router, tasks: taskStore}
}

func (a *testAPI) do(method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst))
}

type userResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    struct {
		ID      string `json:"_id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Country string `json:"country"`
	} `json:"user"`
}

type projectResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Project projectBody `json:"project"`
}

type projectListResponse struct {
	Success  bool          `json:"success"`
	Projects []projectBody `json:"projects"`
}

type projectBody struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
	TaskCount   int64  `json:"taskCount"`
}

type taskResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Task    taskBody `json:"task"`
}

type taskListResponse struct {
	Success bool       `json:"success"`
	Tasks   []taskBody `json:"tasks"`
}

type taskBody struct {
	ID            string  `json:"_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	ProjectID     string  `json:"projectId"`
	DateCompleted *string `json:"dateCompleted"`
}

func (a *testAPI) register(email string) *http.Cookie {
	a.t.Helper()
	rr := a.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "secret1",
	}, nil)
	require.Equal(a.t, http.StatusCreated, rr.Code, rr.Body.String())
	return sessionCookie(a.t, rr)
}

func (a *testAPI) createProject(cookie *http.Cookie, name string) projectBody {
	a.t.Helper()
	rr := a.do(http.MethodPost, "/api/projects", map[string]string{"name": name}, cookie)
	require.Equal(a.t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp projectResponse
	decodeBody(a.t, rr, &resp)
	return resp.Project
}

func (a *testAPI) createTask(cookie *http.Cookie, projectID, title, status string) taskBody {
	a.t.Helper()
	payload := map[string]string{"title": title, "projectId": projectID}
	if status != "" {
		payload["status"] = status
	}
	rr := a.do(http.MethodPost, "/api/projects/"+projectID+"/tasks", payload, cookie)
	require.Equal(a.t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp taskResponse
	decodeBody(a.t, rr, &resp)
	return resp.Task
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "alice@x.com",
		"password": "secret1",
		"country":  "NL",
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var registered userResponse
	decodeBody(t, rr, &registered)
	assert.True(t, registered.Success)
	assert.Equal(t, "alice@x.com", registered.User.Email)
	assert.NotEmpty(t, registered.Token)

	cookie := sessionCookie(t, rr)
	assert.True(t, cookie.HttpOnly)

	// Session via cookie.
	rr = api.do(http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	// Session via bearer header.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Token)
	headerRR := httptest.NewRecorder()
	api.router.ServeHTTP(headerRR, req)
	assert.Equal(t, http.StatusOK, headerRR.Code)

	// No token, garbage token.
	rr = api.do(http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = api.do(http.MethodGet, "/api/auth/me", nil, &http.Cookie{Name: middleware.SessionCookieName, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Duplicate registration.
	rr = api.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Alice Again", "email": "alice@x.com", "password": "secret2",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Login.
	rr = api.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "alice@x.com", "password": "secret1",
	}, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "alice@x.com", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Profile update keeps email.
	rr = api.do(http.MethodPut, "/api/auth/me", map[string]string{"name": "Alice B."}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var updated userResponse
	decodeBody(t, rr, &updated)
	assert.Equal(t, "Alice B.", updated.User.Name)
	assert.Equal(t, "alice@x.com", updated.User.Email)

	// Logout clears the cookie.
	rr = api.do(http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	cleared := sessionCookie(t, rr)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestProjectQuotaScenario(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.register("alice@x.com")

	rr := api.do(http.MethodPost, "/api/projects", map[string]string{"name": "Launch"}, cookie)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created projectResponse
	decodeBody(t, rr, &created)
	assert.EqualValues(t, 0, created.Project.TaskCount)

	for i := 2; i <= 4; i++ {
		rr = api.do(http.MethodPost, "/api/projects", map[string]string{"name": fmt.Sprintf("Project %d", i)}, cookie)
		require.Equal(t, http.StatusCreated, rr.Code, "project %d must succeed", i)
	}

	rr = api.do(http.MethodPost, "/api/projects", map[string]string{"name": "Fifth"}, cookie)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var failed projectResponse
	decodeBody(t, rr, &failed)
	assert.False(t, failed.Success)
	assert.Equal(t, "You cannot create more than 4 projects", failed.Message)
}

func TestProjectLifecycle(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.register("alice@x.com")

	project := api.createProject(cookie, "Launch")

	rr := api.do(http.MethodGet, "/api/projects", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var list projectListResponse
	decodeBody(t, rr, &list)
	require.Len(t, list.Projects, 1)
	assert.Equal(t, project.ID, list.Projects[0].ID)

	rr = api.do(http.MethodPut, "/api/projects/"+project.ID, map[string]string{"name": "Relaunch"}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var updated projectResponse
	decodeBody(t, rr, &updated)
	assert.Equal(t, "Relaunch", updated.Project.Name)

	rr = api.do(http.MethodDelete, "/api/projects/"+project.ID, nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(http.MethodGet, "/api/projects/"+project.ID, nil, cookie)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Unknown fields are rejected.
	rr = api.do(http.MethodPost, "/api/projects", map[string]interface{}{"name": "x", "bogus": 1}, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCrossUserIsolation(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("alice@x.com")
	bob := api.register("bob@x.com")

	project := api.createProject(alice, "Private")
	task := api.createTask(alice, project.ID, "secret work", "")

	// Everything of Alice's answers 404 to Bob, never 401 or 403.
	for _, attempt := range []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodGet, "/api/projects/" + project.ID, nil},
		{http.MethodPut, "/api/projects/" + project.ID, map[string]string{"name": "stolen"}},
		{http.MethodDelete, "/api/projects/" + project.ID, nil},
		{http.MethodGet, "/api/projects/" + project.ID + "/tasks", nil},
		{http.MethodPut, "/api/tasks/" + task.ID, map[string]string{"title": "stolen"}},
		{http.MethodPatch, "/api/tasks/" + task.ID + "/status", map[string]string{"status": "done"}},
		{http.MethodDelete, "/api/tasks/" + task.ID, nil},
	} {
		rr := api.do(attempt.method, attempt.path, attempt.body, bob)
		assert.Equal(t, http.StatusNotFound, rr.Code, "%s %s", attempt.method, attempt.path)
	}

	// Bob cannot attach tasks to Alice's project either.
	rr := api.do(http.MethodPost, "/api/projects/"+project.ID+"/tasks",
		map[string]string{"title": "sneaky", "projectId": project.ID}, bob)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTaskStatusEndpointLifecycle(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.register("alice@x.com")
	project := api.createProject(cookie, "Launch")

	task := api.createTask(cookie, project.ID, "Draft roadmap", "todo")
	require.Nil(t, task.DateCompleted)

	rr := api.do(http.MethodPatch, "/api/tasks/"+task.ID+"/status", map[string]string{"status": "done"}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp taskResponse
	decodeBody(t, rr, &resp)
	assert.Equal(t, "done", resp.Task.Status)
	require.NotNil(t, resp.Task.DateCompleted)

	rr = api.do(http.MethodPatch, "/api/tasks/"+task.ID+"/status", map[string]string{"status": "inProgress"}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &resp)
	assert.Equal(t, "inProgress", resp.Task.Status)
	assert.Nil(t, resp.Task.DateCompleted)

	// Creating a task directly in done stamps the completion time.
	doneTask := api.createTask(cookie, project.ID, "already finished", "done")
	assert.NotNil(t, doneTask.DateCompleted)

	// Missing status is rejected.
	rr = api.do(http.MethodPatch, "/api/tasks/"+task.ID+"/status", map[string]string{}, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTaskFullUpdateSemantics(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.register("alice@x.com")
	project := api.createProject(cookie, "Launch")
	task := api.createTask(cookie, project.ID, "original", "")

	// Description set, then cleared with an explicit empty value.
	rr := api.do(http.MethodPut, "/api/tasks/"+task.ID, map[string]string{"description": "details"}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp taskResponse
	decodeBody(t, rr, &resp)
	assert.Equal(t, "details", resp.Task.Description)
	assert.Equal(t, "original", resp.Task.Title)

	rr = api.do(http.MethodPut, "/api/tasks/"+task.ID, map[string]string{"description": ""}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &resp)
	assert.Equal(t, "", resp.Task.Description)

	rr = api.do(http.MethodPut, "/api/tasks/"+task.ID, map[string]string{"status": "done"}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &resp)
	require.NotNil(t, resp.Task.DateCompleted)

	rr = api.do(http.MethodPut, "/api/tasks/"+task.ID, map[string]string{"status": "nonsense"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(http.MethodDelete, "/api/tasks/"+task.ID, nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = api.do(http.MethodDelete, "/api/tasks/"+task.ID, nil, cookie)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProjectDeleteCascade(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.register("alice@x.com")
	project := api.createProject(cookie, "Doomed")
	api.createTask(cookie, project.ID, "one", "")
	api.createTask(cookie, project.ID, "two", "")

	rr := api.do(http.MethodDelete, "/api/projects/"+project.ID, nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = api.do(http.MethodGet, "/api/tasks?projectId="+project.ID, nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var list taskListResponse
	decodeBody(t, rr, &list)
	assert.Empty(t, list.Tasks, "cascade must leave no orphan tasks")

	rr = api.do(http.MethodGet, "/api/projects/"+project.ID+"/tasks", nil, cookie)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProjectDeleteFailedCascadeIsAtomic(t *testing.T) {
	api := newTestAPI(t)
	cookie := api.register("alice@x.com")
	project := api.createProject(cookie, "Sticky")
	api.createTask(cookie, project.ID, "survivor", "")

	api.tasks.FailDeleteByProject = true
	rr := api.do(http.MethodDelete, "/api/projects/"+project.ID, nil, cookie)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var failed projectResponse
	decodeBody(t, rr, &failed)
	assert.Equal(t, "Something went wrong on the server", failed.Message, "store errors never leak")

	api.tasks.FailDeleteByProject = false
	rr = api.do(http.MethodGet, "/api/projects/"+project.ID, nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var got projectResponse
	decodeBody(t, rr, &got)
	assert.EqualValues(t, 1, got.Project.TaskCount, "project and tasks survive a failed cascade")
}

func TestLooseTaskQueryEndpoint(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("alice@x.com")
	bob := api.register("bob@x.com")
	project := api.createProject(alice, "Shared by accident")
	api.createTask(alice, project.ID, "visible", "")

	rr := api.do(http.MethodGet, "/api/tasks", nil, alice)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "missing projectId is rejected")

	rr = api.do(http.MethodGet, "/api/tasks?projectId=not-hex", nil, alice)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// The lookup skips the ownership check, so Bob sees Alice's tasks here.
	rr = api.do(http.MethodGet, "/api/tasks?projectId="+project.ID, nil, bob)
	require.Equal(t, http.StatusOK, rr.Code)
	var list taskListResponse
	decodeBody(t, rr, &list)
	assert.Len(t, list.Tasks, 1)

	// Unlike the scoped listing, which answers 404.
	rr = api.do(http.MethodGet, "/api/projects/"+project.ID+"/tasks", nil, bob)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
