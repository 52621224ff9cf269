package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the REST surface. guard is the session middleware applied
// to every protected route.
func NewRouter(authHandler *AuthHandler, projectHandler *ProjectHandler, taskHandler *TaskHandler, guard func(http.Handler) http.Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("TaskFlow API is running"))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	auth.Handle("/me", guard(http.HandlerFunc(authHandler.Me))).Methods(http.MethodGet)
	auth.Handle("/me", guard(http.HandlerFunc(authHandler.UpdateMe))).Methods(http.MethodPut)

	projects := api.PathPrefix("/projects").Subrouter()
	projects.Use(guard)
	projects.HandleFunc("", projectHandler.ListProjects).Methods(http.MethodGet)
	projects.HandleFunc("", projectHandler.CreateProject).Methods(http.MethodPost)
	projects.HandleFunc("/{id}", projectHandler.GetProject).Methods(http.MethodGet)
	projects.HandleFunc("/{id}", projectHandler.UpdateProject).Methods(http.MethodPut)
	projects.HandleFunc("/{id}", projectHandler.DeleteProject).Methods(http.MethodDelete)
	projects.HandleFunc("/{projectId}/tasks", taskHandler.GetTasks).Methods(http.MethodGet)
	projects.HandleFunc("/{projectId}/tasks", taskHandler.CreateTask).Methods(http.MethodPost)

	tasks := api.PathPrefix("/tasks").Subrouter()
	tasks.Use(guard)
	tasks.HandleFunc("", taskHandler.GetTasksByProjectID).Methods(http.MethodGet)
	tasks.HandleFunc("/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	tasks.HandleFunc("/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	tasks.HandleFunc("/{id}/status", taskHandler.UpdateTaskStatus).Methods(http.MethodPatch)

	return r
}
