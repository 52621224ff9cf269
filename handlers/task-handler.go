package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sanketrathod07/taskview/models"
	"github.com/sanketrathod07/taskview/services"
)

type TaskHandler struct {
	Service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{Service: service}
}

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	ProjectID   string `json:"projectId"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

// GetTasks lists a project's tasks after verifying the project belongs to the
// requester.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	tasks, err := h.Service.ListTasks(r.Context(), projectID, user.ID)
	if err != nil {
		writeServiceError(w, err, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "tasks": tasks})
}

// CreateTask reads the project id from the body, the way the original API
// does, even though the route also carries it as a path segment.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if req.ProjectID == "" {
		writeError(w, http.StatusBadRequest, "Project ID is required")
		return
	}
	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	task, err := h.Service.CreateTask(r.Context(), user.ID, projectID, req.Title, req.Description, models.TaskStatus(req.Status))
	if err != nil {
		writeServiceError(w, err, "Project not found")
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "task": task})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	var req UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.Service.UpdateTask(r.Context(), taskID, user.ID, req.Title, req.Description, req.Status)
	if err != nil {
		writeServiceError(w, err, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "task": task})
}

func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	var req UpdateTaskStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	task, err := h.Service.UpdateTaskStatus(r.Context(), taskID, user.ID, models.TaskStatus(req.Status))
	if err != nil {
		writeServiceError(w, err, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "task": task})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.Service.DeleteTask(r.Context(), taskID, user.ID); err != nil {
		writeServiceError(w, err, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Task deleted successfully"})
}

// GetTasksByProjectID serves the query-parameter lookup. It matches on the
// project id alone, with no ownership pre-check, mirroring the original
// surface.
func (h *TaskHandler) GetTasksByProjectID(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}

	rawID := r.URL.Query().Get("projectId")
	if rawID == "" {
		writeError(w, http.StatusBadRequest, "Project ID is required")
		return
	}
	projectID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	tasks, err := h.Service.ListTasksByProject(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "tasks": tasks})
}
