package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sanketrathod07/taskview/middleware"
	"github.com/sanketrathod07/taskview/models"
	"github.com/sanketrathod07/taskview/services"
)

type ProjectHandler struct {
	Service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Service: service}
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized")
	}
	return user, ok
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	projects, err := h.Service.ListProjects(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "projects": projects})
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	project, err := h.Service.GetProject(r.Context(), projectID, user.ID)
	if err != nil {
		writeServiceError(w, err, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "project": project})
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	project, err := h.Service.CreateProject(r.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		writeServiceError(w, err, "Project not found")
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"success": true, "project": project})
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	var req UpdateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	project, err := h.Service.UpdateProject(r.Context(), projectID, user.ID, req.Name, req.Description)
	if err != nil {
		writeServiceError(w, err, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "project": project})
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	projectID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Project not found")
		return
	}

	if err := h.Service.DeleteProject(r.Context(), projectID, user.ID); err != nil {
		writeServiceError(w, err, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Project deleted successfully"})
}
