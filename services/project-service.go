package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sanketrathod07/taskview/logging"
	"github.com/sanketrathod07/taskview/models"
	"github.com/sanketrathod07/taskview/repositories"
)

type ProjectService struct {
	Projects repositories.ProjectStore
	Tasks    repositories.TaskStore
}

func NewProjectService(projects repositories.ProjectStore, tasks repositories.TaskStore) *ProjectService {
	return &ProjectService{Projects: projects, Tasks: tasks}
}

func validateProjectName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newValidationError("Project name is required")
	}
	if len(name) > 50 {
		return "", newValidationError("Project name cannot exceed 50 characters")
	}
	return name, nil
}

func validateProjectDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if len(description) > 200 {
		return "", newValidationError("Description cannot exceed 200 characters")
	}
	return description, nil
}

// ListProjects returns the owner's projects, newest first, each annotated
// with its live task count.
func (s *ProjectService) ListProjects(ctx context.Context, ownerID primitive.ObjectID) ([]models.Project, error) {
	projects, err := s.Projects.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		count, err := s.Tasks.CountByProject(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].TaskCount = count
	}
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Project, error) {
	project, err := s.Projects.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	count, err := s.Tasks.CountByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	project.TaskCount = count
	return project, nil
}

// CreateProject enforces the per-owner quota before inserting. The count and
// the insert are separate store calls, so two concurrent creates at exactly
// MaxProjectsPerUser-1 can both pass; see DESIGN.md.
func (s *ProjectService) CreateProject(ctx context.Context, ownerID primitive.ObjectID, name, description string) (*models.Project, error) {
	count, err := s.Projects.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxProjectsPerUser {
		return nil, ErrQuotaExceeded
	}

	name, err = validateProjectName(name)
	if err != nil {
		return nil, err
	}
	description, err = validateProjectDescription(description)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	project := &models.Project{
		Name:        name,
		Description: description,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Projects.Insert(ctx, project); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created for user %s", project.ID.Hex(), ownerID.Hex())
	return project, nil
}

// UpdateProject changes name and description only; nil fields are left
// untouched.
func (s *ProjectService) UpdateProject(ctx context.Context, id, ownerID primitive.ObjectID, name, description *string) (*models.Project, error) {
	project, err := s.Projects.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if name != nil {
		validated, err := validateProjectName(*name)
		if err != nil {
			return nil, err
		}
		project.Name = validated
	}
	if description != nil {
		validated, err := validateProjectDescription(*description)
		if err != nil {
			return nil, err
		}
		project.Description = validated
	}
	project.UpdatedAt = time.Now()

	if err := s.Projects.Update(ctx, project); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	count, err := s.Tasks.CountByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	project.TaskCount = count
	return project, nil
}

// DeleteProject removes the project's tasks first, then the project itself.
// If the task deletion fails the project is left in place and the whole
// operation fails.
func (s *ProjectService) DeleteProject(ctx context.Context, id, ownerID primitive.ObjectID) error {
	project, err := s.Projects.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.Tasks.DeleteByProject(ctx, project.ID); err != nil {
		return fmt.Errorf("failed to delete project tasks: %w", err)
	}

	if err := s.Projects.Delete(ctx, project.ID, ownerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s and its tasks deleted for user %s", project.ID.Hex(), ownerID.Hex())
	return nil
}
