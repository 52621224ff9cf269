package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sanketrathod07/taskview/logging"
	"github.com/sanketrathod07/taskview/models"
	"github.com/sanketrathod07/taskview/repositories"
)

type TaskService struct {
	Tasks    repositories.TaskStore
	Projects repositories.ProjectStore
}

func NewTaskService(tasks repositories.TaskStore, projects repositories.ProjectStore) *TaskService {
	return &TaskService{Tasks: tasks, Projects: projects}
}

func validateTaskTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", newValidationError("Task title is required")
	}
	if len(title) > 100 {
		return "", newValidationError("Task title cannot exceed 100 characters")
	}
	return title, nil
}

func validateTaskDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if len(description) > 500 {
		return "", newValidationError("Task description cannot exceed 500 characters")
	}
	return description, nil
}

// ListTasks verifies the project belongs to the owner before returning its
// tasks, newest update first.
func (s *TaskService) ListTasks(ctx context.Context, projectID, ownerID primitive.ObjectID) ([]models.Task, error) {
	if _, err := s.Projects.FindByIDAndOwner(ctx, projectID, ownerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Tasks.FindByProjectAndOwner(ctx, projectID, ownerID)
}

// ListTasksByProject matches on the project id alone, without checking who
// owns the project. Kept for compatibility with the original surface; the
// route exposing it is a known authorization gap.
func (s *TaskService) ListTasksByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	return s.Tasks.FindByProject(ctx, projectID)
}

// CreateTask persists a task under a project the owner holds. An initial
// status of done gets a completion timestamp straight away.
func (s *TaskService) CreateTask(ctx context.Context, ownerID, projectID primitive.ObjectID, title, description string, status models.TaskStatus) (*models.Task, error) {
	if _, err := s.Projects.FindByIDAndOwner(ctx, projectID, ownerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	title, err := validateTaskTitle(title)
	if err != nil {
		return nil, err
	}
	description, err = validateTaskDescription(description)
	if err != nil {
		return nil, err
	}
	if status == "" {
		status = models.StatusTodo
	}
	if !models.ValidStatus(status) {
		return nil, newValidationError("Invalid task status")
	}

	now := time.Now()
	task := &models.Task{
		Title:         title,
		Description:   description,
		Status:        status,
		ProjectID:     projectID,
		UserID:        ownerID,
		DateCreated:   now,
		DateCompleted: models.NextDateCompleted(models.StatusTodo, status, nil),
		UpdatedAt:     now,
	}
	if err := s.Tasks.Insert(ctx, task); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s", task.ID.Hex(), projectID.Hex())
	return task, nil
}

// UpdateTask applies the fields present in the request. Title and status are
// ignored when empty, matching the original API; description is applied
// whenever the key was sent, so an explicit empty string clears it. The
// completion timestamp is recomputed before every persist.
func (s *TaskService) UpdateTask(ctx context.Context, id, ownerID primitive.ObjectID, title, description, status *string) (*models.Task, error) {
	task, err := s.Tasks.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	oldStatus := task.Status

	if title != nil && strings.TrimSpace(*title) != "" {
		validated, err := validateTaskTitle(*title)
		if err != nil {
			return nil, err
		}
		task.Title = validated
	}
	if description != nil {
		validated, err := validateTaskDescription(*description)
		if err != nil {
			return nil, err
		}
		task.Description = validated
	}
	if status != nil && *status != "" {
		next := models.TaskStatus(*status)
		if !models.ValidStatus(next) {
			return nil, newValidationError("Invalid task status")
		}
		task.Status = next
	}

	task.DateCompleted = models.NextDateCompleted(oldStatus, task.Status, task.DateCompleted)
	task.UpdatedAt = time.Now()

	if err := s.Tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

// UpdateTaskStatus sets the status as given, with no re-validation of the
// value, and recomputes the completion timestamp.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, id, ownerID primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	task, err := s.Tasks.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	oldStatus := task.Status
	task.Status = status
	task.DateCompleted = models.NextDateCompleted(oldStatus, status, task.DateCompleted)
	task.UpdatedAt = time.Now()

	if err := s.Tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_STATUS_CHANGED, Description: Task %s moved from %s to %s", task.ID.Hex(), oldStatus, status)
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id, ownerID primitive.ObjectID) error {
	if err := s.Tasks.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
