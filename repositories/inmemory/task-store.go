package inmemory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sanketrathod07/taskview/models"
	"github.com/sanketrathod07/taskview/repositories"
)

type TaskStore struct {
	mu    sync.RWMutex
	tasks map[primitive.ObjectID]models.Task

	// FailDeleteByProject makes the next DeleteByProject call fail, so tests
	// can exercise the cascade-delete failure path.
	FailDeleteByProject bool
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[primitive.ObjectID]models.Task)}
}

func (s *TaskStore) Insert(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *TaskStore) FindByIDAndOwner(_ context.Context, id, ownerID primitive.ObjectID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, repositories.ErrNotFound
	}
	found := task
	return &found, nil
}

func (s *TaskStore) FindByProjectAndOwner(_ context.Context, projectID, ownerID primitive.ObjectID) ([]models.Task, error) {
	return s.collect(func(task models.Task) bool {
		return task.ProjectID == projectID && task.UserID == ownerID
	}), nil
}

func (s *TaskStore) FindByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	return s.collect(func(task models.Task) bool {
		return task.ProjectID == projectID
	}), nil
}

func (s *TaskStore) collect(match func(models.Task) bool) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := []models.Task{}
	for _, task := range s.tasks {
		if match(task) {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].UpdatedAt.After(tasks[j].UpdatedAt)
	})
	return tasks
}

func (s *TaskStore) CountByProject(_ context.Context, projectID primitive.ObjectID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, task := range s.tasks {
		if task.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

func (s *TaskStore) Update(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return repositories.ErrNotFound
	}
	s.tasks[task.ID] = *task
	return nil
}

func (s *TaskStore) Delete(_ context.Context, id, ownerID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok || task.UserID != ownerID {
		return repositories.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *TaskStore) DeleteByProject(_ context.Context, projectID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDeleteByProject {
		return errors.New("simulated task store failure")
	}
	for id, task := range s.tasks {
		if task.ProjectID == projectID {
			delete(s.tasks, id)
		}
	}
	return nil
}
