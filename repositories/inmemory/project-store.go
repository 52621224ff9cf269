package inmemory

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sanketrathod07/taskview/models"
	"github.com/sanketrathod07/taskview/repositories"
)

type ProjectStore struct {
	mu       sync.RWMutex
	projects map[primitive.ObjectID]models.Project
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{projects: make(map[primitive.ObjectID]models.Project)}
}

func (s *ProjectStore) Insert(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	s.projects[project.ID] = *project
	return nil
}

func (s *ProjectStore) FindByOwner(_ context.Context, ownerID primitive.ObjectID) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projects := []models.Project{}
	for _, project := range s.projects {
		if project.UserID == ownerID {
			projects = append(projects, project)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (s *ProjectStore) FindByIDAndOwner(_ context.Context, id, ownerID primitive.ObjectID) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[id]
	if !ok || project.UserID != ownerID {
		return nil, repositories.ErrNotFound
	}
	found := project
	return &found, nil
}

func (s *ProjectStore) CountByOwner(_ context.Context, ownerID primitive.ObjectID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, project := range s.projects {
		if project.UserID == ownerID {
			count++
		}
	}
	return count, nil
}

func (s *ProjectStore) Update(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.projects[project.ID]
	if !ok || existing.UserID != project.UserID {
		return repositories.ErrNotFound
	}
	s.projects[project.ID] = *project
	return nil
}

func (s *ProjectStore) Delete(_ context.Context, id, ownerID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	project, ok := s.projects[id]
	if !ok || project.UserID != ownerID {
		return repositories.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}
