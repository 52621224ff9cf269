package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sanketrathod07/taskview/models"
)

// ErrNotFound is returned by every store when no document matches the filter.
// Ownership-scoped lookups fold "exists but belongs to someone else" into the
// same error so callers cannot tell the difference.
var ErrNotFound = errors.New("document not found")

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type ProjectStore interface {
	Insert(ctx context.Context, project *models.Project) error
	// FindByOwner returns the owner's projects ordered by creation time, newest first.
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Project, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Project, error)
	CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
}

type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) error
	FindByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Task, error)
	// FindByProjectAndOwner returns the owner's tasks for a project ordered by
	// last update, newest first.
	FindByProjectAndOwner(ctx context.Context, projectID, ownerID primitive.ObjectID) ([]models.Task, error)
	// FindByProject matches on the project alone, without ownership scoping.
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
	CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error
}
