package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sanketrathod07/taskview/models"
	"github.com/sanketrathod07/taskview/repositories"
)

type TaskStore struct {
	collection *mongo.Collection
}

func NewTaskStore(collection *mongo.Collection) *TaskStore {
	return &TaskStore{collection: collection}
}

func (s *TaskStore) Insert(ctx context.Context, task *models.Task) error {
	result, err := s.collection.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *TaskStore) FindByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := s.collection.FindOne(ctx, bson.M{"_id": id, "userId": ownerID}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

func (s *TaskStore) FindByProjectAndOwner(ctx context.Context, projectID, ownerID primitive.ObjectID) ([]models.Task, error) {
	filter := bson.M{"projectId": projectID, "userId": ownerID}
	return s.find(ctx, filter)
}

func (s *TaskStore) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	return s.find(ctx, bson.M{"projectId": projectID})
}

func (s *TaskStore) find(ctx context.Context, filter bson.M) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return tasks, nil
}

func (s *TaskStore) CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

func (s *TaskStore) Update(ctx context.Context, task *models.Task) error {
	filter := bson.M{"_id": task.ID, "userId": task.UserID}
	result, err := s.collection.ReplaceOne(ctx, filter, task)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (s *TaskStore) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{"projectId": projectID}); err != nil {
		return fmt.Errorf("failed to delete project tasks: %w", err)
	}
	return nil
}
