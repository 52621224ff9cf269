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

type ProjectStore struct {
	collection *mongo.Collection
}

func NewProjectStore(collection *mongo.Collection) *ProjectStore {
	return &ProjectStore{collection: collection}
}

func (s *ProjectStore) Insert(ctx context.Context, project *models.Project) error {
	result, err := s.collection.InsertOne(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *ProjectStore) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"userId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	for cursor.Next(ctx) {
		var project models.Project
		if err := cursor.Decode(&project); err != nil {
			return nil, fmt.Errorf("failed to decode project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return projects, nil
}

func (s *ProjectStore) FindByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := s.collection.FindOne(ctx, bson.M{"_id": id, "userId": ownerID}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return &project, nil
}

func (s *ProjectStore) CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{"userId": ownerID})
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

func (s *ProjectStore) Update(ctx context.Context, project *models.Project) error {
	filter := bson.M{"_id": project.ID, "userId": project.UserID}
	result, err := s.collection.ReplaceOne(ctx, filter, project)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (s *ProjectStore) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": ownerID})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
