package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxProjectsPerUser is the hard cap on concurrently owned projects.
const MaxProjectsPerUser = 4

type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`

	// TaskCount is derived at read time, never persisted.
	TaskCount int64 `bson:"-" json:"taskCount"`
}
