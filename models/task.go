package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "inProgress"
	StatusDone       TaskStatus = "done"
)

// ValidStatus reports whether s is one of the three board columns.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Task struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Status        TaskStatus         `bson:"status" json:"status"`
	ProjectID     primitive.ObjectID `bson:"projectId" json:"projectId"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	DateCreated   time.Time          `bson:"dateCreated" json:"dateCreated"`
	DateCompleted *time.Time         `bson:"dateCompleted,omitempty" json:"dateCompleted,omitempty"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NextDateCompleted returns the completion timestamp a task must carry after a
// status change. Entering done stamps the current time unless a timestamp is
// already present (the first completion is sticky while the task stays done);
// any status other than done clears it.
func NextDateCompleted(oldStatus, newStatus TaskStatus, dateCompleted *time.Time) *time.Time {
	if newStatus != StatusDone {
		return nil
	}
	if dateCompleted != nil {
		return dateCompleted
	}
	now := time.Now()
	return &now
}
