package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Country   string             `bson:"country,omitempty" json:"country,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
