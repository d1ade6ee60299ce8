package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedMeal is a named group of foods the user can log again in one step.
type SavedMeal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Name      string             `bson:"name" json:"name"`
	Items     []TrackedFoodEntry `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
