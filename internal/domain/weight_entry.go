package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeightEntry is one body-weight measurement. Logging one rebuilds the plan.
type WeightEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	WeightKg  float64            `bson:"weightKg" json:"weightKg"`
	Date      string             `bson:"date" json:"date"` // YYYY-MM-DD
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
