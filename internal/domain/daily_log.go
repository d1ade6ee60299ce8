package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DailyLog is the remote mirror of one user's day: foods, water and
// active calories burned.
type DailyLog struct {
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	Date           string             `bson:"date" json:"date"`
	WaterMl        int                `bson:"waterMl" json:"waterMl"`
	BurnedCalories int                `bson:"burnedCalories" json:"burnedCalories"`
	Items          []TrackedFoodEntry `bson:"items" json:"items"`
	SyncedAt       time.Time          `bson:"syncedAt" json:"syncedAt"`
}

// HasData reports whether the day carries anything worth persisting.
func (l *DailyLog) HasData() bool {
	return l.WaterMl > 0 || l.BurnedCalories > 0 || len(l.Items) > 0
}
