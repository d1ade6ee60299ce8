package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressEventKind names something the user did that may earn XP.
type ProgressEventKind string

const (
	EventWorkoutCompleted ProgressEventKind = "workout_completed"
	EventDailyLogin       ProgressEventKind = "daily_login"
	EventPlanCreated      ProgressEventKind = "plan_created"
	EventWeightLogged     ProgressEventKind = "weight_logged"
	EventNutritionGoalMet ProgressEventKind = "nutrition_goal_met"
	EventRunCompleted     ProgressEventKind = "run_completed"

	// Recorded for the followed user when a follow is created or removed.
	EventFollowerGained ProgressEventKind = "follower_gained"
	EventFollowerLost   ProgressEventKind = "follower_lost"
)

// Valid reports whether k is a known kind.
func (k ProgressEventKind) Valid() bool {
	switch k {
	case EventWorkoutCompleted, EventDailyLogin, EventPlanCreated,
		EventWeightLogged, EventNutritionGoalMet, EventRunCompleted,
		EventFollowerGained, EventFollowerLost:
		return true
	}
	return false
}

// Social reports whether k is driven by another user's follow action. Users
// cannot report these for themselves.
func (k ProgressEventKind) Social() bool {
	return k == EventFollowerGained || k == EventFollowerLost
}

// ProgressEvent is one immutable entry of a user's progress log. XP,
// level and badges are never stored on the event; they are derived by
// folding the whole log.
type ProgressEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Kind       ProgressEventKind  `bson:"kind" json:"kind"`
	Calories   int                `bson:"calories,omitempty" json:"calories,omitempty"`
	Day        string             `bson:"day" json:"day"`             // user-local YYYY-MM-DD
	LocalHour  int                `bson:"localHour" json:"localHour"` // user-local hour of day, 0-23
	OccurredAt time.Time          `bson:"occurredAt" json:"occurredAt"`
}

// BadgeUnlock records when a badge was earned.
type BadgeUnlock struct {
	ID         string    `bson:"id" json:"id"`
	UnlockedAt time.Time `bson:"unlockedAt" json:"unlockedAt"`
}

// Progress is the materialized view of a user's event log.
type Progress struct {
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	XP                int                `bson:"xp" json:"xp"`
	Level             int                `bson:"level" json:"level"`
	LevelProgress     float64            `bson:"levelProgress" json:"levelProgress"`
	XPToNextLevel     int                `bson:"xpToNextLevel" json:"xpToNextLevel"`
	WorkoutCount      int                `bson:"totalWorkoutsCompleted" json:"totalWorkoutsCompleted"`
	CaloriesBurned    int                `bson:"totalCaloriesBurned" json:"totalCaloriesBurned"`
	PlanCount         int                `bson:"totalPlansCreated" json:"totalPlansCreated"`
	WeightEntries     int                `bson:"weightEntries" json:"weightEntries"`
	RunCount          int                `bson:"runCount" json:"runCount"`
	NutritionGoalDays int                `bson:"nutritionGoalDays" json:"nutritionGoalDays"`
	Followers         int                `bson:"followers" json:"followers"`
	EarlyBirdWorkouts int                `bson:"earlyBirdWorkouts" json:"earlyBirdWorkouts"`
	NightOwlWorkouts  int                `bson:"nightOwlWorkouts" json:"nightOwlWorkouts"`
	LoginStreak       int                `bson:"loginStreak" json:"loginStreak"`
	LongestStreak     int                `bson:"longestStreak" json:"longestStreak"`
	LastLoginDay      string             `bson:"lastLoginDate,omitempty" json:"lastLoginDate,omitempty"`
	Badges            []BadgeUnlock      `bson:"badges" json:"badges"`
	EventCount        int                `bson:"eventCount" json:"eventCount"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasBadge reports whether id is unlocked.
func (p *Progress) HasBadge(id string) bool {
	for _, b := range p.Badges {
		if b.ID == id {
			return true
		}
	}
	return false
}
