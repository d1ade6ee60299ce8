package progress

import "glowupp/nutrition-api/internal/domain"

type BadgeCategory string

const (
	CategoryWorkout     BadgeCategory = "workout"
	CategoryAchievement BadgeCategory = "achievement"
	CategoryLevel       BadgeCategory = "level"
	CategoryStreak      BadgeCategory = "streak"
	CategorySpecial     BadgeCategory = "special"
	CategorySocial      BadgeCategory = "social"
)

// Badge is a threshold over one counter of the progress view.
type Badge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    BadgeCategory `json:"category"`
	Requirement int           `json:"requirement"`

	metric func(p *domain.Progress) int
}

func workouts(p *domain.Progress) int { return p.WorkoutCount }
func calories(p *domain.Progress) int { return p.CaloriesBurned }
func level(p *domain.Progress) int { return LevelForXP(p.XP) }
func streak(p *domain.Progress) int { return p.LoginStreak }
func plans(p *domain.Progress) int { return p.PlanCount }
func earlyBird(p *domain.Progress) int { return p.EarlyBirdWorkouts }
func nightOwl(p *domain.Progress) int { return p.NightOwlWorkouts }
func followers(p *domain.Progress) int { return p.Followers }

// Badges lists every badge in unlock-check order.
var Badges = []Badge{
	{ID: "first_workout", Name: "First Workout", Category: CategoryWorkout, Requirement: 1, metric: workouts},
	{ID: "committed_10", Name: "Getting Started", Category: CategoryWorkout, Requirement: 10, metric: workouts},
	{ID: "committed_50", Name: "Dedicated", Category: CategoryWorkout, Requirement: 50, metric: workouts},
	{ID: "committed_100", Name: "Committed", Category: CategoryWorkout, Requirement: 100, metric: workouts},

	{ID: "calorie_crusher_1k", Name: "Calorie Burner", Category: CategoryAchievement, Requirement: 1000, metric: calories},
	{ID: "calorie_crusher_5k", Name: "Calorie Crusher", Category: CategoryAchievement, Requirement: 5000, metric: calories},
	{ID: "calorie_crusher_10k", Name: "Inferno", Category: CategoryAchievement, Requirement: 10000, metric: calories},

	{ID: "level_5", Name: "Level 5", Category: CategoryLevel, Requirement: 5, metric: level},
	{ID: "level_10", Name: "Level 10", Category: CategoryLevel, Requirement: 10, metric: level},
	{ID: "level_25", Name: "Level 25", Category: CategoryLevel, Requirement: 25, metric: level},

	{ID: "early_bird", Name: "Early Bird", Category: CategorySpecial, Requirement: 5, metric: earlyBird},
	{ID: "night_owl", Name: "Night Owl", Category: CategorySpecial, Requirement: 5, metric: nightOwl},

	{ID: "week_warrior", Name: "Week Warrior", Category: CategoryStreak, Requirement: 7, metric: streak},
	{ID: "month_master", Name: "Month Master", Category: CategoryStreak, Requirement: 30, metric: streak},
	{ID: "year_champion", Name: "Year Champion", Category: CategoryStreak, Requirement: 365, metric: streak},

	{ID: "first_plan", Name: "Planner", Category: CategoryAchievement, Requirement: 1, metric: plans},
	{ID: "plan_master", Name: "Plan Master", Category: CategoryAchievement, Requirement: 5, metric: plans},

	{ID: "first_follower", Name: "First Follower", Category: CategorySocial, Requirement: 1, metric: followers},
	{ID: "social_butterfly", Name: "Social Butterfly", Category: CategorySocial, Requirement: 10, metric: followers},
	{ID: "influencer", Name: "Influencer", Category: CategorySocial, Requirement: 50, metric: followers},
}

// BadgeByID looks up a badge definition.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
