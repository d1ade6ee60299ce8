package progress

import (
	"math/rand"
	"testing"
	"time"

	"glowupp/nutrition-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var base = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func event(kind domain.ProgressEventKind, offset time.Duration) domain.ProgressEvent {
	at := base.Add(offset)
	return domain.ProgressEvent{
		ID:         primitive.NewObjectIDFromTimestamp(at),
		Kind:       kind,
		Day:        domain.DayOf(at),
		LocalHour:  at.Hour(),
		OccurredAt: at,
	}
}

func badgeIDs(p domain.Progress) []string {
	ids := make([]string, 0, len(p.Badges))
	for _, b := range p.Badges {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestLevelForXP(t *testing.T) {
	cases := map[int]int{-5: 1, 0: 1, 99: 1, 399: 1, 400: 2, 899: 2, 900: 3, 2500: 5, 10000: 10, 62500: 25}
	for xp, want := range cases {
		assert.Equal(t, want, LevelForXP(xp), "xp %d", xp)
	}
	assert.Equal(t, 900, XPForLevel(3))
	assert.InDelta(t, 0.0, LevelProgress(50), 1e-9)
	assert.InDelta(t, 200.0/700.0, LevelProgress(1100), 1e-9)
	assert.Equal(t, 500, XPToNextLevel(1100))
}

func TestReduce_Empty(t *testing.T) {
	uid := primitive.NewObjectID()
	p := Reduce(uid, nil)
	assert.Equal(t, uid, p.UserID)
	assert.Equal(t, 0, p.XP)
	assert.Equal(t, 1, p.Level)
	assert.NotNil(t, p.Badges)
	assert.Empty(t, p.Badges)
}

func TestReduce_WorkoutXPAndFirstBadge(t *testing.T) {
	ev := event(domain.EventWorkoutCompleted, time.Hour)
	ev.Calories = 400

	p := Reduce(primitive.NewObjectID(), []domain.ProgressEvent{ev})

	// 50 base + 400/8 + 100 for first_workout
	assert.Equal(t, 200, p.XP)
	assert.Equal(t, 1, p.WorkoutCount)
	assert.Equal(t, 400, p.CaloriesBurned)
	assert.Equal(t, []string{"first_workout"}, badgeIDs(p))
	assert.Equal(t, ev.OccurredAt, p.Badges[0].UnlockedAt)
}

func TestReduce_LevelUpBonusFromBadge(t *testing.T) {
	var events []domain.ProgressEvent
	for i := 0; i < 5; i++ {
		events = append(events, event(domain.EventPlanCreated, time.Duration(i)*time.Hour))
	}

	p := Reduce(primitive.NewObjectID(), events)

	// 100 → +100 first_plan → 300 → 400 crosses level 2 (+200) → 700 → 800 →
	// +100 plan_master crosses level 3 (+200).
	assert.Equal(t, 1100, p.XP)
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 5, p.PlanCount)
	assert.Equal(t, []string{"first_plan", "plan_master"}, badgeIDs(p))
	assert.Equal(t, 500, p.XPToNextLevel)
}

func TestReduce_LevelBadgesGrantNoXP(t *testing.T) {
	ev := event(domain.EventWorkoutCompleted, 0)
	ev.Calories = 20000

	p := Reduce(primitive.NewObjectID(), []domain.ProgressEvent{ev})

	// 50 + 2500 crosses into level 5 (+200), then four badges at 100 each.
	assert.Equal(t, 3150, p.XP)
	assert.Equal(t, 5, p.Level)
	assert.Equal(t, []string{"first_workout", "calorie_crusher_1k", "calorie_crusher_5k", "calorie_crusher_10k", "level_5"}, badgeIDs(p))
}

func TestReduce_LoginStreak(t *testing.T) {
	day := 24 * time.Hour
	events := []domain.ProgressEvent{
		event(domain.EventDailyLogin, 0),
		event(domain.EventDailyLogin, day),
		event(domain.EventDailyLogin, 2*day),
		event(domain.EventDailyLogin, 4*day),
		event(domain.EventDailyLogin, 4*day+time.Hour), // same day again
	}

	p := Reduce(primitive.NewObjectID(), events)

	assert.Equal(t, 40, p.XP)
	assert.Equal(t, 1, p.LoginStreak)
	assert.Equal(t, 3, p.LongestStreak)
	assert.Equal(t, "2026-01-05", p.LastLoginDay)
	assert.Equal(t, 5, p.EventCount)
}

func TestReduce_WeekWarrior(t *testing.T) {
	var events []domain.ProgressEvent
	for i := 0; i < 7; i++ {
		events = append(events, event(domain.EventDailyLogin, time.Duration(i)*24*time.Hour))
	}

	p := Reduce(primitive.NewObjectID(), events)

	assert.Equal(t, 7, p.LoginStreak)
	assert.True(t, p.HasBadge("week_warrior"))
	assert.Equal(t, 70+BadgeUnlockXP, p.XP)
}

func TestReduce_EarlyBird(t *testing.T) {
	var events []domain.ProgressEvent
	for i := 0; i < 5; i++ {
		ev := event(domain.EventWorkoutCompleted, time.Duration(i)*24*time.Hour)
		ev.LocalHour = 6
		events = append(events, ev)
	}

	p := Reduce(primitive.NewObjectID(), events)

	assert.Equal(t, 5, p.EarlyBirdWorkouts)
	assert.Equal(t, 0, p.NightOwlWorkouts)
	assert.Equal(t, []string{"first_workout", "early_bird"}, badgeIDs(p))
	// 5×50 + 2×100 badges, crossing 400 on the last badge (+200)
	assert.Equal(t, 650, p.XP)
}

func TestReduce_NutritionGoalCountsOncePerDay(t *testing.T) {
	events := []domain.ProgressEvent{
		event(domain.EventNutritionGoalMet, time.Hour),
		event(domain.EventNutritionGoalMet, 2*time.Hour),
		event(domain.EventWeightLogged, 3*time.Hour),
		event(domain.EventRunCompleted, 4*time.Hour),
	}

	p := Reduce(primitive.NewObjectID(), events)

	assert.Equal(t, 1, p.NutritionGoalDays)
	assert.Equal(t, 1, p.WeightEntries)
	assert.Equal(t, 1, p.RunCount)
	// 25 goal + 50 weight + 50 minimum for a run without calories
	assert.Equal(t, 125, p.XP)
}

func TestReduce_WeightEntryXP(t *testing.T) {
	p := Reduce(primitive.NewObjectID(), []domain.ProgressEvent{event(domain.EventWeightLogged, 0)})
	assert.Equal(t, 50, p.XP)
}

func TestReduce_RunXPScalesWithCalories(t *testing.T) {
	run := event(domain.EventRunCompleted, time.Hour)
	run.Calories = 600

	p := Reduce(primitive.NewObjectID(), []domain.ProgressEvent{run})

	assert.Equal(t, 120, p.XP)
	assert.Equal(t, 600, p.CaloriesBurned)

	cases := map[int]int{0: 50, -10: 50, 100: 50, 250: 50, 255: 51, 600: 120, 1000: 200}
	for kcal, want := range cases {
		assert.Equal(t, want, RunXP(kcal), "kcal %d", kcal)
	}
}

func TestReduce_SocialBadges(t *testing.T) {
	var events []domain.ProgressEvent
	for i := 0; i < 10; i++ {
		events = append(events, event(domain.EventFollowerGained, time.Duration(i)*time.Minute))
	}

	p := Reduce(primitive.NewObjectID(), events)

	assert.Equal(t, 10, p.Followers)
	assert.Equal(t, []string{"first_follower", "social_butterfly"}, badgeIDs(p))
	// followers earn nothing themselves, each badge is worth 100
	assert.Equal(t, 2*BadgeUnlockXP, p.XP)

	events = append(events,
		event(domain.EventFollowerLost, time.Hour),
		event(domain.EventFollowerLost, 2*time.Hour),
	)
	p = Reduce(primitive.NewObjectID(), events)

	assert.Equal(t, 8, p.Followers)
	assert.True(t, p.HasBadge("social_butterfly"), "an earned badge is kept")
	assert.False(t, p.HasBadge("influencer"))
}

func TestReduce_FollowerCountNeverNegative(t *testing.T) {
	p := Reduce(primitive.NewObjectID(), []domain.ProgressEvent{
		event(domain.EventFollowerLost, 0),
		event(domain.EventFollowerGained, time.Hour),
	})

	assert.Equal(t, 1, p.Followers)
	assert.Equal(t, []string{"first_follower"}, badgeIDs(p))
}

func TestReduce_OrderIndependent(t *testing.T) {
	var events []domain.ProgressEvent
	for i := 0; i < 12; i++ {
		kind := domain.EventPlanCreated
		if i%3 == 0 {
			kind = domain.EventDailyLogin
		}
		ev := event(kind, time.Duration(i)*7*time.Hour)
		ev.Calories = i * 10
		events = append(events, ev)
	}
	uid := primitive.NewObjectID()
	want := Reduce(uid, events)

	shuffled := make([]domain.ProgressEvent, len(events))
	copy(shuffled, events)
	rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	require.Equal(t, want, Reduce(uid, shuffled))
}

func TestBadgeByID(t *testing.T) {
	b, ok := BadgeByID("month_master")
	require.True(t, ok)
	assert.Equal(t, 30, b.Requirement)
	assert.Equal(t, CategoryStreak, b.Category)

	b, ok = BadgeByID("influencer")
	require.True(t, ok)
	assert.Equal(t, 50, b.Requirement)
	assert.Equal(t, CategorySocial, b.Category)

	_, ok = BadgeByID("marathoner")
	assert.False(t, ok)
}
