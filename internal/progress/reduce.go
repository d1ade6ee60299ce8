// Package progress derives XP, level, streak and badges from the
// append-only progress event log.
package progress

import (
	"sort"

	"glowupp/nutrition-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// XP awarded per action.
const (
	WorkoutXP        = 50
	CaloriesPerXP    = 8 // workouts earn 1 XP per 8 kcal burned on top of WorkoutXP
	DailyLoginXP     = 10
	PlanCreatedXP    = 100
	WeightLoggedXP   = 50
	NutritionGoalXP  = 25
	RunMinXP         = 50
	CaloriesPerRunXP = 5 // a run earns kcal/5, never less than RunMinXP
	BadgeUnlockXP    = 100
	LevelUpBonusXP   = 200
)

// RunXP is the award for a run that burned kcal.
func RunXP(kcal int) int {
	return max(max(kcal, 0)/CaloriesPerRunXP, RunMinXP)
}

// Local-hour windows for the early_bird and night_owl badges.
const (
	earlyBirdBefore  = 7
	nightOwlFromHour = 21
)

// Reduce folds events into the progress view for userID. Events are applied
// in OccurredAt order regardless of input order, and repeated daily logins or
// nutrition goals on the same day count once, so the result is a pure
// function of the set of events.
func Reduce(userID primitive.ObjectID, events []domain.ProgressEvent) domain.Progress {
	sorted := make([]domain.ProgressEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].OccurredAt.Equal(sorted[j].OccurredAt) {
			return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
		}
		return sorted[i].ID.Hex() < sorted[j].ID.Hex()
	})

	r := &reducer{
		p: domain.Progress{
			UserID: userID,
			Badges: []domain.BadgeUnlock{},
		},
		unlocked: make(map[string]bool),
		goalDays: make(map[string]bool),
	}
	for _, ev := range sorted {
		r.apply(ev)
	}

	r.p.Level = LevelForXP(r.p.XP)
	r.p.LevelProgress = LevelProgress(r.p.XP)
	r.p.XPToNextLevel = XPToNextLevel(r.p.XP)
	r.p.EventCount = len(sorted)
	if n := len(sorted); n > 0 {
		r.p.UpdatedAt = sorted[n-1].OccurredAt
	}
	return r.p
}

type reducer struct {
	p        domain.Progress
	unlocked map[string]bool
	goalDays map[string]bool
}

func (r *reducer) apply(ev domain.ProgressEvent) {
	switch ev.Kind {
	case domain.EventWorkoutCompleted:
		r.p.WorkoutCount++
		r.p.CaloriesBurned += max(ev.Calories, 0)
		if ev.LocalHour < earlyBirdBefore {
			r.p.EarlyBirdWorkouts++
		}
		if ev.LocalHour >= nightOwlFromHour {
			r.p.NightOwlWorkouts++
		}
		r.award(WorkoutXP)
		r.award(max(ev.Calories, 0) / CaloriesPerXP)

	case domain.EventRunCompleted:
		r.p.RunCount++
		r.p.CaloriesBurned += max(ev.Calories, 0)
		r.award(RunXP(ev.Calories))

	case domain.EventDailyLogin:
		switch r.p.LastLoginDay {
		case ev.Day:
			return
		case domain.PreviousDay(ev.Day):
			r.p.LoginStreak++
		default:
			r.p.LoginStreak = 1
		}
		r.p.LastLoginDay = ev.Day
		r.p.LongestStreak = max(r.p.LongestStreak, r.p.LoginStreak)
		r.award(DailyLoginXP)

	case domain.EventPlanCreated:
		r.p.PlanCount++
		r.award(PlanCreatedXP)

	case domain.EventWeightLogged:
		r.p.WeightEntries++
		r.award(WeightLoggedXP)

	case domain.EventNutritionGoalMet:
		if r.goalDays[ev.Day] {
			return
		}
		r.goalDays[ev.Day] = true
		r.p.NutritionGoalDays++
		r.award(NutritionGoalXP)

	case domain.EventFollowerGained:
		r.p.Followers++

	case domain.EventFollowerLost:
		// Social badges already earned are kept.
		r.p.Followers = max(r.p.Followers-1, 0)

	default:
		return
	}
	r.unlockBadges(ev)
}

// award adds amount and grants a single level-up bonus if the award crossed
// into a new level.
func (r *reducer) award(amount int) {
	if amount <= 0 {
		return
	}
	before := LevelForXP(r.p.XP)
	r.p.XP += amount
	if LevelForXP(r.p.XP) > before {
		r.p.XP += LevelUpBonusXP
	}
}

// unlockBadges repeats until stable since badge XP can raise the level and
// unlock a level badge.
func (r *reducer) unlockBadges(ev domain.ProgressEvent) {
	for {
		changed := false
		for _, b := range Badges {
			if r.unlocked[b.ID] || b.metric(&r.p) < b.Requirement {
				continue
			}
			r.unlocked[b.ID] = true
			r.p.Badges = append(r.p.Badges, domain.BadgeUnlock{ID: b.ID, UnlockedAt: ev.OccurredAt})
			if b.Category != CategoryLevel {
				r.award(BadgeUnlockXP)
			}
			changed = true
		}
		if !changed {
			return
		}
	}
}
