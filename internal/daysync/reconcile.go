// Package daysync mirrors the local day cache to the remote daily-log store.
//
// Writes go to the cache first. The first read of a day reconciles it once
// with the remote copy; afterwards the cache is authoritative and the
// worker pushes dirty days back. There is no ordering between devices:
// at most one writer per user is assumed, and the last push wins.
package daysync

import (
	"glowupp/nutrition-api/internal/cache"
	"glowupp/nutrition-api/internal/domain"
)

// Reconcile merges a remote day into the local one. Water and burned
// calories never move downward; the food list is taken from remote only
// when the local list is empty.
func Reconcile(local cache.Day, remote *domain.DailyLog) cache.Day {
	merged := local
	merged.Reconciled = true
	if remote == nil {
		return merged
	}
	merged.WaterMl = max(local.WaterMl, remote.WaterMl)
	merged.BurnedKcal = max(local.BurnedKcal, remote.BurnedCalories)
	if len(local.Foods) == 0 && len(remote.Items) > 0 {
		merged.Foods = append([]domain.TrackedFoodEntry(nil), remote.Items...)
	}
	return merged
}

// Unchanged reports whether merging remote would leave local as it is.
func Unchanged(local cache.Day, remote *domain.DailyLog) bool {
	if remote == nil {
		return true
	}
	return local.WaterMl >= remote.WaterMl &&
		local.BurnedKcal >= remote.BurnedCalories &&
		(len(local.Foods) > 0 || len(remote.Items) == 0)
}
