package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/nutrition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func food(name string, kcal float64) domain.TrackedFoodEntry {
	return domain.NewTrackedFood(name, domain.MealLunch, 100, "g",
		nutrition.Nutrients{Calories: kcal, ProteinG: 10}, "", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestApplyMigrationsIdempotent(t *testing.T) {
	t.Parallel()

	db, err := OpenDB(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, ApplyMigrations(db))
	require.NoError(t, ApplyMigrations(db))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, len(migrations), count)
}

func TestLoadMissingDayIsEmpty(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	d, err := s.Load(context.Background(), "u1", "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, "u1", d.UserID)
	assert.Equal(t, "2026-03-01", d.Day)
	assert.NotNil(t, d.Foods)
	assert.Empty(t, d.Foods)
	assert.False(t, d.HasData())
	assert.False(t, d.Reconciled)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	foods := []domain.TrackedFoodEntry{food("Oats", 380), food("Banana", 89)}
	require.NoError(t, s.SaveFoods(ctx, "u1", "2026-03-01", foods))
	require.NoError(t, s.SaveWater(ctx, "u1", "2026-03-01", 750))
	require.NoError(t, s.SaveBurned(ctx, "u1", "2026-03-01", 320))

	d, err := s.Load(ctx, "u1", "2026-03-01")
	require.NoError(t, err)
	require.Len(t, d.Foods, 2)
	assert.Equal(t, foods[0].ID, d.Foods[0].ID)
	assert.Equal(t, "Banana", d.Foods[1].Name)
	assert.InDelta(t, 89, d.Foods[1].Calories, 1e-9)
	assert.Equal(t, 750, d.WaterMl)
	assert.Equal(t, 320, d.BurnedKcal)
	assert.Equal(t, int64(3), d.Version)
	assert.False(t, d.Synced)

	other, err := s.Load(ctx, "u2", "2026-03-01")
	require.NoError(t, err)
	assert.False(t, other.HasData(), "days are keyed per user")
}

func TestNegativeValuesRejected(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	assert.Error(t, s.SaveWater(context.Background(), "u1", "2026-03-01", -1))
	assert.Error(t, s.SaveBurned(context.Background(), "u1", "2026-03-01", -5))
}

func TestMarkSyncedRequiresCurrentVersion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SaveWater(ctx, "u1", "2026-03-01", 250))
	pending, err := s.PendingDays(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	read := pending[0]

	// A write lands while the push is in flight.
	require.NoError(t, s.SaveWater(ctx, "u1", "2026-03-01", 500))

	ok, err := s.MarkSynced(ctx, "u1", "2026-03-01", read.Version)
	require.NoError(t, err)
	assert.False(t, ok)

	pending, err = s.PendingDays(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 500, pending[0].WaterMl)

	ok, err = s.MarkSynced(ctx, "u1", "2026-03-01", pending[0].Version)
	require.NoError(t, err)
	assert.True(t, ok)

	pending, err = s.PendingDays(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPendingDaysSkipsEmptyDays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.SaveWater(ctx, "u1", "2026-03-02", 0))
	require.NoError(t, s.SaveFoods(ctx, "u1", "2026-03-03", nil))
	require.NoError(t, s.SaveBurned(ctx, "u1", "2026-03-01", 120))
	require.NoError(t, s.SaveFoods(ctx, "u2", "2026-03-01", []domain.TrackedFoodEntry{food("Rice", 130)}))

	pending, err := s.PendingDays(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "u1", pending[0].UserID)
	assert.Equal(t, "u2", pending[1].UserID)

	limited, err := s.PendingDays(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSaveReconciledAndMarkReconciled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	merged := Day{UserID: "u1", Day: "2026-03-01", Foods: []domain.TrackedFoodEntry{food("Eggs", 155)}, WaterMl: 900, BurnedKcal: 40}
	require.NoError(t, s.SaveReconciled(ctx, merged))

	d, err := s.Load(ctx, "u1", "2026-03-01")
	require.NoError(t, err)
	assert.True(t, d.Reconciled)
	assert.False(t, d.Synced)
	assert.Equal(t, 900, d.WaterMl)
	require.Len(t, d.Foods, 1)

	require.NoError(t, s.MarkReconciled(ctx, "u1", "2026-03-04"))
	empty, err := s.Load(ctx, "u1", "2026-03-04")
	require.NoError(t, err)
	assert.True(t, empty.Reconciled)
	assert.False(t, empty.HasData())

	// Marking an existing dirty day reconciled keeps its values and dirtiness.
	require.NoError(t, s.SaveWater(ctx, "u1", "2026-03-05", 300))
	require.NoError(t, s.MarkReconciled(ctx, "u1", "2026-03-05"))
	kept, err := s.Load(ctx, "u1", "2026-03-05")
	require.NoError(t, err)
	assert.True(t, kept.Reconciled)
	assert.False(t, kept.Synced)
	assert.Equal(t, 300, kept.WaterMl)
}
