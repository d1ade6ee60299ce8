// Package cache is the local-first per-day store. Every mutation of a
// user's food list, water or burned calories lands here first; the sync
// worker mirrors unsynced days to the remote store afterwards.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"glowupp/nutrition-api/internal/domain"
)

// Day is one cached (user, day) row.
type Day struct {
	UserID     string
	Day        string
	Foods      []domain.TrackedFoodEntry
	WaterMl    int
	BurnedKcal int
	Version    int64 // bumped on every write
	Synced     bool
	Reconciled bool
	UpdatedAt  time.Time
}

// HasData mirrors the remote rule: empty days are never pushed.
func (d Day) HasData() bool {
	return d.WaterMl > 0 || d.BurnedKcal > 0 || len(d.Foods) > 0
}

// Store wraps the SQLite day cache.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the cache file at path and migrates it.
func Open(path string) (*Store, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := ApplyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return New(db), nil
}

// New wraps an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveFoods replaces the food list for day and marks the day dirty.
func (s *Store) SaveFoods(ctx context.Context, userID, day string, foods []domain.TrackedFoodEntry) error {
	raw, err := encodeFoods(foods)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO day_cache(user_id, day, foods_json, updated_at) VALUES(?, ?, ?, ?)
ON CONFLICT(user_id, day) DO UPDATE SET
  foods_json = excluded.foods_json,
  version = day_cache.version + 1,
  synced = 0,
  updated_at = excluded.updated_at`,
		userID, day, raw, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save foods for %s: %w", day, err)
	}
	return nil
}

// SaveWater sets the water total for day and marks the day dirty.
func (s *Store) SaveWater(ctx context.Context, userID, day string, ml int) error {
	if ml < 0 {
		return fmt.Errorf("water must be >= 0, got %d", ml)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO day_cache(user_id, day, water_ml, updated_at) VALUES(?, ?, ?, ?)
ON CONFLICT(user_id, day) DO UPDATE SET
  water_ml = excluded.water_ml,
  version = day_cache.version + 1,
  synced = 0,
  updated_at = excluded.updated_at`,
		userID, day, ml, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save water for %s: %w", day, err)
	}
	return nil
}

// SaveBurned sets the active calories burned for day and marks the day dirty.
func (s *Store) SaveBurned(ctx context.Context, userID, day string, kcal int) error {
	if kcal < 0 {
		return fmt.Errorf("burned calories must be >= 0, got %d", kcal)
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO day_cache(user_id, day, burned_kcal, updated_at) VALUES(?, ?, ?, ?)
ON CONFLICT(user_id, day) DO UPDATE SET
  burned_kcal = excluded.burned_kcal,
  version = day_cache.version + 1,
  synced = 0,
  updated_at = excluded.updated_at`,
		userID, day, kcal, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save burned calories for %s: %w", day, err)
	}
	return nil
}

// SaveReconciled writes the merged result of the first remote read of a day
// and flags the day as reconciled. The day stays dirty so local values the
// remote lacked are pushed back.
func (s *Store) SaveReconciled(ctx context.Context, d Day) error {
	raw, err := encodeFoods(d.Foods)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO day_cache(user_id, day, foods_json, water_ml, burned_kcal, reconciled, updated_at) VALUES(?, ?, ?, ?, ?, 1, ?)
ON CONFLICT(user_id, day) DO UPDATE SET
  foods_json = excluded.foods_json,
  water_ml = excluded.water_ml,
  burned_kcal = excluded.burned_kcal,
  version = day_cache.version + 1,
  synced = 0,
  reconciled = 1,
  updated_at = excluded.updated_at`,
		d.UserID, d.Day, raw, d.WaterMl, d.BurnedKcal, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save reconciled day %s: %w", d.Day, err)
	}
	return nil
}

// MarkReconciled flags day as reconciled without touching its values.
func (s *Store) MarkReconciled(ctx context.Context, userID, day string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO day_cache(user_id, day, synced, reconciled, updated_at) VALUES(?, ?, 1, 1, ?)
ON CONFLICT(user_id, day) DO UPDATE SET reconciled = 1`,
		userID, day, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("mark %s reconciled: %w", day, err)
	}
	return nil
}

// Load returns the cached day. A missing row yields an empty, unsynced,
// unreconciled Day rather than an error.
func (s *Store) Load(ctx context.Context, userID, day string) (Day, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT user_id, day, foods_json, water_ml, burned_kcal, version, synced, reconciled, updated_at
FROM day_cache WHERE user_id = ? AND day = ?`, userID, day)
	d, err := scanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Day{UserID: userID, Day: day, Foods: []domain.TrackedFoodEntry{}}, nil
	}
	if err != nil {
		return Day{}, fmt.Errorf("load day %s: %w", day, err)
	}
	return d, nil
}

// MarkSynced flags the day as mirrored, but only if it was not written
// since version was read. It reports whether the flag was set.
func (s *Store) MarkSynced(ctx context.Context, userID, day string, version int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE day_cache SET synced = 1 WHERE user_id = ? AND day = ? AND version = ?`,
		userID, day, version)
	if err != nil {
		return false, fmt.Errorf("mark %s synced: %w", day, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark %s synced: %w", day, err)
	}
	return n == 1, nil
}

// PendingDays lists unsynced days that carry data, oldest first.
func (s *Store) PendingDays(ctx context.Context, limit int) ([]Day, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT user_id, day, foods_json, water_ml, burned_kcal, version, synced, reconciled, updated_at
FROM day_cache
WHERE synced = 0 AND (water_ml > 0 OR burned_kcal > 0 OR foods_json NOT IN ('', '[]', 'null'))
ORDER BY day ASC, user_id ASC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending days: %w", err)
	}
	defer rows.Close()

	out := make([]Day, 0)
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending day: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending days: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDay(sc scanner) (Day, error) {
	var (
		d          Day
		raw        string
		synced     int
		reconciled int
		updatedAt  int64
	)
	if err := sc.Scan(&d.UserID, &d.Day, &raw, &d.WaterMl, &d.BurnedKcal, &d.Version, &synced, &reconciled, &updatedAt); err != nil {
		return Day{}, err
	}
	foods, err := decodeFoods(raw)
	if err != nil {
		return Day{}, err
	}
	d.Foods = foods
	d.Synced = synced == 1
	d.Reconciled = reconciled == 1
	d.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return d, nil
}

func encodeFoods(foods []domain.TrackedFoodEntry) (string, error) {
	if foods == nil {
		foods = []domain.TrackedFoodEntry{}
	}
	b, err := json.Marshal(foods)
	if err != nil {
		return "", fmt.Errorf("encode foods: %w", err)
	}
	return string(b), nil
}

func decodeFoods(raw string) ([]domain.TrackedFoodEntry, error) {
	foods := []domain.TrackedFoodEntry{}
	if raw == "" || raw == "null" {
		return foods, nil
	}
	if err := json.Unmarshal([]byte(raw), &foods); err != nil {
		return nil, fmt.Errorf("decode foods: %w", err)
	}
	if foods == nil {
		foods = []domain.TrackedFoodEntry{}
	}
	return foods, nil
}
