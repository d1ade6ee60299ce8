package daysync

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"glowupp/nutrition-api/internal/cache"
	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocalStore is the subset of the day cache the syncer needs.
type LocalStore interface {
	Load(ctx context.Context, userID, day string) (cache.Day, error)
	SaveReconciled(ctx context.Context, d cache.Day) error
	MarkReconciled(ctx context.Context, userID, day string) error
	PendingDays(ctx context.Context, limit int) ([]cache.Day, error)
	MarkSynced(ctx context.Context, userID, day string, version int64) (bool, error)
}

// PushResult summarises one push pass.
type PushResult struct {
	Pushed int // mirrored and marked synced
	Stale  int // mirrored, but rewritten locally meanwhile; pushed again next pass
	Failed int
}

// Syncer reconciles and pushes days between the cache and the remote store.
type Syncer struct {
	local     LocalStore
	remote    repository.DailyLogRepository
	batchSize int
	now       func() time.Time
}

// NewSyncer creates a Syncer pushing at most batchSize days per pass.
func NewSyncer(local LocalStore, remote repository.DailyLogRepository, batchSize int) *Syncer {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Syncer{local: local, remote: remote, batchSize: batchSize, now: time.Now}
}

// Subscribe returns the cached day, reconciling it with the remote copy the
// first time it is read. A remote failure is logged and the local value is
// returned; the day stays unreconciled so the next read tries again.
func (s *Syncer) Subscribe(ctx context.Context, userID, day string) (cache.Day, error) {
	local, err := s.local.Load(ctx, userID, day)
	if err != nil {
		return cache.Day{}, err
	}
	if local.Reconciled {
		return local, nil
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return cache.Day{}, fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	remote, err := s.remote.Get(ctx, oid, day)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Printf("WARN: Remote read of %s for user %s failed, serving cached day: %v", day, userID, err)
		return local, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		remote = nil
	}

	if Unchanged(local, remote) {
		if err := s.local.MarkReconciled(ctx, userID, day); err != nil {
			log.Printf("ERROR: Failed to mark %s reconciled for user %s: %v", day, userID, err)
		}
		local.Reconciled = true
		return local, nil
	}

	merged := Reconcile(local, remote)
	if err := s.local.SaveReconciled(ctx, merged); err != nil {
		log.Printf("ERROR: Failed to store reconciled day %s for user %s: %v", day, userID, err)
		return merged, nil
	}
	return s.local.Load(ctx, userID, day)
}

// PushPending mirrors every dirty day to the remote store. Each day is
// upserted independently; the returned error joins every failure.
func (s *Syncer) PushPending(ctx context.Context) (PushResult, error) {
	var res PushResult

	days, err := s.local.PendingDays(ctx, s.batchSize)
	if err != nil {
		return res, err
	}

	var errs []error
	for _, d := range days {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		oid, err := primitive.ObjectIDFromHex(d.UserID)
		if err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("day %s: invalid user id %q", d.Day, d.UserID))
			continue
		}

		entry := &domain.DailyLog{
			UserID:         oid,
			Date:           d.Day,
			WaterMl:        d.WaterMl,
			BurnedCalories: d.BurnedKcal,
			Items:          d.Foods,
			SyncedAt:       s.now().UTC(),
		}
		if err := s.remote.Upsert(ctx, entry); err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("push %s for user %s: %w", d.Day, d.UserID, err))
			continue
		}

		ok, err := s.local.MarkSynced(ctx, d.UserID, d.Day, d.Version)
		if err != nil {
			res.Failed++
			errs = append(errs, err)
			continue
		}
		if ok {
			res.Pushed++
		} else {
			res.Stale++
		}
	}
	return res, errors.Join(errs...)
}
