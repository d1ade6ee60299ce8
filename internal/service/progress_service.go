package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"glowupp/nutrition-api/internal/domain"
	"glowupp/nutrition-api/internal/progress"
	"glowupp/nutrition-api/internal/repository"
)

var (
	ErrUnknownEventKind = errors.New("unknown progress event kind")
	ErrInvalidCalories  = errors.New("calories must not be negative")
)

// EventInput describes something the user did. OccurredAt carries the
// user's local wall clock; the hour drives the early-bird and night-owl badges.
type EventInput struct {
	Kind       domain.ProgressEventKind
	Calories   int
	OccurredAt time.Time // zero means now
	Day        string    // defaults to the day of OccurredAt
}

type ProgressService interface {
	// Record appends the event and returns the refreshed view. Daily kinds
	// (login, nutrition goal) are appended at most once per day.
	Record(ctx context.Context, userID string, in EventInput) (*domain.Progress, error)
	Get(ctx context.Context, userID string) (*domain.Progress, error)
}

type progressService struct {
	repo repository.ProgressRepository
	now  func() time.Time
}

func NewProgressService(repo repository.ProgressRepository) ProgressService {
	return &progressService{repo: repo, now: time.Now}
}

func (s *progressService) Record(ctx context.Context, userID string, in EventInput) (*domain.Progress, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if !in.Kind.Valid() {
		return nil, ErrUnknownEventKind
	}
	if in.Calories < 0 {
		return nil, ErrInvalidCalories
	}
	if in.OccurredAt.IsZero() {
		in.OccurredAt = s.now()
	}
	day := in.Day
	if day == "" {
		day = domain.DayOf(in.OccurredAt)
	} else if day, err = domain.ParseDay(day); err != nil {
		return nil, err
	}

	events, err := s.repo.ListEvents(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("list progress events: %w", err)
	}
	if onceADay(in.Kind) && hasEventOn(events, in.Kind, day) {
		view := progress.Reduce(oid, events)
		return &view, nil
	}

	event := &domain.ProgressEvent{
		UserID:     oid,
		Kind:       in.Kind,
		Calories:   in.Calories,
		Day:        day,
		LocalHour:  in.OccurredAt.Hour(),
		OccurredAt: in.OccurredAt,
	}
	if _, err := s.repo.AppendEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("append progress event: %w", err)
	}
	events = append(events, *event)

	view := progress.Reduce(oid, events)
	view.UpdatedAt = s.now().UTC()
	// A failed save leaves a view whose EventCount lags the log; Get rebuilds it.
	if err := s.repo.SaveView(ctx, &view); err != nil {
		log.Printf("WARN: Failed to save progress view for user %s: %v", userID, err)
	}
	return &view, nil
}

// Get returns the stored view, rebuilding it from the log when it is missing
// or folded fewer events than the log holds.
func (s *progressService) Get(ctx context.Context, userID string) (*domain.Progress, error) {
	oid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	view, err := s.repo.GetView(ctx, oid)
	switch {
	case err == nil:
		count, err := s.repo.CountEvents(ctx, oid)
		if err != nil {
			return nil, fmt.Errorf("count progress events: %w", err)
		}
		if count == view.EventCount {
			return view, nil
		}
		log.Printf("INFO: Progress view for user %s is stale (%d of %d events), rebuilding", userID, view.EventCount, count)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	events, err := s.repo.ListEvents(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("list progress events: %w", err)
	}
	rebuilt := progress.Reduce(oid, events)
	rebuilt.UpdatedAt = s.now().UTC()
	if len(events) > 0 {
		if err := s.repo.SaveView(ctx, &rebuilt); err != nil {
			log.Printf("WARN: Failed to save rebuilt progress view for user %s: %v", userID, err)
		}
	}
	return &rebuilt, nil
}

func onceADay(kind domain.ProgressEventKind) bool {
	return kind == domain.EventDailyLogin || kind == domain.EventNutritionGoalMet
}

func hasEventOn(events []domain.ProgressEvent, kind domain.ProgressEventKind, day string) bool {
	for _, ev := range events {
		if ev.Kind == kind && ev.Day == day {
			return true
		}
	}
	return false
}

// recordQuietly is used by other services: progress is a side effect that
// must never fail the operation that earned it.
func recordQuietly(ctx context.Context, p ProgressService, userID string, in EventInput) {
	if p == nil {
		return
	}
	if _, err := p.Record(ctx, userID, in); err != nil {
		log.Printf("WARN: Failed to record %s event for user %s: %v", in.Kind, userID, err)
	}
}
