package daysync

import (
	"context"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Pusher runs one push pass.
type Pusher interface {
	PushPending(ctx context.Context) (PushResult, error)
}

// Worker pushes pending days on a fixed interval, backing off
// exponentially while the remote store keeps failing.
type Worker struct {
	pusher     Pusher
	interval   time.Duration
	maxBackoff time.Duration
	nudge      chan struct{}
}

func NewWorker(p Pusher, interval, maxBackoff time.Duration) *Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if maxBackoff < interval {
		maxBackoff = interval
	}
	return &Worker{
		pusher:     p,
		interval:   interval,
		maxBackoff: maxBackoff,
		nudge:      make(chan struct{}, 1),
	}
}

// retryBackOff doubles from interval up to maxBackoff and never gives up.
// Jitter is off so the delays stay predictable for a single worker.
func (w *Worker) retryBackOff() *backoff.ExponentialBackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(w.interval),
		backoff.WithMaxInterval(w.maxBackoff),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxElapsedTime(0),
	)
}

// Notify asks the worker to push soon. It never blocks.
func (w *Worker) Notify() {
	select {
	case w.nudge <- struct{}{}:
	default:
	}
}

// Run loops until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	log.Printf("INFO: Sync worker started (interval %s, max backoff %s)", w.interval, w.maxBackoff)
	retry := w.retryBackOff()
	retrying := false
	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("INFO: Sync worker stopped.")
			return
		case <-timer.C:
		case <-w.nudge:
			if retrying {
				// still backing off; the timer decides
				continue
			}
			timer.Stop()
		}

		if err := w.pushOnce(ctx); err != nil {
			delay := retry.NextBackOff()
			retrying = true
			log.Printf("WARN: Sync push failed, retrying in %s: %v", delay, err)
			timer.Reset(delay)
			continue
		}
		retry.Reset()
		retrying = false
		timer.Reset(w.interval)
	}
}

// Flush runs a single push pass, used on shutdown and by the CLI.
func (w *Worker) Flush(ctx context.Context) error {
	return w.pushOnce(ctx)
}

func (w *Worker) pushOnce(ctx context.Context) error {
	res, err := w.pusher.PushPending(ctx)
	if res.Pushed > 0 || res.Stale > 0 || res.Failed > 0 {
		log.Printf("INFO: Sync pass: pushed=%d stale=%d failed=%d", res.Pushed, res.Stale, res.Failed)
	}
	return err
}
