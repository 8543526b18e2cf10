package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

// Run dispatches once immediately and then every Interval until ctx is
// cancelled. A cycle in progress at cancellation runs to completion.
func (d *Dispatcher) Run(ctx context.Context) error {
	log.Printf("Dispatcher started, polling every %s", d.opts.Interval)

	d.RunOnce(ctx)

	ticker := time.NewTicker(d.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Dispatcher stopped")
			return nil
		case <-ticker.C:
			d.RunOnce(ctx)
		}
	}
}

// RunOnce claims every due post and publishes it. Publish failures are
// recorded on the post and never returned.
func (d *Dispatcher) RunOnce(ctx context.Context) transfer.DispatchReport {
	d.cycle.Lock()
	defer d.cycle.Unlock()

	now := d.opts.Now().UTC()
	due := d.queue.ClaimDue(now)

	report := transfer.DispatchReport{Due: len(due)}
	if len(due) == 0 {
		return report
	}

	// Publishes outlive the caller's cancellation; PublishTimeout bounds them.
	publishCtx := context.WithoutCancel(ctx)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		semaphore = make(chan struct{}, d.opts.Concurrency)
	)

	count := func(status models.PostStatus) {
		mu.Lock()
		defer mu.Unlock()
		switch status {
		case models.PostStatusPublished:
			report.Published++
		case models.PostStatusFailed:
			report.Failed++
		}
	}

	for _, post := range due {
		if d.opts.MaxLateness > 0 && now.Sub(post.ScheduledTime) > d.opts.MaxLateness {
			count(d.finish(publishCtx, post, publishOutcome{Err: errors.New(MissedWindowReason)}))
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(post models.Post) {
			defer wg.Done()
			defer func() { <-semaphore }()

			count(d.finish(publishCtx, post, d.publish(publishCtx, post)))
		}(post)
	}

	wg.Wait()

	slog.Info("dispatch cycle finished", "due", report.Due, "published", report.Published, "failed", report.Failed)
	return report
}

type publishOutcome struct {
	ExternalID string
	Err        error
}

func (d *Dispatcher) publish(ctx context.Context, post models.Post) (outcome publishOutcome) {
	ctx, cancel := context.WithTimeout(ctx, d.opts.PublishTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			outcome = publishOutcome{Err: fmt.Errorf("publish panicked: %v", r)}
		}
	}()

	res, err := d.registry.Publish(ctx, post)
	if err != nil {
		return publishOutcome{Err: err}
	}
	return publishOutcome{ExternalID: res.ExternalID}
}

// finish records the outcome on the queue and notifies the recorders. It
// returns the resulting status, or an empty status when the transition failed.
func (d *Dispatcher) finish(ctx context.Context, post models.Post, outcome publishOutcome) models.PostStatus {
	var (
		updated models.Post
		err     error
	)
	if outcome.Err != nil {
		log.Printf("Error posting to %s for PostID %s: %v", post.Platform, post.ID, outcome.Err)
		updated, err = d.queue.MarkFailed(post.ID, outcome.Err.Error())
	} else {
		updated, err = d.queue.MarkPublished(post.ID, outcome.ExternalID)
	}
	if err != nil {
		slog.Error("post status not recorded", "post_id", post.ID, "error", err)
		return ""
	}

	for _, r := range d.recorders {
		if err := r.Record(ctx, updated); err != nil {
			slog.Error("status recorder failed", "post_id", post.ID, "error", err)
		}
	}
	return updated.Status
}

// HandlePostStatusTask replays a post:status task into recorders.
func HandlePostStatusTask(recorders ...StatusRecorder) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload PostStatusPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid %s payload: %v: %w", TaskTypePostStatus, err, asynq.SkipRetry)
		}

		post := models.Post{
			ID:            payload.PostID,
			Platform:      models.Platform(payload.Platform),
			Status:        models.PostStatus(payload.Status),
			FailureReason: payload.Reason,
			ExternalID:    payload.ExternalID,
			UpdatedAt:     payload.UpdatedAt,
		}
		for _, r := range recorders {
			if err := r.Record(ctx, post); err != nil {
				return err
			}
		}
		return nil
	}
}
