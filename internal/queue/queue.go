package queue

import (
	"context"
	"sync"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
)

const (
	DefaultInterval       = time.Minute
	DefaultPublishTimeout = 30 * time.Second
	DefaultConcurrency    = 10

	// MissedWindowReason is the failure reason for posts later than MaxLateness.
	MissedWindowReason = "missed publish window"
)

// StatusRecorder is told about every terminal transition the dispatcher makes.
type StatusRecorder interface {
	Record(ctx context.Context, post models.Post) error
}

type Options struct {
	Interval       time.Duration
	PublishTimeout time.Duration
	// MaxLateness fails posts claimed more than this long after their
	// scheduled time. Zero publishes overdue posts however late they are.
	MaxLateness time.Duration
	Concurrency int
	Now         func() time.Time
}

// Dispatcher publishes due posts from the queue through the registry.
type Dispatcher struct {
	queue     repository.PostQueue
	registry  service.PublisherRegistry
	recorders []StatusRecorder
	opts      Options

	// cycle serializes RunOnce so two cycles never overlap.
	cycle sync.Mutex
}

func NewDispatcher(
	queue repository.PostQueue,
	registry service.PublisherRegistry,
	opts Options,
	recorders ...StatusRecorder) *Dispatcher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = DefaultPublishTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Dispatcher{
		queue:     queue,
		registry:  registry,
		recorders: recorders,
		opts:      opts,
	}
}

const TaskTypePostStatus = "post:status"

type PostStatusPayload struct {
	PostID     string    `json:"post_id"`
	Platform   string    `json:"platform"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	ExternalID string    `json:"external_id,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func newPostStatusPayload(post models.Post) PostStatusPayload {
	return PostStatusPayload{
		PostID:     post.ID,
		Platform:   string(post.Platform),
		Status:     string(post.Status),
		Reason:     post.FailureReason,
		ExternalID: post.ExternalID,
		UpdatedAt:  post.UpdatedAt,
	}
}
