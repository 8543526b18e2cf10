package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/maheshrc27/postpilot/internal/models"
)

// ErrClientNotConfigured is returned when no client exists for a post's platform.
var ErrClientNotConfigured = errors.New("client not configured")

type PublishResult struct {
	ExternalID string
}

// PlatformClient publishes to one network. Publish creates a real, visible
// post on success and is not idempotent: callers must not retry it blindly.
type PlatformClient interface {
	Platform() models.Platform
	Publish(ctx context.Context, post models.Post) (PublishResult, error)
}

type PublisherRegistry interface {
	Publish(ctx context.Context, post models.Post) (PublishResult, error)
	Replace(clients []PlatformClient)
	Configured(platform models.Platform) bool
}

type publisherRegistry struct {
	mu      sync.RWMutex
	clients map[models.Platform]PlatformClient
}

func NewPublisherRegistry(clients ...PlatformClient) PublisherRegistry {
	r := &publisherRegistry{}
	r.Replace(clients)
	return r
}

func (r *publisherRegistry) Publish(ctx context.Context, post models.Post) (PublishResult, error) {
	r.mu.RLock()
	client, ok := r.clients[post.Platform]
	r.mu.RUnlock()

	if !ok {
		return PublishResult{}, ErrClientNotConfigured
	}
	return client.Publish(ctx, post)
}

// Replace swaps the whole client set; nil entries are skipped.
func (r *publisherRegistry) Replace(clients []PlatformClient) {
	next := make(map[models.Platform]PlatformClient, len(clients))
	for _, c := range clients {
		if c == nil {
			continue
		}
		next[c.Platform()] = c
	}

	r.mu.Lock()
	r.clients = next
	r.mu.Unlock()

	slog.Info("platform clients updated", "count", len(next))
}

func (r *publisherRegistry) Configured(platform models.Platform) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[platform]
	return ok
}
