package job

import (
	"context"
	"log/slog"
	"sync"

	"github.com/maheshrc27/postpilot/internal/service"
)

// CredentialsRefreshJob rebuilds the platform clients from the credential
// source so rotated tokens and newly saved secrets take effect.
type CredentialsRefreshJob struct {
	cs       service.CredentialService
	factory  service.ClientFactory
	registry service.PublisherRegistry

	mu sync.Mutex
}

func NewCredentialsRefreshJob(
	cs service.CredentialService,
	factory service.ClientFactory,
	registry service.PublisherRegistry) *CredentialsRefreshJob {
	return &CredentialsRefreshJob{
		cs:       cs,
		factory:  factory,
		registry: registry,
	}
}

// Refresh returns the number of platforms with a client afterwards.
func (j *CredentialsRefreshJob) Refresh(ctx context.Context) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	creds := j.cs.Load(ctx)
	clients := j.factory.Build(ctx, creds)
	j.registry.Replace(clients)

	slog.Info("platform clients refreshed", "configured", len(clients))
	return len(clients)
}

// RefreshClients is the cron entry point.
func (j *CredentialsRefreshJob) RefreshClients() {
	j.Refresh(context.Background())
}
