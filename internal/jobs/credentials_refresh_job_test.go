package job

import (
	"context"
	"testing"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCredentials struct {
	creds map[models.Platform]models.Credentials
}

func (m *memoryCredentials) Load(ctx context.Context) map[models.Platform]models.Credentials {
	return m.creds
}

func (m *memoryCredentials) Save(ctx context.Context, platform models.Platform, values map[string]string) error {
	m.creds[platform] = values
	return nil
}

func TestRefreshReplacesClients(t *testing.T) {
	cs := &memoryCredentials{creds: map[models.Platform]models.Credentials{}}
	registry := service.NewPublisherRegistry()
	j := NewCredentialsRefreshJob(cs, service.NewClientFactory(0, nil), registry)

	assert.Zero(t, j.Refresh(context.Background()))
	assert.False(t, registry.Configured(models.PlatformTwitter))

	require.NoError(t, cs.Save(context.Background(), models.PlatformTwitter, map[string]string{"ACCESS_TOKEN": "t"}))
	require.NoError(t, cs.Save(context.Background(), models.PlatformLinkedIn, map[string]string{"ACCESS_TOKEN": "t", "AUTHOR_URN": "urn:li:person:1"}))

	assert.Equal(t, 2, j.Refresh(context.Background()))
	assert.True(t, registry.Configured(models.PlatformTwitter))
	assert.True(t, registry.Configured(models.PlatformLinkedIn))

	delete(cs.creds, models.PlatformTwitter)
	j.RefreshClients()
	assert.False(t, registry.Configured(models.PlatformTwitter))
}
