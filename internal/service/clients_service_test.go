package service

import (
	"context"
	"testing"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/stretchr/testify/assert"
)

func platformsOf(clients []PlatformClient) []models.Platform {
	var out []models.Platform
	for _, c := range clients {
		out = append(out, c.Platform())
	}
	return out
}

func TestClientFactoryBuildsConfiguredOnly(t *testing.T) {
	f := NewClientFactory(time.Second, nil)

	clients := f.Build(context.Background(), map[models.Platform]models.Credentials{
		models.PlatformTwitter:   {"ACCESS_TOKEN": "x"},
		models.PlatformLinkedIn:  {"ACCESS_TOKEN": "li"},
		models.PlatformFacebook:  {"ACCESS_TOKEN": "fb", "PAGE_ID": "42"},
		models.PlatformInstagram: {"ACCESS_TOKEN": "ig", "ACCOUNT_ID": "17"},
		models.PlatformYoutube:   {"ACCESS_TOKEN": "yt"},
	})

	assert.Equal(t, []models.Platform{
		models.PlatformFacebook,
		models.PlatformInstagram,
		models.PlatformTwitter,
		models.PlatformYoutube,
	}, platformsOf(clients))
}

func TestClientFactoryEmpty(t *testing.T) {
	f := NewClientFactory(time.Second, nil)

	assert.Empty(t, f.Build(context.Background(), nil))
}
