package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

const instagramGraphURL = "https://graph.instagram.com/v21.0"

// instagramClient runs the two-step container flow: create a media container
// from a public image URL, then publish the container.
type instagramClient struct {
	http        *http.Client
	graphURL    string
	accountID   string
	accessToken string
	media       MediaStore
}

func NewInstagramClient(httpClient *http.Client, media MediaStore, accountID, accessToken string) PlatformClient {
	return &instagramClient{
		http:        httpClient,
		graphURL:    instagramGraphURL,
		accountID:   accountID,
		accessToken: accessToken,
		media:       media,
	}
}

func (c *instagramClient) Platform() models.Platform {
	return models.PlatformInstagram
}

func (c *instagramClient) Publish(ctx context.Context, post models.Post) (PublishResult, error) {
	if err := requireMedia(post, models.MediaKindImage); err != nil {
		return PublishResult{}, err
	}
	if c.media == nil {
		return PublishResult{}, ErrMediaStoreNotConfigured
	}

	imageURL, err := c.media.Upload(ctx, post.Media)
	if err != nil {
		return PublishResult{}, err
	}

	var container transfer.GraphObject
	_, err = doJSON(ctx, c.http, "Instagram", http.MethodPost, c.endpoint("media"), nil, transfer.InstagramContainerRequest{
		ImageURL:    imageURL,
		Caption:     post.Content,
		AccessToken: c.accessToken,
	}, &container)
	if err != nil {
		return PublishResult{}, fmt.Errorf("failed to create Instagram media container: %w", err)
	}
	if container.ID == "" {
		return PublishResult{}, fmt.Errorf("no media ID returned from Instagram")
	}

	var published transfer.GraphObject
	_, err = doJSON(ctx, c.http, "Instagram", http.MethodPost, c.endpoint("media_publish"), nil, transfer.InstagramPublishRequest{
		CreationID:  container.ID,
		AccessToken: c.accessToken,
	}, &published)
	if err != nil {
		return PublishResult{}, fmt.Errorf("failed to publish Instagram media: %w", err)
	}

	slog.Info("instagram media published", "post_id", post.ID, "media_id", published.ID)
	return PublishResult{ExternalID: published.ID}, nil
}

func (c *instagramClient) endpoint(edge string) string {
	return fmt.Sprintf("%s/%s/%s", c.graphURL, url.PathEscape(c.accountID), edge)
}
