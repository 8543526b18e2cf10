package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

const snapchatAPIURL = "https://adsapi.snapchat.com"

// snapchatClient has no organic posting API to call; it publishes the
// attachment into the ad account's media library through the Marketing API,
// named after the post content.
type snapchatClient struct {
	http        *http.Client
	apiURL      string
	adAccountID string
}

// NewSnapchatClient expects httpClient to carry the bearer token.
func NewSnapchatClient(httpClient *http.Client, adAccountID string) PlatformClient {
	return &snapchatClient{
		http:        httpClient,
		apiURL:      snapchatAPIURL,
		adAccountID: adAccountID,
	}
}

func (c *snapchatClient) Platform() models.Platform {
	return models.PlatformSnapchat
}

func (c *snapchatClient) Publish(ctx context.Context, post models.Post) (PublishResult, error) {
	if err := requireMedia(post, models.MediaKindImage, models.MediaKindVideo); err != nil {
		return PublishResult{}, err
	}

	endpoint := fmt.Sprintf("%s/v1/adaccounts/%s/media", c.apiURL, url.PathEscape(c.adAccountID))
	request := transfer.SnapMediaRequest{Media: []transfer.SnapMedia{{
		Name:        post.Content,
		Type:        strings.ToUpper(string(post.Media.Kind)),
		AdAccountID: c.adAccountID,
	}}}

	var created transfer.SnapMediaResponse
	if _, err := doJSON(ctx, c.http, "Snapchat", http.MethodPost, endpoint, nil, request, &created); err != nil {
		return PublishResult{}, fmt.Errorf("failed to create Snapchat media: %w", err)
	}
	if len(created.Media) == 0 || created.Media[0].Media.ID == "" {
		return PublishResult{}, fmt.Errorf("no media ID returned from Snapchat")
	}
	mediaID := created.Media[0].Media.ID

	uploadURL := fmt.Sprintf("%s/v1/media/%s/upload", c.apiURL, url.PathEscape(mediaID))
	if _, err := doMultipart(ctx, c.http, "Snapchat", uploadURL, "file", post.Media.Path, nil, nil); err != nil {
		return PublishResult{}, fmt.Errorf("failed to upload Snapchat media: %w", err)
	}

	return PublishResult{ExternalID: mediaID}, nil
}
