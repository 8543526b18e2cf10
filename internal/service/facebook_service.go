package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

const facebookGraphURL = "https://graph.facebook.com/v21.0"

// facebookClient publishes to a page feed. Images are uploaded directly as a
// photo post carrying the message.
type facebookClient struct {
	http        *http.Client
	graphURL    string
	pageID      string
	accessToken string
}

func NewFacebookClient(httpClient *http.Client, pageID, accessToken string) PlatformClient {
	return &facebookClient{
		http:        httpClient,
		graphURL:    facebookGraphURL,
		pageID:      pageID,
		accessToken: accessToken,
	}
}

func (c *facebookClient) Platform() models.Platform {
	return models.PlatformFacebook
}

func (c *facebookClient) Publish(ctx context.Context, post models.Post) (PublishResult, error) {
	var obj transfer.GraphObject

	if post.Media != nil {
		endpoint := fmt.Sprintf("%s/%s/photos", c.graphURL, url.PathEscape(c.pageID))
		fields := map[string]string{
			"message":      post.Content,
			"access_token": c.accessToken,
		}
		if _, err := doMultipart(ctx, c.http, "Facebook", endpoint, "source", post.Media.Path, fields, &obj); err != nil {
			return PublishResult{}, fmt.Errorf("failed to publish photo to Facebook: %w", err)
		}
		if obj.PostID != "" {
			return PublishResult{ExternalID: obj.PostID}, nil
		}
	} else {
		endpoint := fmt.Sprintf("%s/%s/feed", c.graphURL, url.PathEscape(c.pageID))
		payload := map[string]string{
			"message":      post.Content,
			"access_token": c.accessToken,
		}
		if _, err := doJSON(ctx, c.http, "Facebook", http.MethodPost, endpoint, nil, payload, &obj); err != nil {
			return PublishResult{}, fmt.Errorf("failed to publish to Facebook: %w", err)
		}
	}

	if obj.ID == "" {
		return PublishResult{}, fmt.Errorf("no post ID returned from Facebook")
	}
	return PublishResult{ExternalID: obj.ID}, nil
}
