package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

const twitterAPIURL = "https://api.x.com"

// twitterClient posts through the X API v2 with an OAuth 2.0 user-context
// token (tweet.write and media.write scopes). Images go through the v2 media
// upload endpoint first.
type twitterClient struct {
	http   *http.Client
	apiURL string
}

func NewTwitterClient(httpClient *http.Client) PlatformClient {
	return &twitterClient{
		http:   httpClient,
		apiURL: twitterAPIURL,
	}
}

func (c *twitterClient) Platform() models.Platform {
	return models.PlatformTwitter
}

func (c *twitterClient) Publish(ctx context.Context, post models.Post) (PublishResult, error) {
	tweet := transfer.TweetRequest{Text: post.Content}

	if post.Media != nil {
		mediaID, err := c.uploadMedia(ctx, post.Media)
		if err != nil {
			return PublishResult{}, err
		}
		tweet.Media = &transfer.TweetMedia{MediaIDs: []string{mediaID}}
	}

	var resp transfer.TweetResponse
	if _, err := doJSON(ctx, c.http, "X", http.MethodPost, c.apiURL+"/2/tweets", nil, tweet, &resp); err != nil {
		return PublishResult{}, fmt.Errorf("failed to create tweet: %w", err)
	}
	if resp.Data.ID == "" {
		return PublishResult{}, fmt.Errorf("no tweet ID returned from X")
	}

	return PublishResult{ExternalID: resp.Data.ID}, nil
}

func (c *twitterClient) uploadMedia(ctx context.Context, att *models.Attachment) (string, error) {
	fields := map[string]string{"media_category": "tweet_image"}

	var resp transfer.TwitterMediaUploadResponse
	_, err := doMultipart(ctx, c.http, "X", c.apiURL+"/2/media/upload", "media", att.Path, fields, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to upload media to X: %w", err)
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("no media ID returned from X")
	}
	return resp.Data.ID, nil
}
