package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

const (
	tiktokAPIURL       = "https://open.tiktokapis.com"
	tiktokPrivacyLevel = "PUBLIC_TO_EVERYONE"
	tiktokTitleLimit   = 90
)

// tiktokClient uses the Content Posting API in PULL_FROM_URL mode, so the
// attachment is first published through the MediaStore.
type tiktokClient struct {
	http        *http.Client
	apiURL      string
	accessToken string
	media       MediaStore
}

func NewTiktokClient(httpClient *http.Client, media MediaStore, accessToken string) PlatformClient {
	return &tiktokClient{
		http:        httpClient,
		apiURL:      tiktokAPIURL,
		accessToken: accessToken,
		media:       media,
	}
}

func (c *tiktokClient) Platform() models.Platform {
	return models.PlatformTikTok
}

func (c *tiktokClient) Publish(ctx context.Context, post models.Post) (PublishResult, error) {
	if err := requireMedia(post, models.MediaKindImage, models.MediaKindVideo); err != nil {
		return PublishResult{}, err
	}
	if c.media == nil {
		return PublishResult{}, ErrMediaStoreNotConfigured
	}

	mediaURL, err := c.media.Upload(ctx, post.Media)
	if err != nil {
		return PublishResult{}, err
	}

	var endpoint string
	var payload any
	switch post.Media.Kind {
	case models.MediaKindVideo:
		endpoint = c.apiURL + "/v2/post/publish/video/init/"
		payload = transfer.VideoUploadRequest{
			PostInfo: transfer.VideoPostInfo{
				Title:                 post.Content,
				PrivacyLevel:          tiktokPrivacyLevel,
				VideoCoverTimestampMs: 1000,
			},
			SourceInfo: transfer.VideoSourceInfo{
				Source:   "PULL_FROM_URL",
				VideoURL: mediaURL,
			},
		}
	default:
		endpoint = c.apiURL + "/v2/post/publish/content/init/"
		payload = transfer.PhotoUploadRequest{
			PostInfo: transfer.PhotoPostInfo{
				Title:        truncateRunes(post.Content, tiktokTitleLimit),
				Description:  post.Content,
				PrivacyLevel: tiktokPrivacyLevel,
			},
			SourceInfo: transfer.PhotoSourceInfo{
				Source:          "PULL_FROM_URL",
				PhotoCoverIndex: 0,
				PhotoImages:     []string{mediaURL},
			},
			PostMode:  "DIRECT_POST",
			MediaType: "PHOTO",
		}
	}

	headers := map[string]string{"Authorization": "Bearer " + c.accessToken}
	var resp transfer.TikTokUploadResponse
	if _, err := doJSON(ctx, c.http, "TikTok", http.MethodPost, endpoint, headers, payload, &resp); err != nil {
		return PublishResult{}, fmt.Errorf("failed to publish to TikTok: %w", err)
	}
	if resp.Error.Code != "" && resp.Error.Code != "ok" {
		return PublishResult{}, fmt.Errorf("TikTok error %s: %s", resp.Error.Code, resp.Error.Message)
	}

	return PublishResult{ExternalID: resp.Data.PublishID}, nil
}
