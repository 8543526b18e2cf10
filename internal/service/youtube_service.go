package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/maheshrc27/postpilot/internal/models"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	youtubeTitleLimit = 100
	youtubeCategory   = "22"
)

type youtubeClient struct {
	service *youtube.Service
}

// NewYoutubeClient expects httpClient to carry an OAuth token with the
// youtube.upload scope.
func NewYoutubeClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (PlatformClient, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error creating YouTube service: %w", err)
	}
	return &youtubeClient{service: service}, nil
}

func (c *youtubeClient) Platform() models.Platform {
	return models.PlatformYoutube
}

func (c *youtubeClient) Publish(ctx context.Context, post models.Post) (PublishResult, error) {
	if err := requireMedia(post, models.MediaKindVideo); err != nil {
		return PublishResult{}, err
	}

	file, err := os.Open(post.Media.Path)
	if err != nil {
		return PublishResult{}, fmt.Errorf("error opening video file: %w", err)
	}
	defer file.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       youtubeTitle(post.Content),
			Description: post.Content,
			CategoryId:  youtubeCategory,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: "public",
		},
	}

	response, err := c.service.Videos.Insert([]string{"snippet", "status"}, video).Media(file).Context(ctx).Do()
	if err != nil {
		return PublishResult{}, fmt.Errorf("error uploading video: %w", err)
	}

	return PublishResult{ExternalID: response.Id}, nil
}

// youtubeTitle takes the first line of the content, cut to the title limit.
func youtubeTitle(content string) string {
	title, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	title = truncateRunes(strings.TrimSpace(title), youtubeTitleLimit)
	if title == "" {
		return "Untitled"
	}
	return title
}
