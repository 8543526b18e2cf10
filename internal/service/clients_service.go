package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const youtubeUploadScope = "https://www.googleapis.com/auth/youtube.upload"

// ClientFactory turns credentials into ready platform clients. A platform
// whose construction fails is skipped without affecting the others.
type ClientFactory interface {
	Build(ctx context.Context, creds map[models.Platform]models.Credentials) []PlatformClient
}

type clientFactory struct {
	base  *http.Client
	media MediaStore
}

// NewClientFactory bounds every platform request by timeout. media may be nil.
func NewClientFactory(timeout time.Duration, media MediaStore) ClientFactory {
	return &clientFactory{
		base:  &http.Client{Timeout: timeout},
		media: media,
	}
}

func (f *clientFactory) Build(ctx context.Context, creds map[models.Platform]models.Credentials) []PlatformClient {
	var clients []PlatformClient
	for _, platform := range models.Platforms {
		client, err := f.build(ctx, platform, creds[platform])
		if err != nil {
			slog.Error("unable to initialize platform client", "platform", platform, "error", err.Error())
			continue
		}
		if client == nil {
			slog.Info("platform not configured", "platform", platform)
			continue
		}
		clients = append(clients, client)
	}
	return clients
}

func (f *clientFactory) build(ctx context.Context, platform models.Platform, c models.Credentials) (PlatformClient, error) {
	switch platform {
	case models.PlatformFacebook:
		if !c.Has("ACCESS_TOKEN") {
			return nil, nil
		}
		pageID := c.Get("PAGE_ID")
		if pageID == "" {
			pageID = "me"
		}
		return NewFacebookClient(f.base, pageID, c.Get("ACCESS_TOKEN")), nil

	case models.PlatformTwitter:
		if !c.Has("ACCESS_TOKEN") {
			return nil, nil
		}
		return NewTwitterClient(f.bearerClient(ctx, c.Get("ACCESS_TOKEN"))), nil

	case models.PlatformLinkedIn:
		if !c.Has("ACCESS_TOKEN", "AUTHOR_URN") {
			return nil, nil
		}
		return NewLinkedInClient(f.bearerClient(ctx, c.Get("ACCESS_TOKEN")), c.Get("AUTHOR_URN")), nil

	case models.PlatformTikTok:
		if !c.Has("ACCESS_TOKEN") {
			return nil, nil
		}
		return NewTiktokClient(f.base, f.media, c.Get("ACCESS_TOKEN")), nil

	case models.PlatformInstagram:
		if !c.Has("ACCESS_TOKEN", "ACCOUNT_ID") {
			return nil, nil
		}
		return NewInstagramClient(f.base, f.media, c.Get("ACCOUNT_ID"), c.Get("ACCESS_TOKEN")), nil

	case models.PlatformSnapchat:
		if !c.Has("AD_ACCOUNT_ID", "ACCESS_TOKEN") {
			return nil, nil
		}
		return NewSnapchatClient(f.bearerClient(ctx, c.Get("ACCESS_TOKEN")), c.Get("AD_ACCOUNT_ID")), nil

	case models.PlatformYoutube:
		if c.Has("CLIENT_ID", "CLIENT_SECRET", "REFRESH_TOKEN") {
			conf := &oauth2.Config{
				ClientID:     c.Get("CLIENT_ID"),
				ClientSecret: c.Get("CLIENT_SECRET"),
				Scopes:       []string{youtubeUploadScope},
				Endpoint:     google.Endpoint,
			}
			ctx = context.WithValue(ctx, oauth2.HTTPClient, f.base)
			client := conf.Client(ctx, &oauth2.Token{RefreshToken: c.Get("REFRESH_TOKEN")})
			client.Timeout = f.base.Timeout
			return NewYoutubeClient(ctx, client)
		}
		if c.Has("ACCESS_TOKEN") {
			return NewYoutubeClient(ctx, f.bearerClient(ctx, c.Get("ACCESS_TOKEN")))
		}
		return nil, nil
	}
	return nil, nil
}

func (f *clientFactory) bearerClient(ctx context.Context, accessToken string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, f.base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
	client.Timeout = f.base.Timeout
	return client
}
