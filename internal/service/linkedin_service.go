package service

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/transfer"
)

const linkedinAPIURL = "https://api.linkedin.com"

var linkedinHeaders = map[string]string{"X-Restli-Protocol-Version": "2.0.0"}

// linkedinClient shares through the UGC Posts API on behalf of authorURN.
// Images are registered as assets and uploaded before the share is created.
type linkedinClient struct {
	http      *http.Client
	apiURL    string
	authorURN string
}

func NewLinkedInClient(httpClient *http.Client, authorURN string) PlatformClient {
	return &linkedinClient{
		http:      httpClient,
		apiURL:    linkedinAPIURL,
		authorURN: authorURN,
	}
}

func (c *linkedinClient) Platform() models.Platform {
	return models.PlatformLinkedIn
}

func (c *linkedinClient) Publish(ctx context.Context, post models.Post) (PublishResult, error) {
	content := transfer.LinkedInShareContent{
		ShareCommentary:    transfer.LinkedInText{Text: post.Content},
		ShareMediaCategory: "NONE",
	}

	if post.Media != nil {
		asset, err := c.uploadImage(ctx, post.Media)
		if err != nil {
			return PublishResult{}, err
		}
		content.ShareMediaCategory = "IMAGE"
		content.Media = []transfer.LinkedInMedia{{Status: "READY", Media: asset}}
	}

	share := transfer.LinkedInUGCPost{
		Author:          c.authorURN,
		LifecycleState:  "PUBLISHED",
		SpecificContent: map[string]transfer.LinkedInShareContent{"com.linkedin.ugc.ShareContent": content},
		Visibility:      map[string]string{"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC"},
	}

	var created transfer.LinkedInUGCPostResponse
	resp, err := doJSON(ctx, c.http, "LinkedIn", http.MethodPost, c.apiURL+"/v2/ugcPosts", linkedinHeaders, share, &created)
	if err != nil {
		return PublishResult{}, fmt.Errorf("failed to create LinkedIn share: %w", err)
	}

	id := created.ID
	if id == "" {
		id = resp.Header.Get("X-Restli-Id")
	}
	return PublishResult{ExternalID: id}, nil
}

func (c *linkedinClient) uploadImage(ctx context.Context, att *models.Attachment) (string, error) {
	var register transfer.LinkedInRegisterUploadRequest
	register.RegisterUploadRequest.Recipes = []string{"urn:li:digitalmediaRecipe:feedshare-image"}
	register.RegisterUploadRequest.Owner = c.authorURN
	register.RegisterUploadRequest.ServiceRelationships = []transfer.LinkedInServiceRelationship{
		{RelationshipType: "OWNER", Identifier: "urn:li:userGeneratedContent"},
	}

	var registered transfer.LinkedInRegisterUploadResponse
	_, err := doJSON(ctx, c.http, "LinkedIn", http.MethodPost, c.apiURL+"/v2/assets?action=registerUpload", linkedinHeaders, register, &registered)
	if err != nil {
		return "", fmt.Errorf("failed to register LinkedIn upload: %w", err)
	}

	mechanism, ok := registered.Value.UploadMechanism[transfer.LinkedInUploadMechanism]
	if !ok || mechanism.UploadURL == "" || registered.Value.Asset == "" {
		return "", fmt.Errorf("no upload URL returned from LinkedIn")
	}

	file, err := os.Open(att.Path)
	if err != nil {
		return "", fmt.Errorf("error opening media: %w", err)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, mechanism.UploadURL, file)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", att.MIME)

	if _, err := send(c.http, "LinkedIn", req, nil); err != nil {
		return "", fmt.Errorf("failed to upload image to LinkedIn: %w", err)
	}
	return registered.Value.Asset, nil
}
