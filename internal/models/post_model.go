package models

import "time"

type Platform string

const (
	PlatformFacebook  Platform = "Facebook"
	PlatformInstagram Platform = "Instagram"
	PlatformTwitter   Platform = "X (Twitter)"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformTikTok    Platform = "TikTok"
	PlatformSnapchat  Platform = "Snapchat"
	PlatformYoutube   Platform = "YouTube"
)

// Platforms lists every supported network in display order.
var Platforms = []Platform{
	PlatformFacebook,
	PlatformInstagram,
	PlatformTwitter,
	PlatformLinkedIn,
	PlatformTikTok,
	PlatformSnapchat,
	PlatformYoutube,
}

// ParsePlatform accepts the display name or a lowercase alias ("twitter", "x").
func ParsePlatform(s string) (Platform, bool) {
	switch s {
	case "facebook", string(PlatformFacebook):
		return PlatformFacebook, true
	case "instagram", string(PlatformInstagram):
		return PlatformInstagram, true
	case "twitter", "x", string(PlatformTwitter):
		return PlatformTwitter, true
	case "linkedin", string(PlatformLinkedIn):
		return PlatformLinkedIn, true
	case "tiktok", string(PlatformTikTok):
		return PlatformTikTok, true
	case "snapchat", string(PlatformSnapchat):
		return PlatformSnapchat, true
	case "youtube", string(PlatformYoutube):
		return PlatformYoutube, true
	}
	return "", false
}

// Key is the lowercase identifier used for credential namespaces and env vars.
func (p Platform) Key() string {
	switch p {
	case PlatformTwitter:
		return "twitter"
	case PlatformFacebook:
		return "facebook"
	case PlatformInstagram:
		return "instagram"
	case PlatformLinkedIn:
		return "linkedin"
	case PlatformTikTok:
		return "tiktok"
	case PlatformSnapchat:
		return "snapchat"
	case PlatformYoutube:
		return "youtube"
	}
	return string(p)
}

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

type Attachment struct {
	Path string    `json:"path"`
	Kind MediaKind `json:"kind"`
	MIME string    `json:"mime"`
}

type PostStatus string

const (
	PostStatusQueued    PostStatus = "Queued"
	PostStatusPublished PostStatus = "Published"
	PostStatusFailed    PostStatus = "Failed"
)

type Post struct {
	ID            string      `json:"id"`
	Platform      Platform    `json:"platform"`
	Content       string      `json:"content"`
	Media         *Attachment `json:"media,omitempty"`
	ScheduledTime time.Time   `json:"scheduled_time"`
	Status        PostStatus  `json:"status"`
	FailureReason string      `json:"failure_reason,omitempty"`
	ExternalID    string      `json:"external_id,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (p Post) IsTerminal() bool {
	return p.Status == PostStatusPublished || p.Status == PostStatusFailed
}

// IsDue reports whether a queued post should be published at now.
func (p Post) IsDue(now time.Time) bool {
	return p.Status == PostStatusQueued && !p.ScheduledTime.After(now.UTC())
}

// StatusText renders the status the way it is displayed, with the failure
// reason appended for failed posts.
func (p Post) StatusText() string {
	if p.Status == PostStatusFailed && p.FailureReason != "" {
		return "Failed: " + p.FailureReason
	}
	return string(p.Status)
}

func (p Post) MediaPath() string {
	if p.Media == nil {
		return ""
	}
	return p.Media.Path
}
