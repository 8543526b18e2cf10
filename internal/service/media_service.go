package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/postpilot/internal/models"
)

var mediaExtensions = map[string]models.MediaKind{
	".jpg":  models.MediaKindImage,
	".jpeg": models.MediaKindImage,
	".png":  models.MediaKindImage,
	".mp4":  models.MediaKindVideo,
	".mov":  models.MediaKindVideo,
}

// Media kinds each platform accepts. Platforms without an entry take images only.
var platformMediaKinds = map[models.Platform][]models.MediaKind{
	models.PlatformTikTok:  {models.MediaKindImage, models.MediaKindVideo},
	models.PlatformYoutube: {models.MediaKindVideo},
}

// MediaResolver validates a local media reference before it is attached to a
// post. Resolve never fails the caller: anything unusable yields no attachment.
type MediaResolver interface {
	Resolve(platform models.Platform, path string) (*models.Attachment, bool)
}

type mediaResolver struct {
	dir string
}

// NewMediaResolver creates the staging directory when it does not exist yet.
func NewMediaResolver(dir string) (MediaResolver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &mediaResolver{dir: dir}, nil
}

func (r *mediaResolver) Resolve(platform models.Platform, path string) (*models.Attachment, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.dir, path)
	}

	att, err := r.resolve(platform, path)
	if err != nil {
		slog.Info("media ignored", "platform", platform, "path", path, "error", err.Error())
		return nil, false
	}
	return att, true
}

func (r *mediaResolver) resolve(platform models.Platform, path string) (*models.Attachment, error) {
	ext := strings.ToLower(filepath.Ext(path))
	kind, ok := mediaExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}
	if !acceptsKind(platform, kind) {
		return nil, fmt.Errorf("%s does not accept %s attachments", platform, kind)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	head := make([]byte, 261)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("error reading file header: %w", err)
	}
	head = head[:n]

	fileType, err := filetype.Match(head)
	if err != nil || fileType == types.Unknown {
		return nil, fmt.Errorf("unrecognized file content")
	}

	switch kind {
	case models.MediaKindImage:
		if !filetype.IsImage(head) {
			return nil, fmt.Errorf("content is %s, not an image", fileType.MIME.Value)
		}
	case models.MediaKindVideo:
		if !filetype.IsVideo(head) {
			return nil, fmt.Errorf("content is %s, not a video", fileType.MIME.Value)
		}
	}

	return &models.Attachment{
		Path: path,
		Kind: kind,
		MIME: fileType.MIME.Value,
	}, nil
}

func acceptsKind(platform models.Platform, kind models.MediaKind) bool {
	kinds, ok := platformMediaKinds[platform]
	if !ok {
		return kind == models.MediaKindImage
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
