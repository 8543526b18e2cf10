package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrMediaStoreNotConfigured = errors.New("media store not configured")
	ErrPublicURLRequired       = errors.New("R2_PUBLIC_URL is required when R2 is enabled")
)

// MediaStore publishes a local attachment at a public URL, for platforms that
// pull media from a URL instead of accepting an upload.
type MediaStore interface {
	Upload(ctx context.Context, att *models.Attachment) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type r2Store struct {
	client    objectPutter
	bucket    string
	publicURL string
}

// NewR2Store builds a Cloudflare R2 backed MediaStore. r2.PublicURL must be a
// publicly readable origin for the bucket (r2.dev subdomain or custom domain).
func NewR2Store(ctx context.Context, r2 cfg.R2) (MediaStore, error) {
	if strings.TrimSpace(r2.PublicURL) == "" {
		return nil, ErrPublicURLRequired
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2.AccessKey, r2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID))
	})

	return newR2Store(client, r2.BucketName, r2.PublicURL), nil
}

func newR2Store(client objectPutter, bucket, publicURL string) *r2Store {
	return &r2Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (r *r2Store) Upload(ctx context.Context, att *models.Attachment) (string, error) {
	file, err := os.Open(att.Path)
	if err != nil {
		return "", fmt.Errorf("error opening media: %w", err)
	}
	defer file.Close()

	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	key := id + strings.ToLower(filepath.Ext(att.Path))

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(att.MIME),
	})
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("error uploading media: %w", err)
	}

	return r.publicURL + "/" + key, nil
}
