// Package s3 stores profile pictures in an S3 bucket.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"heartlink/internal/feature/profile/usecase"
	platformhttp "heartlink/internal/platform/http"
)

const uploadTimeout = 30 * time.Second

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PictureStore uploads objects with PutObject and returns their public URL.
type PictureStore struct {
	client  putObjectAPI
	bucket  string
	baseURL string
}

var _ usecase.PictureStore = (*PictureStore)(nil)

// NewS3PictureStore loads AWS credentials and region from the default chain.
// publicBaseURL, when set, replaces the virtual-hosted bucket URL (e.g. a CDN).
func NewS3PictureStore(ctx context.Context, bucket, publicBaseURL string) (*PictureStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithHTTPClient(platformhttp.NewHTTPClient(uploadTimeout)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	base := publicBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, cfg.Region)
	}
	return newPictureStore(s3.NewFromConfig(cfg), bucket, base), nil
}

func newPictureStore(client putObjectAPI, bucket, baseURL string) *PictureStore {
	return &PictureStore{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// Put uploads data under key.
func (s *PictureStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}
